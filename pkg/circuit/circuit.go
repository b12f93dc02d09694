package circuit

import (
	"errors"
	"fmt"
	"math"

	"github.com/edp1096/toy-rlc/pkg/device"
	"github.com/edp1096/toy-rlc/pkg/matrix"
)

// Node layout of the series network:
//
//	V1 1 0, R1 1 2, L1 2 3, C1 3 0
const (
	nodeSource    = "1"
	nodeResistor  = "2"
	nodeInductor  = "3"
	groundNode    = "0"
	sourceName    = "V1"
	resistorName  = "R1"
	inductorName  = "L1"
	capacitorName = "C1"
)

// Circuit is a fixed series RLC network. Its element values are immutable
// once constructed.
type Circuit struct {
	name      string
	Resistor  *device.Resistor
	Inductor  *device.Inductor
	Capacitor *device.Capacitor
	Source    *device.VoltageSource
	// Node pair the source is connected to by AttachSource
	sourceNodes []string
	nodeMap     map[string]int
	branchMap   map[string]int
	matrix      *matrix.CircuitMatrix
	Status      *device.CircuitStatus
}

// NewSeriesRLC validates R, L and C and builds the network. Every value must be
// finite and strictly positive.
func NewSeriesRLC(name string, resistance, inductance, capacitance float64) (*Circuit, error) {
	r := device.NewResistor(resistorName, []string{nodeSource, nodeResistor}, resistance)
	l := device.NewInductor(inductorName, []string{nodeResistor, nodeInductor}, inductance)
	c := device.NewCapacitor(capacitorName, []string{nodeInductor, groundNode}, capacitance)

	var errs []error
	for _, d := range []*device.BaseDevice{&r.BaseDevice, &l.BaseDevice, &c.BaseDevice} {
		if err := d.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Circuit{
		name:        name,
		Resistor:    r,
		Inductor:    l,
		Capacitor:   c,
		sourceNodes: []string{nodeSource, groundNode},
		nodeMap:     make(map[string]int),
		branchMap:   make(map[string]int),
		Status:      &device.CircuitStatus{},
	}, nil
}

// AttachSource connects the driving source to the source node pair, node 1
// and ground unless Connect moved it.
func (c *Circuit) AttachSource(src *device.VoltageSource) error {
	if src == nil {
		return fmt.Errorf("source is nil: %w", device.ErrInvalidParameter)
	}
	if err := src.Validate(); err != nil {
		return err
	}
	src.NodeNames = append([]string(nil), c.sourceNodes...)
	src.Nodes = make([]int, 2)
	c.Source = src
	return nil
}

// Connect places the elements on named node pairs, "+" terminal first.
// Node "0" is ground. The pairs are expected to form the series loop;
// AC results are reported under these names.
func (c *Circuit) Connect(source, resistor, inductor, capacitor []string) error {
	pairs := []struct {
		name  string
		nodes []string
	}{
		{sourceName, source},
		{resistorName, resistor},
		{inductorName, inductor},
		{capacitorName, capacitor},
	}
	for _, p := range pairs {
		if len(p.nodes) != 2 || p.nodes[0] == "" || p.nodes[1] == "" || p.nodes[0] == p.nodes[1] {
			return fmt.Errorf("%s: needs two distinct nodes, got %v: %w", p.name, p.nodes, device.ErrInvalidParameter)
		}
	}

	c.sourceNodes = append([]string(nil), source...)
	for i, dev := range []*device.BaseDevice{&c.Resistor.BaseDevice, &c.Inductor.BaseDevice, &c.Capacitor.BaseDevice} {
		dev.NodeNames = append([]string(nil), pairs[i+1].nodes...)
		dev.Nodes = make([]int, 2)
	}
	if c.Source != nil {
		c.Source.NodeNames = append([]string(nil), source...)
		c.Source.Nodes = make([]int, 2)
	}
	return nil
}

// Devices returns the elements in stamping order.
func (c *Circuit) Devices() []device.Device {
	devs := []device.Device{c.Resistor, c.Inductor, c.Capacitor}
	if c.Source != nil {
		devs = append([]device.Device{c.Source}, devs...)
	}
	return devs
}

// AssignNodeBranchMaps numbers the non-ground nodes from 1 and places the
// source branch current after them.
func (c *Circuit) AssignNodeBranchMaps() error {
	if c.Source == nil {
		return fmt.Errorf("circuit %s: no source attached", c.name)
	}

	clear(c.nodeMap)
	clear(c.branchMap)
	for _, dev := range c.Devices() {
		for _, nodeName := range dev.GetNodeNames() {
			if nodeName == groundNode {
				continue
			}
			if _, exists := c.nodeMap[nodeName]; !exists {
				c.nodeMap[nodeName] = len(c.nodeMap) + 1
			}
		}
	}
	c.branchMap[c.Source.GetName()] = len(c.nodeMap) + 1

	for _, dev := range c.Devices() {
		nodeIndices := make([]int, len(dev.GetNodeNames()))
		for i, nodeName := range dev.GetNodeNames() {
			nodeIndices[i] = c.nodeMap[nodeName] // ground maps to 0
		}
		dev.SetNodes(nodeIndices)
	}
	c.Source.SetBranchIndex(c.branchMap[c.Source.GetName()])

	return nil
}

func (c *Circuit) CreateMatrix() error {
	if c.matrix != nil {
		c.matrix.Destroy()
	}

	mat, err := matrix.NewMatrix(len(c.nodeMap) + len(c.branchMap))
	if err != nil {
		return err
	}
	mat.SetupElements()
	c.matrix = mat
	return nil
}

func (c *Circuit) Stamp(status *device.CircuitStatus) error {
	var err error

	for _, dev := range c.Devices() {
		err = dev.Stamp(c.matrix, status)
		if err != nil {
			return fmt.Errorf("stamping device %s: %w", dev.GetName(), err)
		}
	}
	return nil
}

func (c *Circuit) GetMatrix() *matrix.CircuitMatrix {
	return c.matrix
}

func (c *Circuit) GetNodeMap() map[string]int {
	return c.nodeMap
}

func (c *Circuit) GetBranchMap() map[string]int {
	return c.branchMap
}

// ResonantFrequency returns 1/(2π√(LC)) in Hz.
func (c *Circuit) ResonantFrequency() float64 {
	return 1 / (2 * math.Pi * math.Sqrt(c.Inductor.Value*c.Capacitor.Value))
}

// Impedance returns the series impedance R + j(ωL - 1/(ωC)) at freq.
func (c *Circuit) Impedance(freq float64) complex128 {
	omega := 2 * math.Pi * freq
	return complex(c.Resistor.Value, omega*c.Inductor.Value-1/(omega*c.Capacitor.Value))
}

func (c *Circuit) Destroy() {
	if c.matrix != nil {
		c.matrix.Destroy()
		c.matrix = nil
	}
}

func (c *Circuit) Name() string {
	return c.name
}
