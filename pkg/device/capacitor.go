package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-rlc/pkg/matrix"
)

type Capacitor struct {
	BaseDevice
}

var _ Device = (*Capacitor)(nil)

func NewCapacitor(name string, nodeNames []string, value float64) *Capacitor {
	return &Capacitor{
		BaseDevice: BaseDevice{
			Name:      name,
			Nodes:     make([]int, len(nodeNames)),
			NodeNames: nodeNames,
			Value:     value,
		},
	}
}

func (c *Capacitor) GetType() string { return "C" }

// Current approximates C*dV/dt with a backward difference over one step.
// dt must be positive; the transient setup guarantees it.
func (c *Capacitor) Current(voltage, prevVoltage, dt float64) float64 {
	return c.Value * (voltage - prevVoltage) / dt
}

// Energy returns the energy stored in the electric field, C*V^2/2.
func (c *Capacitor) Energy(voltage float64) float64 {
	return 0.5 * c.Value * (voltage * voltage)
}

func (c *Capacitor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(c.Nodes) != 2 {
		return fmt.Errorf("capacitor %s: requires exactly 2 nodes", c.Name)
	}
	if status.Mode != ACAnalysis {
		return fmt.Errorf("capacitor %s: only AC stamping is supported", c.Name)
	}

	omega := 2 * math.Pi * status.Frequency
	stampAdmittance(matrix, c.Nodes[0], c.Nodes[1], 0, omega*c.Value) // Y = jωC

	return nil
}
