package device

import (
	"errors"
	"fmt"
	"math"

	"github.com/edp1096/toy-rlc/pkg/matrix"
)

// ErrInvalidParameter is returned for every configuration rejected before a run.
var ErrInvalidParameter = errors.New("invalid parameter")

// Device is the stamping surface used by the AC analysis.
// The transient update calls the concrete Current/Energy methods instead.
type Device interface {
	GetName() string
	GetType() string
	GetNodeNames() []string
	GetNodes() []int
	Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error
	GetValue() float64
	SetNodes(nodes []int)
}

type BaseDevice struct {
	Name      string
	Nodes     []int
	Value     float64
	NodeNames []string
}

type AnalysisMode int

const (
	TransientAnalysis AnalysisMode = iota
	ACAnalysis
)

type CircuitStatus struct {
	Time      float64
	TimeStep  float64
	Mode      AnalysisMode
	Frequency float64 // AC frequency
}

func (d *BaseDevice) GetName() string {
	return d.Name
}

func (d *BaseDevice) GetNodes() []int {
	return d.Nodes
}

func (d *BaseDevice) GetNodeNames() []string {
	return d.NodeNames
}

func (d *BaseDevice) GetValue() float64 {
	return d.Value
}

func (d *BaseDevice) SetNodes(nodes []int) {
	d.Nodes = nodes
}

// Validate rejects zero, negative and non-finite element values.
func (d *BaseDevice) Validate() error {
	if !IsPositive(d.Value) {
		return fmt.Errorf("%s: value %g must be positive and finite: %w", d.Name, d.Value, ErrInvalidParameter)
	}
	return nil
}

func NewBaseDevice(name string, value float64, nodeNames []string) *BaseDevice {
	return &BaseDevice{
		Name:      name,
		Value:     value,
		NodeNames: nodeNames,
		Nodes:     make([]int, len(nodeNames)),
	}
}

// IsPositive reports whether v is finite and strictly greater than zero.
func IsPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// stampAdmittance loads a two-terminal complex admittance between n1 and n2.
func stampAdmittance(matrix matrix.DeviceMatrix, n1, n2 int, real, imag float64) {
	if n1 != 0 {
		matrix.AddComplexElement(n1, n1, real, imag)
		if n2 != 0 {
			matrix.AddComplexElement(n1, n2, -real, -imag)
		}
	}
	if n2 != 0 {
		matrix.AddComplexElement(n2, n2, real, imag)
		if n1 != 0 {
			matrix.AddComplexElement(n2, n1, -real, -imag)
		}
	}
}
