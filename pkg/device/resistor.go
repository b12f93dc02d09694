package device

import (
	"fmt"

	"github.com/edp1096/toy-rlc/pkg/matrix"
)

type Resistor struct {
	BaseDevice
}

var _ Device = (*Resistor)(nil)

func NewResistor(name string, nodeNames []string, value float64) *Resistor {
	return &Resistor{
		BaseDevice: BaseDevice{
			Name:      name,
			Nodes:     make([]int, len(nodeNames)),
			NodeNames: nodeNames,
			Value:     value,
		},
	}
}

func (r *Resistor) GetType() string { return "R" }

// Current returns V/R.
func (r *Resistor) Current(voltage float64) float64 {
	return voltage / r.Value
}

func (r *Resistor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(r.Nodes) != 2 {
		return fmt.Errorf("resistor %s: requires exactly 2 nodes", r.Name)
	}

	g := 1.0 / r.Value // Conductance. G = 1/R
	stampAdmittance(matrix, r.Nodes[0], r.Nodes[1], g, 0)

	return nil
}
