package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-rlc/pkg/matrix"
)

type Inductor struct {
	BaseDevice
}

var _ Device = (*Inductor)(nil)

func NewInductor(name string, nodeNames []string, value float64) *Inductor {
	return &Inductor{
		BaseDevice: BaseDevice{
			Name:      name,
			Value:     value,
			Nodes:     make([]int, len(nodeNames)),
			NodeNames: nodeNames,
		},
	}
}

func (l *Inductor) GetType() string { return "L" }

// Current advances the inductor current by one forward Euler step.
// voltageDelta is the change of the driving voltage across the step, not the
// absolute voltage.
func (l *Inductor) Current(prevCurrent, voltageDelta, dt float64) float64 {
	return prevCurrent + (voltageDelta/l.Value)*dt
}

// Energy returns the energy stored in the magnetic field, L*I^2/2.
func (l *Inductor) Energy(current float64) float64 {
	return 0.5 * l.Value * (current * current)
}

func (l *Inductor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(l.Nodes) != 2 {
		return fmt.Errorf("inductor %s: requires exactly 2 nodes", l.Name)
	}
	if status.Mode != ACAnalysis {
		return fmt.Errorf("inductor %s: only AC stamping is supported", l.Name)
	}

	omega := 2 * math.Pi * status.Frequency
	if omega <= 0 {
		return fmt.Errorf("inductor %s: AC stamp needs a positive frequency: %w", l.Name, ErrInvalidParameter)
	}
	stampAdmittance(matrix, l.Nodes[0], l.Nodes[1], 0, -1/(omega*l.Value)) // Y = 1/(jωL)

	return nil
}
