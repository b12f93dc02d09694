package analysis

import "github.com/edp1096/toy-rlc/pkg/device"

// Trajectory is the time-indexed record of one transient run. All slices have
// the same length and entry i of each belongs to Time[i].
type Trajectory struct {
	Time           []float64
	TargetVoltage  []float64
	CircuitVoltage []float64
	TotalCurrent   []float64
	Energy         []float64
}

func newTrajectory(points int) *Trajectory {
	return &Trajectory{
		Time:           make([]float64, points),
		TargetVoltage:  make([]float64, points),
		CircuitVoltage: make([]float64, points),
		TotalCurrent:   make([]float64, points),
		Energy:         make([]float64, points),
	}
}

func (tr *Trajectory) Len() int {
	return len(tr.Time)
}

// IsFinite reports whether every recorded value is finite. The engine leaves
// NaN and Inf in place; callers that care check here.
func (tr *Trajectory) IsFinite() bool {
	for _, series := range [][]float64{tr.TargetVoltage, tr.CircuitVoltage, tr.TotalCurrent, tr.Energy} {
		for _, v := range series {
			if !device.IsFinite(v) {
				return false
			}
		}
	}
	return true
}

// Results exposes the trajectory in the keyed form used by GetResults.
// The slices are shared, not copied.
func (tr *Trajectory) Results() map[string][]float64 {
	return map[string][]float64{
		KeyTime:           tr.Time,
		KeyTargetVoltage:  tr.TargetVoltage,
		KeyCircuitVoltage: tr.CircuitVoltage,
		KeyTotalCurrent:   tr.TotalCurrent,
		KeyEnergy:         tr.Energy,
	}
}
