package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/edp1096/toy-rlc/internal/consts"
)

// Summary holds the scalar figures derived from a finished trajectory.
type Summary struct {
	EnergyIn      float64
	EnergyOut     float64
	Efficiency    float64
	Temperature   float64
	Bits          int
	LandauerLimit float64
}

// EnergyIn is sum(target voltage) times the mean time step.
//
// This is a rectangle-rule sum over the voltage series, not an integral of
// v*i. It is kept in this form so results stay comparable with earlier runs.
func EnergyIn(tr *Trajectory) float64 {
	return floats.Sum(tr.TargetVoltage) * meanStep(tr.Time)
}

// EnergyOut is the sum of the per-step energy series.
func EnergyOut(tr *Trajectory) float64 {
	return floats.Sum(tr.Energy)
}

// EnergyEfficiency returns EnergyOut/EnergyIn, or 0 when EnergyIn is not
// positive (including NaN).
func EnergyEfficiency(tr *Trajectory) float64 {
	return efficiency(EnergyIn(tr), EnergyOut(tr))
}

func efficiency(in, out float64) float64 {
	if in > 0 {
		return out / in
	}
	return 0
}

// LandauerLimit returns bits*k_B*T*ln2 in joules.
func LandauerLimit(temperature float64, bits int) float64 {
	return float64(bits) * consts.BOLTZMANN * temperature * math.Ln2
}

func Summarize(tr *Trajectory, temperature float64, bits int) Summary {
	in := EnergyIn(tr)
	out := EnergyOut(tr)

	return Summary{
		EnergyIn:      in,
		EnergyOut:     out,
		Efficiency:    efficiency(in, out),
		Temperature:   temperature,
		Bits:          bits,
		LandauerLimit: LandauerLimit(temperature, bits),
	}
}

// meanStep is the mean of consecutive time differences, 0 with fewer than two samples.
func meanStep(t []float64) float64 {
	if len(t) < 2 {
		return 0
	}
	diffs := make([]float64, len(t)-1)
	floats.SubTo(diffs, t[1:], t[:len(t)-1])
	return stat.Mean(diffs, nil)
}
