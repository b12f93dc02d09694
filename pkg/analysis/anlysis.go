package analysis

import (
	"math"
	"math/cmplx"

	"github.com/edp1096/toy-rlc/pkg/circuit"
)

// Result keys shared by the analyses and the report writers.
const (
	KeyTime           = "TIME"
	KeyFrequency      = "FREQ"
	KeyTargetVoltage  = "V(target)"
	KeyCircuitVoltage = "V(circuit)"
	KeyTotalCurrent   = "I(total)"
	KeyEnergy         = "E(total)"
)

type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Circuit *circuit.Circuit
	results map[string][]float64 // key: variable name, value: result by time or frequency
}

func NewBaseAnalysis() *BaseAnalysis {
	return &BaseAnalysis{results: make(map[string][]float64)}
}

func (a *BaseAnalysis) StoreACResult(freq float64, solution map[string]complex128) {
	a.results[KeyFrequency] = append(a.results[KeyFrequency], freq)

	for name, value := range solution {
		// Magnitude
		magName := name + "_MAG"
		a.results[magName] = append(a.results[magName], cmplx.Abs(value))

		// Phase - degree
		phaseName := name + "_PHASE"
		phase := cmplx.Phase(value) * 180.0 / math.Pi
		a.results[phaseName] = append(a.results[phaseName], phase)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}
