package analysis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/edp1096/toy-rlc/pkg/circuit"
	"github.com/edp1096/toy-rlc/pkg/device"
)

// ACAnalysis sweeps the small-signal response of the series network.
// numPoints is the total number of frequencies, spaced per pointsType.
type ACAnalysis struct {
	BaseAnalysis
	startFreq   float64
	stopFreq    float64
	numPoints   int
	pointsType  string // "DEC", "OCT", "LIN"
	frequencies []float64
}

var _ Analysis = (*ACAnalysis)(nil)

func NewAC(fStart, fStop float64, nPoints int, pType string) *ACAnalysis {
	return &ACAnalysis{
		BaseAnalysis: *NewBaseAnalysis(),
		startFreq:    fStart,
		stopFreq:     fStop,
		numPoints:    nPoints,
		pointsType:   strings.ToUpper(pType),
	}
}

func (ac *ACAnalysis) Setup(ckt *circuit.Circuit) error {
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	if !device.IsPositive(ac.startFreq) || !device.IsPositive(ac.stopFreq) || ac.stopFreq < ac.startFreq {
		return fmt.Errorf("ac sweep %g..%g Hz: frequencies must be positive and ordered: %w", ac.startFreq, ac.stopFreq, device.ErrInvalidParameter)
	}
	if ac.numPoints < 1 {
		return fmt.Errorf("ac sweep: %d points: %w", ac.numPoints, device.ErrInvalidParameter)
	}
	switch ac.pointsType {
	case "DEC", "OCT", "LIN":
	default:
		return fmt.Errorf("invalid sweep type: %s: %w", ac.pointsType, device.ErrInvalidParameter)
	}

	ac.Circuit = ckt

	if err := ckt.AssignNodeBranchMaps(); err != nil {
		return fmt.Errorf("node mapping error: %w", err)
	}
	if err := ckt.CreateMatrix(); err != nil {
		return fmt.Errorf("matrix setup error: %w", err)
	}

	ac.generateFrequencyPoints()

	return nil
}

func (ac *ACAnalysis) Execute() error {
	if ac.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}

	for _, freq := range ac.frequencies {
		ac.Circuit.Status = &device.CircuitStatus{
			Frequency: freq,
			Mode:      device.ACAnalysis,
		}

		mat := ac.Circuit.GetMatrix()
		mat.Clear()
		err := ac.Circuit.Stamp(ac.Circuit.Status)
		if err != nil {
			return fmt.Errorf("stamping error at f=%g: %w", freq, err)
		}

		err = mat.Solve()
		if err != nil {
			return fmt.Errorf("matrix solve error at f=%g: %w", freq, err)
		}

		solution := make(map[string]complex128)

		// Node voltage
		for name, nodeIdx := range ac.Circuit.GetNodeMap() {
			solution[fmt.Sprintf("V(%s)", name)] = mat.Solution(nodeIdx)
		}

		// Branch current, positive when the source delivers power
		for name, bIdx := range ac.Circuit.GetBranchMap() {
			solution[fmt.Sprintf("I(%s)", name)] = -mat.Solution(bIdx)
		}

		ac.StoreACResult(freq, solution)
	}

	return nil
}

func (ac *ACAnalysis) Frequencies() []float64 {
	return ac.frequencies
}

func (ac *ACAnalysis) generateFrequencyPoints() {
	ac.frequencies = make([]float64, ac.numPoints)
	if ac.numPoints == 1 {
		ac.frequencies[0] = ac.startFreq
		return
	}

	switch ac.pointsType {
	case "DEC", "OCT": // Logarithmic, the base does not change the spacing
		floats.LogSpan(ac.frequencies, ac.startFreq, ac.stopFreq)
	case "LIN": // Linear
		floats.Span(ac.frequencies, ac.startFreq, ac.stopFreq)
	}
}
