package analysis

import (
	"math"
	"testing"
)

func TestEnergyInOut(t *testing.T) {
	tr := &Trajectory{
		Time:          []float64{0, 0.5, 1.0},
		TargetVoltage: []float64{1, 2, 3},
		Energy:        []float64{0, 0.25, 0.5},
	}

	if got := EnergyIn(tr); math.Abs(got-3) > 1e-12 {
		t.Errorf("EnergyIn = %g, want 3", got)
	}
	if got := EnergyOut(tr); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("EnergyOut = %g, want 0.75", got)
	}
	if got := EnergyEfficiency(tr); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("EnergyEfficiency = %g, want 0.25", got)
	}
}

func TestEnergyEfficiencyFallback(t *testing.T) {
	tests := []struct {
		name string
		tr   *Trajectory
	}{
		{
			name: "negative energy in",
			tr: &Trajectory{
				Time:          []float64{0, 1},
				TargetVoltage: []float64{-1, -1},
				Energy:        []float64{1, 1},
			},
		},
		{
			name: "single sample",
			tr: &Trajectory{
				Time:          []float64{0},
				TargetVoltage: []float64{5},
				Energy:        []float64{0},
			},
		},
		{
			name: "empty",
			tr:   &Trajectory{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnergyEfficiency(tt.tr); got != 0 {
				t.Errorf("EnergyEfficiency = %g, want 0", got)
			}
			if got := Summarize(tt.tr, 300, 1).Efficiency; got != 0 {
				t.Errorf("Summarize efficiency = %g, want 0", got)
			}
		})
	}
}

func TestEfficiency(t *testing.T) {
	tests := []struct {
		in, out, want float64
	}{
		{4, 1, 0.25},
		{0, 1, 0},
		{-2, 1, 0},
		{math.NaN(), 1, 0},
	}
	for _, tt := range tests {
		if got := efficiency(tt.in, tt.out); got != tt.want {
			t.Errorf("efficiency(%g, %g) = %g, want %g", tt.in, tt.out, got, tt.want)
		}
	}
}

func TestEnergyEfficiencySingleStepRun(t *testing.T) {
	tr, err := Simulate(newTestCircuit(t), 1.0, 5.0, 1.0, 0.001, 0.001)
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}
	if tr.Len() != 1 {
		t.Fatalf("got %d samples, want 1", tr.Len())
	}
	if got := EnergyEfficiency(tr); got != 0 {
		t.Errorf("EnergyEfficiency = %g, want 0", got)
	}
}

func TestLandauerLimit(t *testing.T) {
	got := LandauerLimit(300, 1)
	if want := 1.38e-23 * 300 * math.Ln2; math.Abs(got-want) > 1e-35 {
		t.Errorf("LandauerLimit(300, 1) = %g, want %g", got, want)
	}
	if math.Abs(got-2.87e-21) > 0.01e-21 {
		t.Errorf("LandauerLimit(300, 1) = %g, want about 2.87e-21", got)
	}
	if got8 := LandauerLimit(300, 8); math.Abs(got8-8*got) > 1e-33 {
		t.Errorf("LandauerLimit(300, 8) = %g, want %g", got8, 8*got)
	}
	if LandauerLimit(0, 1) != 0 {
		t.Error("LandauerLimit at 0 K must be 0")
	}
}

func TestSummarize(t *testing.T) {
	tr, err := Simulate(newTestCircuit(t), 1.0, 5.0, 1.0, 1.0, 0.001)
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}

	sum := Summarize(tr, 300, 1)
	if sum.EnergyIn != EnergyIn(tr) || sum.EnergyOut != EnergyOut(tr) {
		t.Errorf("summary energies %g/%g differ from direct computation", sum.EnergyIn, sum.EnergyOut)
	}
	if sum.Efficiency != EnergyEfficiency(tr) {
		t.Errorf("Efficiency = %g, want %g", sum.Efficiency, EnergyEfficiency(tr))
	}
	if sum.EnergyIn <= 0 || sum.EnergyOut <= 0 {
		t.Errorf("energies must be positive for the nominal run: in=%g out=%g", sum.EnergyIn, sum.EnergyOut)
	}
	if sum.LandauerLimit != LandauerLimit(300, 1) || sum.Bits != 1 || sum.Temperature != 300 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestMeanStep(t *testing.T) {
	if got := meanStep([]float64{0, 0.1, 0.2, 0.3}); math.Abs(got-0.1) > 1e-15 {
		t.Errorf("meanStep = %g, want 0.1", got)
	}
	if got := meanStep([]float64{1}); got != 0 {
		t.Errorf("meanStep of one sample = %g, want 0", got)
	}
}
