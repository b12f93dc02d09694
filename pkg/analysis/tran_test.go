package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/edp1096/toy-rlc/pkg/circuit"
	"github.com/edp1096/toy-rlc/pkg/device"
)

func newTestCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()

	ckt, err := circuit.NewSeriesRLC("test", 100, 1e-3, 1e-6)
	if err != nil {
		t.Fatalf("NewSeriesRLC error: %v", err)
	}
	t.Cleanup(ckt.Destroy)
	return ckt
}

func TestTimePoints(t *testing.T) {
	tests := []struct {
		tStop, tStep float64
		want         int
	}{
		{1, 0.001, 1000},
		{1, 0.3, 4},
		{0.001, 0.001, 1},
		{0.5, 1, 1},
	}
	for _, tt := range tests {
		got, err := TimePoints(tt.tStop, tt.tStep)
		if err != nil {
			t.Errorf("TimePoints(%g, %g) error: %v", tt.tStop, tt.tStep, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TimePoints(%g, %g) = %d, want %d", tt.tStop, tt.tStep, got, tt.want)
		}
	}

	if _, err := TimePoints(1, 1e-9); !errors.Is(err, device.ErrInvalidParameter) {
		t.Errorf("oversized grid: got %v, want ErrInvalidParameter", err)
	}
}

func TestSimulateConcreteScenario(t *testing.T) {
	ckt := newTestCircuit(t)

	tr, err := Simulate(ckt, 1.0, 5.0, 1.0, 1.0, 0.001)
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}

	if tr.Len() != 1000 {
		t.Fatalf("got %d samples, want 1000", tr.Len())
	}
	for name, series := range tr.Results() {
		if len(series) != tr.Len() {
			t.Errorf("%s has %d samples, want %d", name, len(series), tr.Len())
		}
	}

	if tr.Time[0] != 0 || tr.TotalCurrent[0] != 0 || tr.Energy[0] != 0 {
		t.Errorf("step 0: time=%g current=%g energy=%g, want zeros", tr.Time[0], tr.TotalCurrent[0], tr.Energy[0])
	}
	if want := math.Exp(-5) + 0.5; math.Abs(tr.TargetVoltage[0]-want) > 1e-12 {
		t.Errorf("V(0) = %g, want %g", tr.TargetVoltage[0], want)
	}

	for i := range tr.Len() {
		if tr.Time[i] != float64(i)*0.001 {
			t.Fatalf("Time[%d] = %g, want %g", i, tr.Time[i], float64(i)*0.001)
		}
		if tr.CircuitVoltage[i] != tr.TargetVoltage[i] {
			t.Fatalf("circuit voltage differs from target at %d", i)
		}
		if tr.Energy[i] < 0 {
			t.Fatalf("negative energy %g at %d", tr.Energy[i], i)
		}
	}
	if last := tr.Time[tr.Len()-1]; last >= 1.0 {
		t.Errorf("last time %g must stay below t_end", last)
	}
	if !tr.IsFinite() {
		t.Error("trajectory must be finite")
	}

	if y := ckt.Source.Decay(tr.Time[tr.Len()-1]); y >= 5 || y <= 0 {
		t.Errorf("decay at last sample = %g, want in (0, 5)", y)
	}
}

func TestSimulateFirstSteps(t *testing.T) {
	const (
		r, l, c = 100.0, 1e-3, 1e-6
		dt      = 0.001
	)
	ckt := newTestCircuit(t)

	tr, err := Simulate(ckt, 1.0, 5.0, 1.0, 0.0025, dt)
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}
	if tr.Len() != 3 {
		t.Fatalf("got %d samples, want 3", tr.Len())
	}

	// Step 0 records the voltage only, so step 1 differences against 0.
	var prevV, prevIL float64
	for i := 1; i < 3; i++ {
		v := device.TargetVoltage(1.0, 5.0, 1.0, float64(i)*dt)
		iC := c * (v - prevV) / dt
		iL := prevIL + ((v-prevV)/l)*dt
		iR := v / r
		wantI := iC + iL + iR
		wantE := 0.5*c*(v*v) + 0.5*l*(iL*iL) + v*iR*dt

		if math.Abs(tr.TotalCurrent[i]-wantI) > 1e-15 {
			t.Errorf("I[%d] = %.17g, want %.17g", i, tr.TotalCurrent[i], wantI)
		}
		if math.Abs(tr.Energy[i]-wantE) > 1e-18 {
			t.Errorf("E[%d] = %.17g, want %.17g", i, tr.Energy[i], wantE)
		}
		prevV, prevIL = v, iL
	}
}

func TestSimulateDeterministic(t *testing.T) {
	a, err := Simulate(newTestCircuit(t), 1.0, 5.0, 1.0, 0.2, 0.001)
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}
	b, err := Simulate(newTestCircuit(t), 1.0, 5.0, 1.0, 0.2, 0.001)
	if err != nil {
		t.Fatalf("Simulate error: %v", err)
	}

	ra, rb := a.Results(), b.Results()
	for key, sa := range ra {
		sb := rb[key]
		for i := range sa {
			if math.Float64bits(sa[i]) != math.Float64bits(sb[i]) {
				t.Fatalf("%s[%d] differs between runs: %v vs %v", key, i, sa[i], sb[i])
			}
		}
	}
}

func TestSimulateRejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name                       string
		x, yStart, zFreq, tEnd, dt float64
	}{
		{"zero dt", 1, 5, 1, 1, 0},
		{"negative dt", 1, 5, 1, 1, -0.001},
		{"NaN dt", 1, 5, 1, 1, math.NaN()},
		{"zero t_end", 1, 5, 1, 0, 0.001},
		{"negative t_end", 1, 5, 1, -1, 0.001},
		{"infinite t_end", 1, 5, 1, math.Inf(1), 0.001},
		{"y_start at -1", 1, -1, 1, 1, 0.001},
		{"NaN amplitude", math.NaN(), 5, 1, 1, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Simulate(newTestCircuit(t), tt.x, tt.yStart, tt.zFreq, tt.tEnd, tt.dt)
			if tr != nil {
				t.Error("no trajectory expected for invalid input")
			}
			if !errors.Is(err, device.ErrInvalidParameter) {
				t.Fatalf("got %v, want ErrInvalidParameter", err)
			}
		})
	}

	if _, err := Simulate(nil, 1, 5, 1, 1, 0.001); err == nil {
		t.Error("nil circuit: expected error")
	}
}

func TestSimulateInvalidKeepsSource(t *testing.T) {
	ckt := newTestCircuit(t)
	src := device.NewTargetVoltageSource("VX", nil, 2, 1, 3)
	src.SetAC(1, 0)
	if err := ckt.AttachSource(src); err != nil {
		t.Fatalf("AttachSource error: %v", err)
	}

	for _, args := range [][5]float64{
		{1, 5, 1, 1, 0},
		{1, 5, 1, -1, 0.001},
		{1, -2, 1, 1, 0.001},
		{math.NaN(), 5, 1, 1, 0.001},
	} {
		if _, err := Simulate(ckt, args[0], args[1], args[2], args[3], args[4]); !errors.Is(err, device.ErrInvalidParameter) {
			t.Fatalf("Simulate%v: got %v, want ErrInvalidParameter", args, err)
		}
		if ckt.Source != src || ckt.Source.ACMagnitude() != 1 {
			t.Fatalf("Simulate%v replaced the attached source", args)
		}
	}
}

func TestTransientSetupNeedsSource(t *testing.T) {
	tran := NewTransient(1, 0.001)
	if err := tran.Setup(newTestCircuit(t)); !errors.Is(err, device.ErrInvalidParameter) {
		t.Errorf("got %v, want ErrInvalidParameter", err)
	}
	if err := tran.Execute(); err == nil {
		t.Error("Execute before Setup: expected error")
	}
	if tran.Trajectory() != nil {
		t.Error("no trajectory before Execute")
	}
}

func TestTransientResults(t *testing.T) {
	ckt := newTestCircuit(t)
	if err := ckt.AttachSource(device.NewTargetVoltageSource("V1", nil, 1, 5, 1)); err != nil {
		t.Fatalf("AttachSource error: %v", err)
	}

	var a Analysis = NewTransient(0.01, 0.001)
	if err := a.Setup(ckt); err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if err := a.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	results := a.GetResults()
	for _, key := range []string{KeyTime, KeyTargetVoltage, KeyCircuitVoltage, KeyTotalCurrent, KeyEnergy} {
		if len(results[key]) != 10 {
			t.Errorf("%s has %d samples, want 10", key, len(results[key]))
		}
	}
}
