package circuit

import (
	"errors"
	"math"
	"math/cmplx"
	"strings"
	"testing"

	"github.com/edp1096/toy-rlc/pkg/device"
)

func TestNewSeriesRLC(t *testing.T) {
	ckt, err := NewSeriesRLC("rlc", 100, 1e-3, 1e-6)
	if err != nil {
		t.Fatalf("NewSeriesRLC error: %v", err)
	}
	if ckt.Name() != "rlc" {
		t.Errorf("Name = %q", ckt.Name())
	}
	if ckt.Source != nil {
		t.Error("source must be nil until attached")
	}
	if got := len(ckt.Devices()); got != 3 {
		t.Errorf("got %d devices before attaching a source, want 3", got)
	}
}

func TestNewSeriesRLCRejects(t *testing.T) {
	tests := []struct {
		name    string
		r, l, c float64
		bad     []string
	}{
		{"zero resistance", 0, 1e-3, 1e-6, []string{"R1"}},
		{"negative inductance", 100, -1e-3, 1e-6, []string{"L1"}},
		{"NaN capacitance", 100, 1e-3, math.NaN(), []string{"C1"}},
		{"all invalid", -1, 0, math.Inf(1), []string{"R1", "L1", "C1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ckt, err := NewSeriesRLC("rlc", tt.r, tt.l, tt.c)
			if ckt != nil {
				t.Error("circuit must be nil on error")
			}
			if !errors.Is(err, device.ErrInvalidParameter) {
				t.Fatalf("got %v, want ErrInvalidParameter", err)
			}
			for _, name := range tt.bad {
				if !strings.Contains(err.Error(), name) {
					t.Errorf("error %q does not name %s", err, name)
				}
			}
		})
	}
}

func TestAttachSource(t *testing.T) {
	ckt, err := NewSeriesRLC("rlc", 100, 1e-3, 1e-6)
	if err != nil {
		t.Fatalf("NewSeriesRLC error: %v", err)
	}

	if err := ckt.AttachSource(nil); !errors.Is(err, device.ErrInvalidParameter) {
		t.Errorf("nil source: got %v", err)
	}
	bad := device.NewTargetVoltageSource("V1", nil, 1, -1, 1)
	if err := ckt.AttachSource(bad); !errors.Is(err, device.ErrInvalidParameter) {
		t.Errorf("y_start=-1: got %v", err)
	}
	if ckt.Source != nil {
		t.Error("rejected source must not be attached")
	}

	src := device.NewTargetVoltageSource("V1", []string{"a", "b"}, 1, 5, 1)
	if err := ckt.AttachSource(src); err != nil {
		t.Fatalf("AttachSource error: %v", err)
	}
	if got := ckt.Devices()[0]; got != src {
		t.Errorf("source must come first, got %s", got.GetName())
	}
	if names := src.GetNodeNames(); names[0] != "1" || names[1] != "0" {
		t.Errorf("source nodes = %v, want [1 0]", names)
	}
}

func TestConnect(t *testing.T) {
	ckt, err := NewSeriesRLC("rlc", 100, 1e-3, 1e-6)
	if err != nil {
		t.Fatalf("NewSeriesRLC error: %v", err)
	}

	if err := ckt.Connect([]string{"0", "a"}, []string{"a", "a"}, []string{"c", "0"}, []string{"b", "c"}); !errors.Is(err, device.ErrInvalidParameter) {
		t.Errorf("shorted resistor: got %v, want ErrInvalidParameter", err)
	}
	if err := ckt.Connect([]string{"0", "a"}, []string{"a", "b"}, []string{"c"}, []string{"b", "c"}); !errors.Is(err, device.ErrInvalidParameter) {
		t.Errorf("one-node inductor: got %v, want ErrInvalidParameter", err)
	}

	if err := ckt.Connect([]string{"0", "a"}, []string{"a", "b"}, []string{"c", "0"}, []string{"b", "c"}); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	if err := ckt.AttachSource(device.NewTargetVoltageSource("V1", nil, 1, 5, 1)); err != nil {
		t.Fatalf("AttachSource error: %v", err)
	}
	if err := ckt.AssignNodeBranchMaps(); err != nil {
		t.Fatalf("AssignNodeBranchMaps error: %v", err)
	}

	nodes := ckt.GetNodeMap()
	if len(nodes) != 3 || nodes["a"] != 1 || nodes["b"] != 2 || nodes["c"] != 3 {
		t.Errorf("node map = %v", nodes)
	}
	if got := ckt.Source.GetNodes(); got[0] != 0 || got[1] != 1 {
		t.Errorf("source nodes = %v, want [0 1]", got)
	}
	if got := ckt.Inductor.GetNodes(); got[0] != 3 || got[1] != 0 {
		t.Errorf("inductor nodes = %v, want [3 0]", got)
	}
}

func TestAssignNodeBranchMaps(t *testing.T) {
	ckt, err := NewSeriesRLC("rlc", 100, 1e-3, 1e-6)
	if err != nil {
		t.Fatalf("NewSeriesRLC error: %v", err)
	}
	if err := ckt.AssignNodeBranchMaps(); err == nil {
		t.Error("expected error without a source")
	}

	if err := ckt.AttachSource(device.NewTargetVoltageSource("V1", nil, 1, 5, 1)); err != nil {
		t.Fatalf("AttachSource error: %v", err)
	}
	if err := ckt.AssignNodeBranchMaps(); err != nil {
		t.Fatalf("AssignNodeBranchMaps error: %v", err)
	}

	nodes := ckt.GetNodeMap()
	if len(nodes) != 3 || nodes["1"] != 1 || nodes["2"] != 2 || nodes["3"] != 3 {
		t.Errorf("node map = %v", nodes)
	}
	if got := ckt.GetBranchMap()["V1"]; got != 4 {
		t.Errorf("branch index = %d, want 4", got)
	}
	if got := ckt.Capacitor.GetNodes(); got[0] != 3 || got[1] != 0 {
		t.Errorf("capacitor nodes = %v, want [3 0]", got)
	}
}

func TestResonanceAndImpedance(t *testing.T) {
	ckt, err := NewSeriesRLC("rlc", 100, 1e-3, 1e-6)
	if err != nil {
		t.Fatalf("NewSeriesRLC error: %v", err)
	}

	f0 := ckt.ResonantFrequency()
	want := 1 / (2 * math.Pi * math.Sqrt(1e-9))
	if math.Abs(f0-want) > 1e-9*want {
		t.Errorf("ResonantFrequency = %g, want %g", f0, want)
	}

	z := ckt.Impedance(f0)
	if math.Abs(real(z)-100) > 1e-9 || math.Abs(imag(z)) > 1e-6 {
		t.Errorf("Impedance at resonance = %v, want 100", z)
	}
	if imag(ckt.Impedance(f0/10)) >= 0 {
		t.Error("network must be capacitive below resonance")
	}
	if imag(ckt.Impedance(f0*10)) <= 0 {
		t.Error("network must be inductive above resonance")
	}
	if cmplx.Abs(ckt.Impedance(f0*10)) <= 100 {
		t.Error("impedance must exceed R away from resonance")
	}
}
