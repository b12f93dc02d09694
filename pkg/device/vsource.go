package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-rlc/pkg/matrix"
)

// VoltageSource drives the series network with the synthetic target waveform
//
//	y(t) = yStart*exp(-t)
//	z(t) = zFreq*t
//	v(t) = x*exp(-y)*cos(2πz) + 0.1*x*y + x²*sin(z)/(1+y)
//
// and, for AC analysis, with a small-signal phasor acMag∠acPhase.
type VoltageSource struct {
	BaseDevice
	// TARGET params
	amplitude float64 // x
	decay0    float64 // y_start
	rate      float64 // z_freq
	// AC params
	acMag   float64
	acPhase float64
	// Branch index for MNA
	branchIdx int
}

var _ Device = (*VoltageSource)(nil)

func NewTargetVoltageSource(name string, nodeNames []string, x, yStart, zFreq float64) *VoltageSource {
	return &VoltageSource{
		BaseDevice: BaseDevice{
			Name:      name,
			Nodes:     make([]int, len(nodeNames)),
			NodeNames: nodeNames,
			Value:     x,
		},
		amplitude: x,
		decay0:    yStart,
		rate:      zFreq,
	}
}

// TargetVoltage evaluates the forcing function at time t.
func TargetVoltage(x, yStart, zFreq, t float64) float64 {
	y := yStart * math.Exp(-t)
	z := zFreq * t
	return x*math.Exp(-y)*math.Cos(2*math.Pi*z) + 0.1*x*y + (x*x)*math.Sin(z)/(1+y)
}

// Validate rejects parameters that make the waveform undefined for t >= 0.
// 1+y(t) is bounded below by 1+yStart, so yStart must stay above -1.
func (v *VoltageSource) Validate() error {
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"x", v.amplitude},
		{"y_start", v.decay0},
		{"z_freq", v.rate},
		{"ac magnitude", v.acMag},
		{"ac phase", v.acPhase},
	} {
		if !IsFinite(p.value) {
			return fmt.Errorf("%s: %s must be finite, got %g: %w", v.Name, p.name, p.value, ErrInvalidParameter)
		}
	}
	if v.decay0 <= -1 {
		return fmt.Errorf("%s: y_start %g makes 1+y(t) vanish: %w", v.Name, v.decay0, ErrInvalidParameter)
	}
	return nil
}

func (v *VoltageSource) GetVoltage(t float64) float64 {
	return TargetVoltage(v.amplitude, v.decay0, v.rate, t)
}

// Decay returns y(t).
func (v *VoltageSource) Decay(t float64) float64 {
	return v.decay0 * math.Exp(-t)
}

// Params returns x, y_start and z_freq.
func (v *VoltageSource) Params() (x, yStart, zFreq float64) {
	return v.amplitude, v.decay0, v.rate
}

// SetAC sets the small-signal excitation used by AC analysis. Phase is in degrees.
func (v *VoltageSource) SetAC(mag, phase float64) {
	v.acMag = mag
	v.acPhase = phase
}

func (v *VoltageSource) ACMagnitude() float64 {
	return v.acMag
}

func (v *VoltageSource) GetType() string { return "V" }

func (v *VoltageSource) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if status.Mode != ACAnalysis {
		return fmt.Errorf("voltage source %s: only AC stamping is supported", v.Name)
	}

	n1, n2 := v.Nodes[0], v.Nodes[1]
	bIdx := v.branchIdx

	// Convert AC phase to rad
	phaseRad := v.acPhase * math.Pi / 180.0

	// Set complex voltage: magnitude * (cos(θ) + j*sin(θ))
	voltageReal := v.acMag * math.Cos(phaseRad)
	voltageImag := v.acMag * math.Sin(phaseRad)

	if n1 != 0 {
		matrix.AddComplexElement(bIdx, n1, 1.0, 0.0)
		matrix.AddComplexElement(n1, bIdx, 1.0, 0.0)
	}
	if n2 != 0 {
		matrix.AddComplexElement(bIdx, n2, -1.0, 0.0)
		matrix.AddComplexElement(n2, bIdx, -1.0, 0.0)
	}

	matrix.AddComplexRHS(bIdx, voltageReal, voltageImag)
	return nil
}

func (v *VoltageSource) BranchIndex() int {
	return v.branchIdx
}

func (v *VoltageSource) SetBranchIndex(idx int) {
	v.branchIdx = idx
}
