package analysis

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-rlc/pkg/circuit"
	"github.com/edp1096/toy-rlc/pkg/device"
)

const (
	DefaultTimeStep = 0.001

	// MaxTimePoints caps ceil(tStop/tStep) so a bad step cannot exhaust memory.
	MaxTimePoints = 50_000_000
)

// Transient runs a fixed-step forward pass over t = 0, dt, 2dt, ... < tStop.
type Transient struct {
	BaseAnalysis
	stopTime   float64
	timeStep   float64
	points     int
	trajectory *Trajectory
}

var _ Analysis = (*Transient)(nil)

func NewTransient(tStop, tStep float64) *Transient {
	return &Transient{
		BaseAnalysis: *NewBaseAnalysis(),
		stopTime:     tStop,
		timeStep:     tStep,
	}
}

// TimePoints returns ceil(tStop/tStep), the length of the time grid.
func TimePoints(tStop, tStep float64) (int, error) {
	if !device.IsPositive(tStep) {
		return 0, fmt.Errorf("time step %g must be positive and finite: %w", tStep, device.ErrInvalidParameter)
	}
	if !device.IsPositive(tStop) {
		return 0, fmt.Errorf("stop time %g must be positive and finite: %w", tStop, device.ErrInvalidParameter)
	}

	n := math.Ceil(tStop / tStep)
	if n > MaxTimePoints {
		return 0, fmt.Errorf("%g time points exceed limit %d: %w", n, MaxTimePoints, device.ErrInvalidParameter)
	}
	return int(n), nil
}

func (tr *Transient) Setup(ckt *circuit.Circuit) error {
	if ckt == nil {
		return fmt.Errorf("circuit not set")
	}
	if ckt.Source == nil {
		return fmt.Errorf("circuit %s: no source attached: %w", ckt.Name(), device.ErrInvalidParameter)
	}
	if err := ckt.Source.Validate(); err != nil {
		return err
	}

	points, err := TimePoints(tr.stopTime, tr.timeStep)
	if err != nil {
		return err
	}

	tr.Circuit = ckt
	tr.points = points
	tr.Circuit.Status = &device.CircuitStatus{
		TimeStep: tr.timeStep,
		Mode:     device.TransientAnalysis,
	}
	return nil
}

func (tr *Transient) Execute() error {
	if tr.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}

	ckt := tr.Circuit
	dt := tr.timeStep
	traj := newTrajectory(tr.points)

	var prevVoltage, prevInductorCurrent float64

	for i := range tr.points {
		t := float64(i) * dt
		traj.Time[i] = t

		target := ckt.Source.GetVoltage(t)
		traj.TargetVoltage[i] = target
		traj.CircuitVoltage[i] = target

		// Nothing to difference against on the first sample; current and energy stay 0.
		if i == 0 {
			continue
		}

		voltageChange := target - prevVoltage
		capacitorCurrent := ckt.Capacitor.Current(target, prevVoltage, dt)
		inductorCurrent := ckt.Inductor.Current(prevInductorCurrent, voltageChange, dt)
		resistorCurrent := ckt.Resistor.Current(target)

		traj.TotalCurrent[i] = capacitorCurrent + inductorCurrent + resistorCurrent

		capEnergy := ckt.Capacitor.Energy(target)
		inductorEnergy := ckt.Inductor.Energy(inductorCurrent)
		resistorEnergy := target * resistorCurrent * dt
		traj.Energy[i] = capEnergy + inductorEnergy + resistorEnergy

		prevInductorCurrent = inductorCurrent
		prevVoltage = target
	}

	tr.trajectory = traj
	tr.results = traj.Results()
	return nil
}

// Trajectory returns the result of the last Execute, or nil before it.
func (tr *Transient) Trajectory() *Trajectory {
	return tr.trajectory
}

// Simulate drives ckt with the target waveform (x, yStart, zFreq) from 0 up to
// tEnd in steps of dt. The circuit's source is replaced by a fresh V1.
// Invalid parameters are reported before any sample is produced.
func Simulate(ckt *circuit.Circuit, x, yStart, zFreq, tEnd, dt float64) (*Trajectory, error) {
	if ckt == nil {
		return nil, fmt.Errorf("circuit not set")
	}

	// Reject bad input before the circuit's current source is replaced.
	if _, err := TimePoints(tEnd, dt); err != nil {
		return nil, err
	}
	src := device.NewTargetVoltageSource("V1", nil, x, yStart, zFreq)
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := ckt.AttachSource(src); err != nil {
		return nil, err
	}

	tran := NewTransient(tEnd, dt)
	if err := tran.Setup(ckt); err != nil {
		return nil, err
	}
	if err := tran.Execute(); err != nil {
		return nil, err
	}
	return tran.Trajectory(), nil
}
