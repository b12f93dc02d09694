package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/edp1096/toy-rlc/pkg/analysis"
)

// PNG file names written by SavePlots.
const (
	VoltagePlotFile = "voltage.png"
	CurrentPlotFile = "current.png"
	EnergyPlotFile  = "energy.png"
)

var (
	colorTarget  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorCircuit = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	colorCurrent = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	colorEnergy  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

type series struct {
	name  string
	ys    []float64
	color color.Color
	dash  bool
}

// SavePlots writes the voltage, current and energy plots of tr into dir.
func SavePlots(dir string, tr *analysis.Trajectory) error {
	if tr == nil || tr.Len() == 0 {
		return fmt.Errorf("plot data invalid")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	err := saveLinePlot(filepath.Join(dir, VoltagePlotFile), "Circuit Simulation", "Voltage (V)", tr.Time,
		series{"Target Output Voltage", tr.TargetVoltage, colorTarget, false},
		series{"Circuit Output Voltage", tr.CircuitVoltage, colorCircuit, true},
	)
	if err != nil {
		return err
	}
	err = saveLinePlot(filepath.Join(dir, CurrentPlotFile), "Circuit Simulation", "Current (A)", tr.Time,
		series{"Circuit Output Current", tr.TotalCurrent, colorCurrent, false},
	)
	if err != nil {
		return err
	}
	return saveLinePlot(filepath.Join(dir, EnergyPlotFile), "Circuit Energy Consumption", "Energy (J)", tr.Time,
		series{"Energy Consumed", tr.Energy, colorEnergy, false},
	)
}

func saveLinePlot(filename, title, ylabel string, xs []float64, lines ...series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for _, s := range lines {
		if len(s.ys) != len(xs) {
			return fmt.Errorf("plot %q: series %q has %d points, time has %d", title, s.name, len(s.ys), len(xs))
		}
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X = xs[i]
			pts[i].Y = s.ys[i]
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %q: %w", title, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = s.color
		if s.dash {
			line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		}
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	if err := p.Save(10*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
