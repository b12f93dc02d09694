package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/edp1096/toy-rlc/pkg/analysis"
)

// MaxChartPoints bounds the samples per series embedded in the HTML page.
const MaxChartPoints = 5000

// RenderCharts writes an HTML page with the voltage, current and energy charts.
func RenderCharts(w io.Writer, tr *analysis.Trajectory) error {
	if tr == nil || tr.Len() == 0 {
		return fmt.Errorf("chart data invalid")
	}

	stride := Stride(tr.Len(), MaxChartPoints)
	xAxis := make([]string, 0, tr.Len()/stride+1)
	for i := 0; i < tr.Len(); i += stride {
		xAxis = append(xAxis, fmt.Sprintf("%.4g", tr.Time[i]))
	}

	lineV := newLineChart("Voltage", "Target vs circuit voltage over time", "V")
	lineV.SetXAxis(xAxis).
		AddSeries("Target Voltage", lineData(tr.TargetVoltage, stride), noSymbol).
		AddSeries("Circuit Voltage", lineData(tr.CircuitVoltage, stride), noSymbol)

	lineA := newLineChart("Current", "Total current through the network", "A")
	lineA.SetXAxis(xAxis).
		AddSeries("Total Current", lineData(tr.TotalCurrent, stride), noSymbol)

	lineE := newLineChart("Energy", "Energy consumed per step", "J")
	lineE.SetXAxis(xAxis).
		AddSeries("Energy Consumed", lineData(tr.Energy, stride), noSymbol)

	page := components.NewPage()
	page.SetPageTitle("Series RLC transient")
	page.AddCharts(lineV, lineA, lineE)

	return page.Render(w)
}

// SaveCharts renders the chart page into filename.
func SaveCharts(filename string, tr *analysis.Trajectory) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create html: %w", err)
	}
	defer f.Close()

	if err := RenderCharts(f, tr); err != nil {
		return err
	}
	return f.Close()
}

func newLineChart(title, subtitle, unit string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "s",
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  unit,
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	return line
}

var noSymbol = charts.WithLineChartOpts(opts.LineChart{
	ShowSymbol: opts.Bool(false),
})

func lineData(ys []float64, stride int) []opts.LineData {
	items := make([]opts.LineData, 0, len(ys)/stride+1)
	for i := 0; i < len(ys); i += stride {
		items = append(items, opts.LineData{Value: ys[i]})
	}
	return items
}

// Stride returns the sampling step that keeps at most limit of n points.
func Stride(n, limit int) int {
	if limit <= 0 || n <= limit {
		return 1
	}
	return (n + limit - 1) / limit
}
