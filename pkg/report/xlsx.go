package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/edp1096/toy-rlc/pkg/analysis"
)

// Sheet names written by SaveToXLSX.
const (
	SheetSummary    = "Summary"
	SheetTrajectory = "Trajectory"
	SheetAC         = "AC"
)

// TrajectoryHeader is the column order of the trajectory sheet and TSV.
var TrajectoryHeader = []string{"Time (s)", "Target Voltage (V)", "Circuit Voltage (V)", "Total Current (A)", "Energy (J)"}

// SaveToXLSX writes the summary, the full trajectory and, when ac is not
// empty, the AC sweep results into a workbook.
func SaveToXLSX(filename string, sum analysis.Summary, tr *analysis.Trajectory, ac map[string][]float64) error {
	if tr == nil {
		return fmt.Errorf("trajectory not set")
	}

	f := excelize.NewFile()
	defer f.Close()

	// Summary
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	summaryRows := [][]interface{}{
		{"Quantity", "Value", "Unit"},
		{"Total Energy Output", sum.EnergyOut, "J"},
		{"Total Energy Input", sum.EnergyIn, "J"},
		{"Energy Efficiency", sum.Efficiency, ""},
		{"Temperature", sum.Temperature, "K"},
		{"Bits", sum.Bits, ""},
		{"Landauer's Limit", sum.LandauerLimit, "J/bit"},
		{"Samples", tr.Len(), ""},
	}
	for i, row := range summaryRows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(SheetSummary, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 22); err != nil {
		return err
	}

	// Trajectory
	if _, err := f.NewSheet(SheetTrajectory); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetTrajectory)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", stringsToRow(TrajectoryHeader)); err != nil {
		return err
	}
	for i := range tr.Len() {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{tr.Time[i], tr.TargetVoltage[i], tr.CircuitVoltage[i], tr.TotalCurrent[i], tr.Energy[i]}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("trajectory row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	// AC
	if len(ac[analysis.KeyFrequency]) > 0 {
		if err := writeACSheet(f, ac); err != nil {
			return err
		}
	}

	return f.SaveAs(filename)
}

func writeACSheet(f *excelize.File, ac map[string][]float64) error {
	if _, err := f.NewSheet(SheetAC); err != nil {
		return err
	}

	columns := ACColumns(ac)
	for col, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetAC, cell, name); err != nil {
			return err
		}
		for row, v := range ac[name] {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(SheetAC, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ACColumns orders AC result keys with the frequency first and the rest sorted.
func ACColumns(ac map[string][]float64) []string {
	columns := make([]string, 0, len(ac))
	for name := range ac {
		if name != analysis.KeyFrequency {
			columns = append(columns, name)
		}
	}
	sort.Strings(columns)
	return append([]string{analysis.KeyFrequency}, columns...)
}

func stringsToRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
