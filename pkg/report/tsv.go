package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/edp1096/toy-rlc/pkg/analysis"
)

// WriteTSV writes the trajectory as tab separated values with a header row.
func WriteTSV(w io.Writer, tr *analysis.Trajectory) error {
	if tr == nil {
		return fmt.Errorf("trajectory not set")
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(TrajectoryHeader); err != nil {
		return err
	}

	row := make([]string, len(TrajectoryHeader))
	for i := range tr.Len() {
		for j, v := range []float64{tr.Time[i], tr.TargetVoltage[i], tr.CircuitVoltage[i], tr.TotalCurrent[i], tr.Energy[i]} {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveToTSV writes the trajectory TSV to filename. An empty name is a no-op.
func SaveToTSV(filename string, tr *analysis.Trajectory) error {
	if filename == "" {
		return nil
	}

	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()

	if err := WriteTSV(fp, tr); err != nil {
		return err
	}
	return fp.Close()
}
