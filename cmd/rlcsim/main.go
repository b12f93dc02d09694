package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/edp1096/toy-rlc/internal/consts"
	"github.com/edp1096/toy-rlc/pkg/analysis"
	"github.com/edp1096/toy-rlc/pkg/circuit"
	"github.com/edp1096/toy-rlc/pkg/netlist"
	"github.com/edp1096/toy-rlc/pkg/report"
	"github.com/edp1096/toy-rlc/pkg/util"
)

type config struct {
	resistance  float64
	inductance  float64
	capacitance float64
	x           float64
	yStart      float64
	zFreq       float64
	tEnd        float64
	dt          float64
	temperature float64
	bits        int

	printRows int
	pngDir    string
	htmlFile  string
	xlsxFile  string
	tsvFile   string
	acSweep   string
}

type acParam struct {
	sweep  string
	points int
	fStart float64
	fStop  float64
}

func parseFlags() *config {
	cfg := &config{}

	flag.Float64Var(&cfg.resistance, "r", 100, "resistance in ohms")
	flag.Float64Var(&cfg.inductance, "l", 1e-3, "inductance in henries")
	flag.Float64Var(&cfg.capacitance, "c", 1e-6, "capacitance in farads")
	flag.Float64Var(&cfg.x, "x", 1.0, "target waveform amplitude x")
	flag.Float64Var(&cfg.yStart, "ystart", 5.0, "target waveform initial decay y_start (> -1)")
	flag.Float64Var(&cfg.zFreq, "zfreq", 1.0, "target waveform rate z_freq")
	flag.Float64Var(&cfg.tEnd, "tend", 1.0, "simulation end time in seconds")
	flag.Float64Var(&cfg.dt, "dt", analysis.DefaultTimeStep, "time step in seconds")
	flag.Float64Var(&cfg.temperature, "temp", consts.ROOMTEMP, "temperature in kelvin for the Landauer limit")
	flag.IntVar(&cfg.bits, "bits", 1, "number of erased bits for the Landauer limit")
	flag.IntVar(&cfg.printRows, "print", 10, "transient table rows to print (0 disables)")
	flag.StringVar(&cfg.pngDir, "png", "", "directory for PNG plots")
	flag.StringVar(&cfg.htmlFile, "html", "", "HTML chart page file")
	flag.StringVar(&cfg.xlsxFile, "xlsx", "", "XLSX workbook file")
	flag.StringVar(&cfg.tsvFile, "tsv", "", "TSV trajectory file")
	flag.StringVar(&cfg.acSweep, "ac", "", `AC sweep "TYPE points fstart fstop", e.g. "DEC 10 10 100k"`)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: rlcsim [flags] [netlist_file]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	return cfg
}

func parseSweep(sweep string) (*acParam, error) {
	fields := strings.Fields(sweep)
	if len(fields) != 4 {
		return nil, fmt.Errorf("ac sweep needs TYPE points fstart fstop, got %q", sweep)
	}

	var err error
	param := &acParam{sweep: strings.ToUpper(fields[0])}
	if param.points, err = strconv.Atoi(fields[1]); err != nil {
		return nil, fmt.Errorf("invalid points number: %v", err)
	}
	if param.fStart, err = netlist.ParseValue(fields[2]); err != nil {
		return nil, fmt.Errorf("invalid fstart: %v", err)
	}
	if param.fStop, err = netlist.ParseValue(fields[3]); err != nil {
		return nil, fmt.Errorf("invalid fstop: %v", err)
	}
	return param, nil
}

// loadNetlist builds the circuit from a deck. Control cards fill in any
// setting not given explicitly on the command line.
func loadNetlist(cfg *config, filename string) (*circuit.Circuit, *acParam, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading netlist file: %v", err)
	}

	data, err := netlist.Parse(string(content))
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing netlist: %v", err)
	}

	ckt, err := netlist.BuildCircuit(data)
	if err != nil {
		return nil, nil, fmt.Errorf("error building circuit: %w", err)
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if data.TranParam.Set {
		if !explicit["dt"] {
			cfg.dt = data.TranParam.TStep
		}
		if !explicit["tend"] {
			cfg.tEnd = data.TranParam.TStop
		}
	}
	if data.Temp.Set && !explicit["temp"] {
		cfg.temperature = data.Temp.Kelvin
	}

	var ac *acParam
	if data.ACParam.Set {
		ac = &acParam{
			sweep:  data.ACParam.Sweep,
			points: data.ACParam.Points,
			fStart: data.ACParam.FStart,
			fStop:  data.ACParam.FStop,
		}
	}
	return ckt, ac, nil
}

func runTransient(cfg *config, ckt *circuit.Circuit) (*analysis.Trajectory, error) {
	if ckt.Source == nil {
		return analysis.Simulate(ckt, cfg.x, cfg.yStart, cfg.zFreq, cfg.tEnd, cfg.dt)
	}

	tran := analysis.NewTransient(cfg.tEnd, cfg.dt)
	if err := tran.Setup(ckt); err != nil {
		return nil, err
	}
	if err := tran.Execute(); err != nil {
		return nil, err
	}
	return tran.Trajectory(), nil
}

func runAC(ckt *circuit.Circuit, param *acParam) (map[string][]float64, error) {
	if ckt.Source.ACMagnitude() == 0 {
		ckt.Source.SetAC(1, 0)
	}

	ac := analysis.NewAC(param.fStart, param.fStop, param.points, param.sweep)
	if err := ac.Setup(ckt); err != nil {
		return nil, fmt.Errorf("analysis setup failed: %w", err)
	}
	if err := ac.Execute(); err != nil {
		return nil, fmt.Errorf("analysis execution failed: %w", err)
	}
	return ac.GetResults(), nil
}

func printSummary(sum analysis.Summary) {
	fmt.Printf("Total Energy Output: %g\n", sum.EnergyOut)
	fmt.Printf("Total Energy Input: %g\n", sum.EnergyIn)
	fmt.Printf("Energy Efficiency: %.4f\n", sum.Efficiency)
	fmt.Printf("Landauer's Limit (at %gK): %.2e Joules/bit\n", sum.Temperature, sum.LandauerLimit)
}

func printTransient(tr *analysis.Trajectory, rows int) {
	if rows <= 0 || tr.Len() == 0 {
		return
	}

	fmt.Printf("\nTransient Analysis Results (%d time points):\n", tr.Len())
	fmt.Println("Time         V(target)    I(total)     E(total)")
	fmt.Println("------------------------------------------------")

	stride := report.Stride(tr.Len(), rows)
	for i := 0; i < tr.Len(); i += stride {
		fmt.Printf("%-12s %-12s %-12s %s\n",
			util.FormatValueFactor(tr.Time[i], "s"),
			util.FormatValueFactor(tr.TargetVoltage[i], "V"),
			util.FormatValueFactor(tr.TotalCurrent[i], "A"),
			util.FormatValueFactor(tr.Energy[i], "J"))
	}
}

func printAC(results map[string][]float64) {
	freqs := results[analysis.KeyFrequency]
	fmt.Printf("\nAC Analysis Results (%d frequency points):\n", len(freqs))
	fmt.Println("Frequency      Node Voltages (Magnitude/Phase)        Branch Currents (Magnitude/Phase)")
	fmt.Println("-----------------------------------------------------------------------------")

	var voltageNames, currentNames []string
	for name := range results {
		if !strings.HasSuffix(name, "_MAG") {
			continue
		}
		baseName := strings.TrimSuffix(name, "_MAG")
		if strings.HasPrefix(baseName, "V(") {
			voltageNames = append(voltageNames, baseName)
		} else if strings.HasPrefix(baseName, "I(") {
			currentNames = append(currentNames, baseName)
		}
	}
	sort.Strings(voltageNames)
	sort.Strings(currentNames)
	names := append(voltageNames, currentNames...)

	for i, freq := range freqs {
		fmt.Printf("%-13s", util.FormatFrequency(freq))
		for _, name := range names {
			mag, phase := results[name+"_MAG"], results[name+"_PHASE"]
			fmt.Printf("%s  ", util.FormatMagnitudePhase(name, mag[i], phase[i]))
		}
		fmt.Println()
	}
}

func writeReports(cfg *config, sum analysis.Summary, tr *analysis.Trajectory, acResults map[string][]float64) error {
	if cfg.pngDir != "" {
		if err := report.SavePlots(cfg.pngDir, tr); err != nil {
			return fmt.Errorf("plot saving failed: %v", err)
		}
		log.Printf("Plots written to %s", cfg.pngDir)
	}
	if cfg.htmlFile != "" {
		if err := report.SaveCharts(cfg.htmlFile, tr); err != nil {
			return fmt.Errorf("chart saving failed: %v", err)
		}
		log.Printf("Charts written to %s", cfg.htmlFile)
	}
	if cfg.xlsxFile != "" {
		if err := report.SaveToXLSX(cfg.xlsxFile, sum, tr, acResults); err != nil {
			return fmt.Errorf("workbook saving failed: %v", err)
		}
		log.Printf("Workbook written to %s", cfg.xlsxFile)
	}
	if cfg.tsvFile != "" {
		if err := report.SaveToTSV(cfg.tsvFile, tr); err != nil {
			return fmt.Errorf("tsv saving failed: %v", err)
		}
		log.Printf("TSV written to %s", cfg.tsvFile)
	}
	return nil
}

// run builds the circuit from args (a netlist file or none), runs the
// analyses and writes the requested reports.
func run(cfg *config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expected at most one netlist file, got %d arguments", len(args))
	}

	var (
		ckt *circuit.Circuit
		ac  *acParam
		err error
	)
	if len(args) == 1 {
		ckt, ac, err = loadNetlist(cfg, args[0])
	} else {
		ckt, err = circuit.NewSeriesRLC("series RLC", cfg.resistance, cfg.inductance, cfg.capacitance)
	}
	if err != nil {
		return fmt.Errorf("circuit setup failed: %w", err)
	}
	defer ckt.Destroy()

	if cfg.acSweep != "" {
		if ac, err = parseSweep(cfg.acSweep); err != nil {
			return fmt.Errorf("invalid -ac: %w", err)
		}
	}

	tr, err := runTransient(cfg, ckt)
	if err != nil {
		return fmt.Errorf("transient analysis failed: %w", err)
	}
	if !tr.IsFinite() {
		log.Printf("Warning: trajectory contains non-finite values")
	}

	sum := analysis.Summarize(tr, cfg.temperature, cfg.bits)
	printSummary(sum)
	printTransient(tr, cfg.printRows)

	var acResults map[string][]float64
	if ac != nil {
		if acResults, err = runAC(ckt, ac); err != nil {
			return fmt.Errorf("AC analysis failed: %w", err)
		}
		printAC(acResults)
	}

	return writeReports(cfg, sum, tr, acResults)
}

func main() {
	cfg := parseFlags()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cfg, flag.Args()); err != nil {
		log.Fatal(err)
	}
}
