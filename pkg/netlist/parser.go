package netlist

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/toy-rlc/internal/consts"
	"github.com/edp1096/toy-rlc/pkg/circuit"
	"github.com/edp1096/toy-rlc/pkg/device"
)

type NetlistData struct {
	Elements  []Element      // Circuit elements
	Nodes     map[string]int // Node name and index
	TranParam struct {
		TStep float64 // timestep
		TStop float64 // stop time
		Set   bool
	}
	ACParam struct {
		Sweep  string  // DEC, OCT, LIN
		Points int     // total points
		FStart float64 // start frequency
		FStop  float64 // stop frequency
		Set    bool
	}
	Temp struct {
		Kelvin float64
		Set    bool
	}
	Title string // Circuit title
}

type Element struct {
	Type   string             // Part type (R, L, C, V)
	Name   string             // Part name
	Nodes  []string           // Node names
	Value  float64            // Part value
	Params map[string]float64 // Source parameters
}

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"M":   1e-3,  // milli, as in SPICE
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)((?i:meg)|[TGMKkmunpf])?[a-zA-Z]*$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

func Parse(input string) (*NetlistData, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	netlistData := &NetlistData{
		Nodes: make(map[string]int),
	}

	// Title or comment
	if scanner.Scan() {
		netlistData.Title = strings.TrimPrefix(scanner.Text(), "*")
		netlistData.Title = strings.TrimSpace(netlistData.Title)
	}

	var currentLine string
	ended := false

	flush := func() error {
		if currentLine == "" {
			return nil
		}
		line := currentLine
		currentLine = ""
		if strings.EqualFold(line, ".end") {
			ended = true
			return nil
		}
		return parseLine(netlistData, line)
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Comment
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if len(line) == 0 {
			continue
		}

		// Continuation
		if strings.HasPrefix(line, "+") {
			if currentLine == "" {
				return nil, fmt.Errorf("continuation line without a preceding card: %s", line)
			}
			currentLine += " " + strings.TrimSpace(strings.TrimPrefix(line, "+"))
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		if ended {
			break
		}
		currentLine = line
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return netlistData, nil
}

func parseLine(netlistData *NetlistData, line string) error {
	line = spaceRe.ReplaceAllString(line, " ")

	if strings.HasPrefix(line, ".") {
		return parseDotOperator(netlistData, line)
	}

	element, err := parseElement(line)
	if err != nil {
		return err
	}

	netlistData.Elements = append(netlistData.Elements, *element)
	for _, node := range element.Nodes {
		if _, exists := netlistData.Nodes[node]; !exists {
			netlistData.Nodes[node] = len(netlistData.Nodes)
		}
	}
	return nil
}

// Parse .tran, .ac, .temp
func parseDotOperator(netlistData *NetlistData, line string) error {
	var err error

	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ".tran":
		if len(fields) < 3 {
			return fmt.Errorf("insufficient tran parameters, need tstep and tstop")
		}
		netlistData.TranParam.TStep, err = ParseValue(fields[1])
		if err != nil {
			return fmt.Errorf("invalid tstep: %w", err)
		}
		netlistData.TranParam.TStop, err = ParseValue(fields[2])
		if err != nil {
			return fmt.Errorf("invalid tstop: %w", err)
		}
		netlistData.TranParam.Set = true

	case ".ac":
		if len(fields) < 5 {
			return fmt.Errorf("insufficient AC parameters, need sweep type, points, fstart, and fstop")
		}

		// DEC, OCT, LIN
		netlistData.ACParam.Sweep = strings.ToUpper(fields[1])
		if netlistData.ACParam.Sweep != "DEC" && netlistData.ACParam.Sweep != "OCT" && netlistData.ACParam.Sweep != "LIN" {
			return fmt.Errorf("invalid sweep type: %s", netlistData.ACParam.Sweep)
		}

		netlistData.ACParam.Points, err = strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid points number: %w", err)
		}
		netlistData.ACParam.FStart, err = ParseValue(fields[3])
		if err != nil {
			return fmt.Errorf("invalid fstart: %w", err)
		}
		netlistData.ACParam.FStop, err = ParseValue(fields[4])
		if err != nil {
			return fmt.Errorf("invalid fstop: %w", err)
		}
		netlistData.ACParam.Set = true

	case ".temp":
		if len(fields) < 2 {
			return fmt.Errorf("missing temperature")
		}
		celsius, err := ParseValue(fields[1])
		if err != nil {
			return fmt.Errorf("invalid temperature: %w", err)
		}
		netlistData.Temp.Kelvin = celsius + consts.KELVIN
		netlistData.Temp.Set = true

	default:
		return fmt.Errorf("unsupported control card: %s", fields[0])
	}

	return nil
}

func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid element format: %s", line)
	}

	elem := &Element{
		Name:   fields[0],
		Type:   strings.ToUpper(string(fields[0][0])),
		Nodes:  fields[1:3],
		Params: make(map[string]float64),
	}

	switch elem.Type {
	case "V":
		return parseVoltageSource(elem, fields[3:])

	case "R", "L", "C":
		if len(fields) != 4 {
			return nil, fmt.Errorf("element %s: expected 'name n1 n2 value'", elem.Name)
		}
		value, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", elem.Name, err)
		}
		elem.Value = value
		return elem, nil

	default:
		return nil, fmt.Errorf("unsupported element type: %s", elem.Name)
	}
}

// parseVoltageSource reads TARGET(x y_start z_freq) followed by an optional AC mag [phase].
func parseVoltageSource(elem *Element, args []string) (*Element, error) {
	remaining := strings.Join(args, " ")
	remaining = strings.ReplaceAll(remaining, "(", " ( ") // Append whitespace around parentheses
	remaining = strings.ReplaceAll(remaining, ")", " ) ")
	words := strings.Fields(remaining)

	targetSet := false
	for i := 0; i < len(words); {
		switch strings.ToUpper(words[i]) {
		case "TARGET":
			end := i + 1
			for end < len(words) && words[end] != ")" {
				end++
			}
			if end == len(words) {
				return nil, fmt.Errorf("source %s: unterminated TARGET(...)", elem.Name)
			}
			values := strings.Fields(strings.Trim(strings.Join(words[i+1:end], " "), "() "))
			if len(values) != 3 {
				return nil, fmt.Errorf("source %s: TARGET needs x y_start z_freq, got %d values", elem.Name, len(values))
			}
			for j, key := range []string{"x", "y_start", "z_freq"} {
				v, err := ParseValue(values[j])
				if err != nil {
					return nil, fmt.Errorf("source %s: invalid %s: %w", elem.Name, key, err)
				}
				elem.Params[key] = v
			}
			elem.Value = elem.Params["x"]
			targetSet = true
			i = end + 1

		case "AC":
			if i+1 >= len(words) {
				return nil, fmt.Errorf("source %s: missing AC magnitude", elem.Name)
			}
			magnitude, err := ParseValue(words[i+1])
			if err != nil {
				return nil, fmt.Errorf("source %s: invalid AC magnitude: %w", elem.Name, err)
			}
			elem.Params["ac_mag"] = magnitude
			i += 2

			elem.Params["ac_phase"] = 0 // Default
			if i < len(words) {
				if phase, err := ParseValue(words[i]); err == nil {
					elem.Params["ac_phase"] = phase
					i++
				}
			}

		default:
			return nil, fmt.Errorf("source %s: unsupported source option: %s", elem.Name, words[i])
		}
	}

	if !targetSet {
		return nil, fmt.Errorf("source %s: missing TARGET(x y_start z_freq)", elem.Name)
	}
	return elem, nil
}

// ParseValue - Parse value and factor. 1k -> 1000, 10uF -> 1e-5
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor
	if factor := matches[2]; factor != "" {
		if strings.EqualFold(factor, "meg") {
			factor = "meg"
		}
		num *= unitMap[factor]
	}

	return num, nil
}

// BuildCircuit turns a parsed deck into the series network and its source.
// The deck must hold exactly one V, R, L and C connected as a single loop
// through ground.
func BuildCircuit(netlistData *NetlistData) (*circuit.Circuit, error) {
	byType := make(map[string]*Element)
	for i := range netlistData.Elements {
		elem := &netlistData.Elements[i]
		if prev, dup := byType[elem.Type]; dup {
			return nil, fmt.Errorf("duplicate %s element: %s and %s", elem.Type, prev.Name, elem.Name)
		}
		byType[elem.Type] = elem
	}
	for _, t := range []string{"V", "R", "L", "C"} {
		if byType[t] == nil {
			return nil, fmt.Errorf("missing %s element", t)
		}
	}
	if err := checkSeriesLoop(netlistData.Elements); err != nil {
		return nil, err
	}

	ckt, err := circuit.NewSeriesRLC(netlistData.Title, byType["R"].Value, byType["L"].Value, byType["C"].Value)
	if err != nil {
		return nil, err
	}

	// Keep the deck's node names and source polarity
	if err := ckt.Connect(canonicalNodes(byType["V"]), canonicalNodes(byType["R"]), canonicalNodes(byType["L"]), canonicalNodes(byType["C"])); err != nil {
		return nil, err
	}

	v := byType["V"]
	src := device.NewTargetVoltageSource(v.Name, nil, v.Params["x"], v.Params["y_start"], v.Params["z_freq"])
	src.SetAC(v.Params["ac_mag"], v.Params["ac_phase"])
	if err := ckt.AttachSource(src); err != nil {
		return nil, err
	}

	return ckt, nil
}

// checkSeriesLoop verifies that every node joins exactly two elements, that
// ground is used, and that all elements form one connected loop.
func checkSeriesLoop(elements []Element) error {
	degree := make(map[string]int)
	adjacent := make(map[string][]string)
	for _, elem := range elements {
		n1, n2 := canonicalNode(elem.Nodes[0]), canonicalNode(elem.Nodes[1])
		if n1 == n2 {
			return fmt.Errorf("element %s is shorted (%s-%s)", elem.Name, elem.Nodes[0], elem.Nodes[1])
		}
		degree[n1]++
		degree[n2]++
		adjacent[n1] = append(adjacent[n1], n2)
		adjacent[n2] = append(adjacent[n2], n1)
	}

	if _, ok := degree["0"]; !ok {
		return fmt.Errorf("no ground node (0)")
	}
	for node, d := range degree {
		if d != 2 {
			return fmt.Errorf("node %s joins %d elements, series loop needs 2", node, d)
		}
	}

	seen := map[string]bool{"0": true}
	stack := []string{"0"}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adjacent[node] {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	if len(seen) != len(degree) {
		return fmt.Errorf("elements do not form a single series loop")
	}
	return nil
}

func canonicalNodes(elem *Element) []string {
	return []string{canonicalNode(elem.Nodes[0]), canonicalNode(elem.Nodes[1])}
}

func canonicalNode(name string) string {
	if strings.EqualFold(name, "gnd") {
		return "0"
	}
	return name
}
