package qasm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qlcu/circuit"
)

// ErrSyntax is returned for lines Parse cannot read.
var ErrSyntax = errors.New("qasm: syntax error")

// Pre-compiled regexps for QASM parsing.
var (
	qubitRegex      = regexp.MustCompile(`^qubit\s*\[\s*(\d+)\s*\]\s+(\w+)\s*;$`)
	qregRegex       = regexp.MustCompile(`^qreg\s+(\w+)\s*\[\s*(\d+)\s*\]\s*;$`)
	gphaseRegex     = regexp.MustCompile(`^gphase\s*\(\s*([^)]*?)\s*\)\s*;$`)
	gateRegex       = regexp.MustCompile(`^((?:ctrl\s*(?:\(\s*\d+\s*\))?\s*@\s*)*)(\w+)\s*(?:\(\s*([^)]*?)\s*\))?\s+(.+?)\s*;$`)
	ctrlRegex       = regexp.MustCompile(`ctrl\s*(?:\(\s*(\d+)\s*\))?`)
	operandRegex    = regexp.MustCompile(`^(\w+)\s*\[\s*(\d+)\s*\]$`)
	circuitRegex    = regexp.MustCompile(`^//\s*circuit\s+(\S+)$`)
	postselectRegex = regexp.MustCompile(`^//\s*postselect\s+(\w+)\[(\d+)\]\s+([01])$`)
)

// parsedGate describes a QASM gate name: its kind and implicit controls.
type parsedGate struct {
	kind     circuit.Kind
	controls int
}

var gateKinds = map[string]parsedGate{
	"id":    {circuit.I, 0},
	"x":     {circuit.X, 0},
	"y":     {circuit.Y, 0},
	"z":     {circuit.Z, 0},
	"h":     {circuit.H, 0},
	"s":     {circuit.S, 0},
	"sdg":   {circuit.SDG, 0},
	"t":     {circuit.T, 0},
	"tdg":   {circuit.TDG, 0},
	"rx":    {circuit.RX, 0},
	"ry":    {circuit.RY, 0},
	"rz":    {circuit.RZ, 0},
	"p":     {circuit.P, 0},
	"phase": {circuit.P, 0},
	"u1":    {circuit.P, 0},
	"cx":    {circuit.X, 1},
	"cy":    {circuit.Y, 1},
	"cz":    {circuit.Z, 1},
	"ch":    {circuit.H, 1},
	"crx":   {circuit.RX, 1},
	"cry":   {circuit.RY, 1},
	"crz":   {circuit.RZ, 1},
	"cp":    {circuit.P, 1},
	"cu1":   {circuit.P, 1},
	"ccx":   {circuit.X, 2},
}

// Parse reads the OpenQASM subset produced by Write. OpenQASM 2 qreg
// declarations are accepted too.
func Parse(src string) (*circuit.Circuit, error) {
	c := circuit.New("qasm")

	for n, line := range strings.Split(src, "\n") {
		lineNo := n + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "//") {
			if err := parseComment(c, line); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}

		if matches := qubitRegex.FindStringSubmatch(line); matches != nil {
			size, _ := strconv.Atoi(matches[1])
			if _, err := c.AddRegister(matches[2], size); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			continue
		}
		if matches := qregRegex.FindStringSubmatch(line); matches != nil {
			size, _ := strconv.Atoi(matches[2])
			if _, err := c.AddRegister(matches[1], size); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			continue
		}
		if matches := gphaseRegex.FindStringSubmatch(line); matches != nil {
			phase, err := ParseParam(matches[1])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			c.AddPhase(phase)
			continue
		}
		if matches := gateRegex.FindStringSubmatch(line); matches != nil {
			g, err := parseGate(matches)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			if err := c.Add(g); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			continue
		}
		return nil, errors.Wrapf(ErrSyntax, "line %d: %q", lineNo, line)
	}
	return c, nil
}

func parseComment(c *circuit.Circuit, line string) error {
	if matches := circuitRegex.FindStringSubmatch(line); matches != nil {
		c.Name = matches[1]
		return nil
	}
	if matches := postselectRegex.FindStringSubmatch(line); matches != nil {
		index, _ := strconv.Atoi(matches[2])
		bit, _ := strconv.Atoi(matches[3])
		return c.SetPostselect(circuit.Qubit{Reg: matches[1], Index: index}, bit)
	}
	return nil
}

// parseGate builds a gate from gateRegex submatches: modifiers, name,
// params, operands.
func parseGate(matches []string) (circuit.Gate, error) {
	name := strings.ToLower(matches[2])
	pg, ok := gateKinds[name]
	if !ok {
		return circuit.Gate{}, errors.Wrapf(ErrSyntax, "unknown gate %q", name)
	}

	controls := pg.controls
	for _, m := range ctrlRegex.FindAllStringSubmatch(matches[1], -1) {
		if m[1] == "" {
			controls++
			continue
		}
		k, _ := strconv.Atoi(m[1])
		controls += k
	}

	var params []float64
	if strings.TrimSpace(matches[3]) != "" {
		for _, pStr := range strings.Split(matches[3], ",") {
			p, err := ParseParam(pStr)
			if err != nil {
				return circuit.Gate{}, err
			}
			params = append(params, p)
		}
	}

	var qubits []circuit.Qubit
	for _, op := range strings.Split(matches[4], ",") {
		m := operandRegex.FindStringSubmatch(strings.TrimSpace(op))
		if m == nil {
			return circuit.Gate{}, errors.Wrapf(ErrSyntax, "bad operand %q", op)
		}
		index, _ := strconv.Atoi(m[2])
		qubits = append(qubits, circuit.Qubit{Reg: m[1], Index: index})
	}
	if len(qubits) != controls+1 {
		return circuit.Gate{}, errors.Wrapf(ErrSyntax, "%s takes %d operands, got %d", name, controls+1, len(qubits))
	}

	g := circuit.Gate{
		Kind:   pg.kind,
		Target: qubits[controls],
		Params: params,
	}
	if controls > 0 {
		g.Controls = qubits[:controls]
	}
	return g, nil
}
