// Package qasm reads and writes register circuits as OpenQASM 3.
package qasm

import (
	"fmt"
	"strings"

	"qlcu/circuit"
)

// gateNames maps kinds to their OpenQASM names.
var gateNames = map[circuit.Kind]string{
	circuit.I:   "id",
	circuit.X:   "x",
	circuit.Y:   "y",
	circuit.Z:   "z",
	circuit.H:   "h",
	circuit.S:   "s",
	circuit.SDG: "sdg",
	circuit.T:   "t",
	circuit.TDG: "tdg",
	circuit.RX:  "rx",
	circuit.RY:  "ry",
	circuit.RZ:  "rz",
	circuit.P:   "p",
}

// singleControlled lists kinds with a c-prefixed standard gate.
var singleControlled = map[circuit.Kind]bool{
	circuit.X:  true,
	circuit.Y:  true,
	circuit.Z:  true,
	circuit.H:  true,
	circuit.RX: true,
	circuit.RY: true,
	circuit.RZ: true,
	circuit.P:  true,
}

// Write renders f as OpenQASM 3. One qubit declaration per register; gates
// with several controls use the ctrl modifier; the global phase becomes a
// trailing gphase. Postselection is kept as a comment.
func Write(f circuit.Fragment) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 3.0;\n")
	sb.WriteString("include \"stdgates.inc\";\n")
	if c, ok := f.(*circuit.Circuit); ok && c.Name != "" {
		fmt.Fprintf(&sb, "// circuit %s\n", c.Name)
	}
	sb.WriteString("\n")

	for _, r := range f.Registers() {
		fmt.Fprintf(&sb, "qubit[%d] %s;\n", r.Size, r.Name)
	}
	sb.WriteString("\n")

	for _, g := range f.Gates() {
		sb.WriteString(gateLine(g))
		sb.WriteString("\n")
	}

	if phase := f.GlobalPhase(); phase != 0 {
		fmt.Fprintf(&sb, "gphase(%s);\n", FormatParam(phase))
	}

	if ps, ok := f.(circuit.Postselector); ok {
		post := ps.Postselect()
		order := postselectOrder(f, post)
		for _, q := range order {
			fmt.Fprintf(&sb, "// postselect %s %d\n", q, post[q])
		}
	}
	return sb.String()
}

func gateLine(g circuit.Gate) string {
	var sb strings.Builder
	name := gateNames[g.Kind]
	switch n := len(g.Controls); {
	case n == 1 && singleControlled[g.Kind]:
		name = "c" + name
	case n == 1:
		sb.WriteString("ctrl @ ")
	case n > 1:
		fmt.Fprintf(&sb, "ctrl(%d) @ ", n)
	}
	sb.WriteString(name)
	if len(g.Params) > 0 {
		params := make([]string, len(g.Params))
		for i, p := range g.Params {
			params[i] = FormatParam(p)
		}
		fmt.Fprintf(&sb, "(%s)", strings.Join(params, ", "))
	}
	operands := make([]string, 0, len(g.Controls)+1)
	for _, q := range g.Qubits() {
		operands = append(operands, q.String())
	}
	fmt.Fprintf(&sb, " %s;", strings.Join(operands, ", "))
	return sb.String()
}

// postselectOrder sorts postselected qubits by register order.
func postselectOrder(f circuit.Fragment, post map[circuit.Qubit]int) []circuit.Qubit {
	var order []circuit.Qubit
	for _, r := range f.Registers() {
		for _, q := range r.Qubits() {
			if _, ok := post[q]; ok {
				order = append(order, q)
			}
		}
	}
	return order
}
