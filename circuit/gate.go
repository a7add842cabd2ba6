package circuit

import (
	"slices"

	"github.com/pkg/errors"

	"qlcu/linalg"
)

// Kind names an elementary single-target gate.
type Kind string

// Supported gate kinds.
const (
	I   Kind = "I"
	X   Kind = "X"
	Y   Kind = "Y"
	Z   Kind = "Z"
	H   Kind = "H"
	S   Kind = "S"
	SDG Kind = "SDG"
	T   Kind = "T"
	TDG Kind = "TDG"
	RX  Kind = "RX"
	RY  Kind = "RY"
	RZ  Kind = "RZ"
	P   Kind = "P"
)

// KindInfo describes a gate kind for display.
type KindInfo struct {
	Kind   Kind
	Name   string
	Symbol string
	Params int
}

// GateKinds is the catalogue of supported gates in display order.
var GateKinds = []KindInfo{
	{Kind: I, Name: "Identity", Symbol: "I"},
	{Kind: X, Name: "Pauli-X (NOT)", Symbol: "X"},
	{Kind: Y, Name: "Pauli-Y", Symbol: "Y"},
	{Kind: Z, Name: "Pauli-Z", Symbol: "Z"},
	{Kind: H, Name: "Hadamard", Symbol: "H"},
	{Kind: S, Name: "Phase (S)", Symbol: "S"},
	{Kind: SDG, Name: "Phase Dagger (S†)", Symbol: "S†"},
	{Kind: T, Name: "T Gate", Symbol: "T"},
	{Kind: TDG, Name: "T Dagger (T†)", Symbol: "T†"},
	{Kind: RX, Name: "Rotate X", Symbol: "RX", Params: 1},
	{Kind: RY, Name: "Rotate Y", Symbol: "RY", Params: 1},
	{Kind: RZ, Name: "Rotate Z", Symbol: "RZ", Params: 1},
	{Kind: P, Name: "Phase Shift", Symbol: "P", Params: 1},
}

// Info returns the catalogue entry for k.
func (k Kind) Info() (KindInfo, bool) {
	for _, info := range GateKinds {
		if info.Kind == k {
			return info, true
		}
	}
	return KindInfo{}, false
}

// Gate is a single-target unitary, applied when every control is |1⟩.
type Gate struct {
	Kind     Kind
	Target   Qubit
	Controls []Qubit
	Params   []float64
}

// NewGate returns an unparameterized gate.
func NewGate(kind Kind, target Qubit, controls ...Qubit) Gate {
	return Gate{Kind: kind, Target: target, Controls: controls}
}

// NewRotation returns a gate with a single angle parameter.
func NewRotation(kind Kind, theta float64, target Qubit, controls ...Qubit) Gate {
	return Gate{Kind: kind, Target: target, Controls: controls, Params: []float64{theta}}
}

// Validate checks the kind, parameter count and that the target is not a control.
func (g Gate) Validate() error {
	info, ok := g.Kind.Info()
	if !ok {
		return errors.Wrapf(ErrInvalidGate, "unknown kind %q", g.Kind)
	}
	if len(g.Params) != info.Params {
		return errors.Wrapf(ErrInvalidGate, "%s takes %d params, got %d", g.Kind, info.Params, len(g.Params))
	}
	seen := map[Qubit]bool{g.Target: true}
	for _, c := range g.Controls {
		if seen[c] {
			return errors.Wrapf(ErrDuplicateQubit, "%s on %s: qubit %s used twice", g.Kind, g.Target, c)
		}
		seen[c] = true
	}
	return nil
}

// Qubits returns the controls followed by the target.
func (g Gate) Qubits() []Qubit {
	return append(slices.Clone(g.Controls), g.Target)
}

// References reports whether the gate touches q.
func (g Gate) References(q Qubit) bool {
	return g.Target == q || slices.Contains(g.Controls, q)
}

// Clone returns a deep copy of g.
func (g Gate) Clone() Gate {
	return Gate{
		Kind:     g.Kind,
		Target:   g.Target,
		Controls: slices.Clone(g.Controls),
		Params:   slices.Clone(g.Params),
	}
}

// WithControls returns a copy of g with extra controls prepended.
func (g Gate) WithControls(controls ...Qubit) Gate {
	out := g.Clone()
	out.Controls = append(slices.Clone(controls), g.Controls...)
	return out
}

// Dagger returns the adjoint gate.
func (g Gate) Dagger() Gate {
	out := g.Clone()
	switch g.Kind {
	case S:
		out.Kind = SDG
	case SDG:
		out.Kind = S
	case T:
		out.Kind = TDG
	case TDG:
		out.Kind = T
	case RX, RY, RZ, P:
		for i := range out.Params {
			out.Params[i] = -out.Params[i]
		}
	}
	return out
}

// Matrix returns the 2×2 matrix of the target operation.
func (g Gate) Matrix() linalg.Mat2 {
	theta := 0.0
	if len(g.Params) > 0 {
		theta = g.Params[0]
	}
	switch g.Kind {
	case X:
		return linalg.PauliX
	case Y:
		return linalg.PauliY
	case Z:
		return linalg.PauliZ
	case H:
		return linalg.Hadamard
	case S:
		return linalg.Phase(halfPi)
	case SDG:
		return linalg.Phase(-halfPi)
	case T:
		return linalg.Phase(quarterPi)
	case TDG:
		return linalg.Phase(-quarterPi)
	case RX:
		return linalg.RX(theta)
	case RY:
		return linalg.RY(theta)
	case RZ:
		return linalg.RZ(theta)
	case P:
		return linalg.Phase(theta)
	default:
		return linalg.Identity
	}
}

// mapQubits relabels every qubit of g through m.
func (g Gate) mapQubits(m QubitMap) (Gate, error) {
	out := g.Clone()
	t, ok := m.Lookup(g.Target)
	if !ok {
		return Gate{}, errors.Wrapf(ErrUnmappedQubit, "%s target %s", g.Kind, g.Target)
	}
	out.Target = t
	for i, c := range g.Controls {
		mc, ok := m.Lookup(c)
		if !ok {
			return Gate{}, errors.Wrapf(ErrUnmappedQubit, "%s control %s", g.Kind, c)
		}
		out.Controls[i] = mc
	}
	return out, nil
}
