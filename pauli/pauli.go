// Package pauli models weighted sums of Pauli strings, the input to LCU
// synthesis.
package pauli

import (
	"cmp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qlcu/linalg"
)

var (
	// ErrEmptySum is returned for a sum without terms.
	ErrEmptySum = errors.New("pauli: empty sum")
	// ErrZeroNorm is returned for a sum whose coefficients are all zero.
	ErrZeroNorm = errors.New("pauli: all coefficients are zero")
	// ErrCoefficient is returned for a NaN or infinite coefficient.
	ErrCoefficient = errors.New("pauli: coefficient is not finite")
	// ErrDuplicateTerm is returned when two terms share a Pauli string.
	ErrDuplicateTerm = errors.New("pauli: duplicate term")
	// ErrSyntax is returned by ParseTerm.
	ErrSyntax = errors.New("pauli: invalid term")
	// ErrDimension is returned by Apply for a state of the wrong length.
	ErrDimension = errors.New("pauli: dimension mismatch")
)

// Pauli is a single-qubit Pauli label. The values are the 2-bit canonical
// encoding.
type Pauli uint8

// Pauli labels.
const (
	I Pauli = iota
	X
	Y
	Z
)

func (p Pauli) String() string {
	return [...]string{"I", "X", "Y", "Z"}[p&3]
}

// Matrix returns the 2×2 matrix of p.
func (p Pauli) Matrix() linalg.Mat2 {
	switch p {
	case X:
		return linalg.PauliX
	case Y:
		return linalg.PauliY
	case Z:
		return linalg.PauliZ
	default:
		return linalg.Identity
	}
}

// Factor is one non-identity label of a term.
type Factor struct {
	Qubit int
	Op    Pauli
}

// Term is a Pauli string: factors sorted by qubit, identities dropped.
type Term struct {
	factors []Factor
}

// NewTerm builds a term from qubit→label pairs. Identity labels are dropped.
func NewTerm(ops map[int]Pauli) Term {
	var fs []Factor
	for q, p := range ops {
		if p != I {
			fs = append(fs, Factor{Qubit: q, Op: p})
		}
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].Qubit < fs[j].Qubit })
	return Term{factors: fs}
}

// ParseTerm reads strings like "X0 Z1" or "Y2". "" and "I" are the identity.
func ParseTerm(s string) (Term, error) {
	ops := map[int]Pauli{}
	for _, tok := range strings.Fields(s) {
		if tok == "I" {
			continue
		}
		if len(tok) < 2 {
			return Term{}, errors.Wrapf(ErrSyntax, "%q", tok)
		}
		var p Pauli
		switch tok[0] {
		case 'I':
			p = I
		case 'X':
			p = X
		case 'Y':
			p = Y
		case 'Z':
			p = Z
		default:
			return Term{}, errors.Wrapf(ErrSyntax, "%q: unknown label", tok)
		}
		q, err := strconv.Atoi(tok[1:])
		if err != nil || q < 0 {
			return Term{}, errors.Wrapf(ErrSyntax, "%q: bad qubit index", tok)
		}
		if _, dup := ops[q]; dup {
			return Term{}, errors.Wrapf(ErrSyntax, "qubit %d labelled twice", q)
		}
		ops[q] = p
	}
	return NewTerm(ops), nil
}

// Factors returns the non-identity factors in qubit order.
func (t Term) Factors() []Factor {
	return append([]Factor(nil), t.factors...)
}

// Op returns the label on qubit q.
func (t Term) Op(q int) Pauli {
	for _, f := range t.factors {
		if f.Qubit == q {
			return f.Op
		}
	}
	return I
}

// MaxQubit returns the highest labelled qubit, or -1 for the identity.
func (t Term) MaxQubit() int {
	if len(t.factors) == 0 {
		return -1
	}
	return t.factors[len(t.factors)-1].Qubit
}

// String renders the term as "X0 Z1", or "I" for the identity.
func (t Term) String() string {
	if len(t.factors) == 0 {
		return "I"
	}
	parts := make([]string, len(t.factors))
	for i, f := range t.factors {
		parts[i] = f.Op.String() + strconv.Itoa(f.Qubit)
	}
	return strings.Join(parts, " ")
}

// Compare orders terms by their labels read from qubit 0 upward, with
// I < X < Y < Z. It matches the numeric order of the 2-bit-per-qubit
// encoding with qubit 0 most significant, for any number of qubits.
func (t Term) Compare(o Term) int {
	i, j := 0, 0
	for i < len(t.factors) || j < len(o.factors) {
		var a, b Factor
		switch {
		case j == len(o.factors) || (i < len(t.factors) && t.factors[i].Qubit < o.factors[j].Qubit):
			a, b = t.factors[i], Factor{Qubit: t.factors[i].Qubit, Op: I}
			i++
		case i == len(t.factors) || o.factors[j].Qubit < t.factors[i].Qubit:
			a, b = Factor{Qubit: o.factors[j].Qubit, Op: I}, o.factors[j]
			j++
		default:
			a, b = t.factors[i], o.factors[j]
			i++
			j++
		}
		if a.Op != b.Op {
			return cmp.Compare(a.Op, b.Op)
		}
	}
	return 0
}

// Apply returns P|b⟩ as (phase, b') for basis index b over n qubits, qubit 0
// most significant.
func (t Term) Apply(b, n int) (complex128, int) {
	phase := complex(1, 0)
	for _, f := range t.factors {
		bit := 1 << (n - 1 - f.Qubit)
		set := b&bit != 0
		switch f.Op {
		case X:
			b ^= bit
		case Y:
			if set {
				phase *= -1i
			} else {
				phase *= 1i
			}
			b ^= bit
		case Z:
			if set {
				phase = -phase
			}
		}
	}
	return phase, b
}
