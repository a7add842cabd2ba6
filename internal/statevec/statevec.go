// Package statevec simulates register circuits on a dense state vector.
// Qubit p of the circuit's register order maps to bit N-1-p of the basis
// index, so the first qubit of the first register is the most significant.
package statevec

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"qlcu/circuit"
	"qlcu/linalg"
)

type Complex = complex128

// ErrDimension is returned when a state does not match the circuit width.
var ErrDimension = errors.New("statevec: dimension mismatch")

// StateVector is a dense n-qubit state.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// New returns |0…0⟩ on n qubits.
func New(numQubits int) *StateVector {
	return Basis(numQubits, 0)
}

// Basis returns the computational basis state |index⟩.
func Basis(numQubits, index int) *StateVector {
	amps := make([]Complex, 1<<numQubits)
	amps[index] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Clone returns a deep copy.
func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Layout maps circuit qubits to bit positions.
type Layout struct {
	bits map[circuit.Qubit]int
	n    int
}

// NewLayout builds the layout of a fragment's registers.
func NewLayout(f circuit.Fragment) Layout {
	n := f.NumQubits()
	bits := make(map[circuit.Qubit]int, n)
	p := 0
	for _, r := range f.Registers() {
		for _, q := range r.Qubits() {
			bits[q] = n - 1 - p
			p++
		}
	}
	return Layout{bits: bits, n: n}
}

// Bit returns the bit position of q in a basis index.
func (l Layout) Bit(q circuit.Qubit) (int, bool) {
	b, ok := l.bits[q]
	return b, ok
}

// NumQubits returns the layout width.
func (l Layout) NumQubits() int {
	return l.n
}

// ApplyGate applies one gate under the layout.
func (s *StateVector) ApplyGate(g circuit.Gate, l Layout) error {
	target, ok := l.Bit(g.Target)
	if !ok {
		return errors.Wrapf(circuit.ErrUnknownQubit, "%s", g.Target)
	}
	mask := 0
	for _, c := range g.Controls {
		b, ok := l.Bit(c)
		if !ok {
			return errors.Wrapf(circuit.ErrUnknownQubit, "%s", c)
		}
		mask |= 1 << b
	}
	switch g.Kind {
	case circuit.I:
	case circuit.X:
		s.applyX(target, mask)
	case circuit.Z:
		s.applyZ(target, mask)
	default:
		s.applyMatrix(g.Matrix(), target, mask)
	}
	return nil
}

func (s *StateVector) applyX(q, mask int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 && i&mask == mask {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyZ(q, mask int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit != 0 && i&mask == mask {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *StateVector) applyMatrix(m linalg.Mat2, q, mask int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 && i&mask == mask {
			j := i | bit
			a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m[0][0]*a0 + m[0][1]*a1
			s.Amplitudes[j] = m[1][0]*a0 + m[1][1]*a1
		}
	}
}

// Scale multiplies every amplitude by a.
func (s *StateVector) Scale(a Complex) {
	for i := range s.Amplitudes {
		s.Amplitudes[i] *= a
	}
}

// Simulate applies f, including its global phase, to a copy of init.
func Simulate(f circuit.Fragment, init *StateVector) (*StateVector, error) {
	l := NewLayout(f)
	if init.NumQubits != l.NumQubits() {
		return nil, errors.Wrapf(ErrDimension, "state has %d qubits, circuit %d", init.NumQubits, l.NumQubits())
	}
	state := init.Clone()
	for _, g := range f.Gates() {
		if err := state.ApplyGate(g, l); err != nil {
			return nil, err
		}
	}
	state.Scale(cmplx.Exp(complex(0, f.GlobalPhase())))
	return state, nil
}

// Run simulates f from |0…0⟩.
func Run(f circuit.Fragment) (*StateVector, error) {
	return Simulate(f, New(f.NumQubits()))
}

// Unitary returns the matrix of f, indexed [row][column].
func Unitary(f circuit.Fragment) ([][]Complex, error) {
	n := f.NumQubits()
	dim := 1 << n
	u := make([][]Complex, dim)
	for r := range u {
		u[r] = make([]Complex, dim)
	}
	for col := 0; col < dim; col++ {
		out, err := Simulate(f, Basis(n, col))
		if err != nil {
			return nil, err
		}
		for r := 0; r < dim; r++ {
			u[r][col] = out.Amplitudes[r]
		}
	}
	return u, nil
}

// Block returns the sub-matrix of u on the qubits not named in fixed, with
// every qubit in fixed held at its bit on input and output. Remaining qubits
// keep their relative order.
func Block(f circuit.Fragment, u [][]Complex, fixed map[circuit.Qubit]int) ([][]Complex, error) {
	l := NewLayout(f)
	var free []int
	base := 0
	for _, r := range f.Registers() {
		for _, q := range r.Qubits() {
			b, _ := l.Bit(q)
			if bit, ok := fixed[q]; ok {
				base |= bit << b
				continue
			}
			free = append(free, b)
		}
	}
	for q := range fixed {
		if _, ok := l.Bit(q); !ok {
			return nil, errors.Wrapf(circuit.ErrUnknownQubit, "%s", q)
		}
	}
	k := len(free)
	index := func(sub int) int {
		full := base
		for i, b := range free {
			if sub&(1<<(k-1-i)) != 0 {
				full |= 1 << b
			}
		}
		return full
	}
	dim := 1 << k
	out := make([][]Complex, dim)
	for r := 0; r < dim; r++ {
		out[r] = make([]Complex, dim)
		for c := 0; c < dim; c++ {
			out[r][c] = u[index(r)][index(c)]
		}
	}
	return out, nil
}

// Fidelity returns |⟨a|b⟩|.
func Fidelity(a, b []Complex) float64 {
	var dot Complex
	for i := range a {
		dot += cmplx.Conj(a[i]) * b[i]
	}
	return cmplx.Abs(dot)
}

// MaxDistance returns the largest entry-wise distance between two matrices.
func MaxDistance(a, b [][]Complex) float64 {
	worst := 0.0
	for r := range a {
		for c := range a[r] {
			worst = math.Max(worst, cmplx.Abs(a[r][c]-b[r][c]))
		}
	}
	return worst
}
