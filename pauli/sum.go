package pauli

import (
	"math"
	"math/cmplx"
	"slices"

	"github.com/pkg/errors"

	"qlcu/linalg"
)

// WeightedTerm pairs a term with its coefficient.
type WeightedTerm struct {
	Coeff complex128
	Term  Term
}

// Sum is a validated operator sum with unique terms.
type Sum struct {
	terms []WeightedTerm
	n     int
}

// NewSum validates terms: at least one, finite coefficients not all zero,
// and no repeated Pauli string.
func NewSum(terms ...WeightedTerm) (*Sum, error) {
	if len(terms) == 0 {
		return nil, ErrEmptySum
	}
	n := 1
	for _, wt := range terms {
		n = max(n, wt.Term.MaxQubit()+1)
	}
	seen := make(map[string]bool, len(terms))
	out := make([]WeightedTerm, len(terms))
	for i, wt := range terms {
		key := wt.Term.String()
		if cmplx.IsNaN(wt.Coeff) || cmplx.IsInf(wt.Coeff) {
			return nil, errors.Wrapf(ErrCoefficient, "%s: %v", key, wt.Coeff)
		}
		if seen[key] {
			return nil, errors.Wrapf(ErrDuplicateTerm, "%s", key)
		}
		seen[key] = true
		out[i] = wt
	}
	s := &Sum{terms: out, n: n}
	if !(s.OneNorm() > 0) {
		return nil, ErrZeroNorm
	}
	slices.SortFunc(out, func(a, b WeightedTerm) int {
		return a.Term.Compare(b.Term)
	})
	return s, nil
}

// NumQubits returns the highest labelled qubit plus one, at least one.
func (s *Sum) NumQubits() int {
	return s.n
}

// Len returns the number of terms.
func (s *Sum) Len() int {
	return len(s.terms)
}

// Terms returns the terms in canonical order (see Term.Compare).
func (s *Sum) Terms() []WeightedTerm {
	return append([]WeightedTerm(nil), s.terms...)
}

// OneNorm returns Σ|c_t|.
func (s *Sum) OneNorm() float64 {
	norm := 0.0
	for _, wt := range s.terms {
		norm += cmplx.Abs(wt.Coeff)
	}
	return norm
}

// IsHermitian reports whether every coefficient is real.
func (s *Sum) IsHermitian() bool {
	for _, wt := range s.terms {
		if math.Abs(imag(wt.Coeff)) > linalg.Tolerance {
			return false
		}
	}
	return true
}

// Apply returns Σ c_t·P_t·state. The state may be wider than NumQubits;
// extra qubits are trailing and untouched.
func (s *Sum) Apply(state []complex128) ([]complex128, error) {
	dim := len(state)
	n := 0
	for 1<<n < dim {
		n++
	}
	if 1<<n != dim || n < s.n {
		return nil, errors.Wrapf(ErrDimension, "state length %d for %d qubits", dim, s.n)
	}
	out := make([]complex128, dim)
	for _, wt := range s.terms {
		for b, amp := range state {
			if amp == 0 {
				continue
			}
			phase, nb := wt.Term.Apply(b, n)
			out[nb] += wt.Coeff * phase * amp
		}
	}
	return out, nil
}

// Matrix returns the dense 2^n×2^n matrix of the sum, indexed [row][column].
func (s *Sum) Matrix() [][]complex128 {
	dim := 1 << s.n
	m := make([][]complex128, dim)
	for r := range m {
		m[r] = make([]complex128, dim)
	}
	for _, wt := range s.terms {
		for b := 0; b < dim; b++ {
			phase, nb := wt.Term.Apply(b, s.n)
			m[nb][b] += wt.Coeff * phase
		}
	}
	return m
}

// Builder accumulates terms, merging repeated Pauli strings by summing
// their coefficients.
type Builder struct {
	order []string
	terms map[string]WeightedTerm
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{terms: map[string]WeightedTerm{}}
}

// Add adds coeff·term.
func (b *Builder) Add(coeff complex128, term Term) *Builder {
	key := term.String()
	wt, ok := b.terms[key]
	if !ok {
		b.order = append(b.order, key)
		wt.Term = term
	}
	wt.Coeff += coeff
	b.terms[key] = wt
	return b
}

// Build returns the merged sum. Terms whose coefficients cancel are dropped.
func (b *Builder) Build() (*Sum, error) {
	var terms []WeightedTerm
	for _, key := range b.order {
		wt := b.terms[key]
		if cmplx.Abs(wt.Coeff) < linalg.Tolerance {
			continue
		}
		terms = append(terms, wt)
	}
	return NewSum(terms...)
}

// Ising returns j·Σ Z_i Z_{i+1} + h·Σ X_i on an open chain of n sites.
func Ising(n int, h, j float64) (*Sum, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrEmptySum, "ising chain of %d sites", n)
	}
	b := NewBuilder()
	for i := 0; i+1 < n; i++ {
		b.Add(complex(j, 0), NewTerm(map[int]Pauli{i: Z, i + 1: Z}))
	}
	for i := 0; i < n; i++ {
		b.Add(complex(h, 0), NewTerm(map[int]Pauli{i: X}))
	}
	return b.Build()
}
