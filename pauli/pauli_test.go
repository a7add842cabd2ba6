package pauli

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTerm(t *testing.T, s string) Term {
	t.Helper()
	term, err := ParseTerm(s)
	require.NoError(t, err)
	return term
}

func TestParseTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
		max  int
	}{
		{"X0 Z1", "X0 Z1", 1},
		{"Z1 X0", "X0 Z1", 1},
		{"Y3", "Y3", 3},
		{"", "I", -1},
		{"I", "I", -1},
		{"I0 X2", "X2", 2},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			term := mustTerm(t, tt.in)
			assert.Equal(t, tt.want, term.String())
			assert.Equal(t, tt.max, term.MaxQubit())
		})
	}
}

func TestParseTermErrors(t *testing.T) {
	for _, in := range []string{"Q0", "X", "X-1", "Xa", "X0 Z0"} {
		_, err := ParseTerm(in)
		assert.True(t, errors.Is(err, ErrSyntax), "%q: %v", in, err)
	}
}

func TestCompare(t *testing.T) {
	// Qubit 0 is the most significant position.
	tests := []struct {
		a, b string
		want int
	}{
		{"X0 Z1", "X0 Z1", 0},
		{"", "Z5", -1},
		{"Z1", "X0", -1},
		{"X0", "X0 Z1", -1},
		{"Y0", "X0 Z1", 1},
		{"X0 Y3", "X0 Z2", -1},
		{"Z40", "Y0", -1},
		{"X0 Z40", "X0 Y40", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, b := mustTerm(t, tt.a), mustTerm(t, tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a))
		})
	}
}

func TestSumBeyond32Qubits(t *testing.T) {
	s, err := NewSum(
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "X0")},
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "Y0")},
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "Z40")},
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "X39 Z40")},
	)
	require.NoError(t, err)
	assert.Equal(t, 41, s.NumQubits())

	var got []string
	for _, wt := range s.Terms() {
		got = append(got, wt.Term.String())
	}
	assert.Equal(t, []string{"Z40", "X39 Z40", "X0", "Y0"}, got)

	_, err = NewSum(
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "Z40")},
		WeightedTerm{Coeff: 2, Term: mustTerm(t, "Z40")},
	)
	assert.True(t, errors.Is(err, ErrDuplicateTerm))
}

func TestNewSumValidates(t *testing.T) {
	_, err := NewSum()
	assert.True(t, errors.Is(err, ErrEmptySum))

	_, err = NewSum(
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "X0")},
		WeightedTerm{Coeff: 2, Term: mustTerm(t, "X0")},
	)
	assert.True(t, errors.Is(err, ErrDuplicateTerm))

	_, err = NewSum(
		WeightedTerm{Coeff: 0, Term: mustTerm(t, "X0")},
		WeightedTerm{Coeff: 0, Term: mustTerm(t, "Z0")},
	)
	assert.True(t, errors.Is(err, ErrZeroNorm))

	for _, c := range []complex128{complex(math.NaN(), 0), complex(0, math.Inf(-1))} {
		_, err = NewSum(
			WeightedTerm{Coeff: 1, Term: mustTerm(t, "X0")},
			WeightedTerm{Coeff: c, Term: mustTerm(t, "Z0")},
		)
		assert.True(t, errors.Is(err, ErrCoefficient), "%v: %v", c, err)
	}

	// A zero coefficient next to a nonzero one is kept.
	s, err := NewSum(
		WeightedTerm{Coeff: 0, Term: mustTerm(t, "X0")},
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "Z0")},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestTermsOrderIsDeterministic(t *testing.T) {
	a, err := NewSum(
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "Z0 Z1")},
		WeightedTerm{Coeff: 2, Term: mustTerm(t, "X1")},
		WeightedTerm{Coeff: 3, Term: mustTerm(t, "")},
		WeightedTerm{Coeff: 4, Term: mustTerm(t, "X0")},
	)
	require.NoError(t, err)
	b, err := NewSum(
		WeightedTerm{Coeff: 4, Term: mustTerm(t, "X0")},
		WeightedTerm{Coeff: 3, Term: mustTerm(t, "")},
		WeightedTerm{Coeff: 2, Term: mustTerm(t, "X1")},
		WeightedTerm{Coeff: 1, Term: mustTerm(t, "Z0 Z1")},
	)
	require.NoError(t, err)

	var got []string
	for _, wt := range a.Terms() {
		got = append(got, wt.Term.String())
	}
	assert.Equal(t, []string{"I", "X1", "X0", "Z0 Z1"}, got)
	assert.Equal(t, a.Terms(), a.Terms())
	assert.Equal(t, a.Terms(), b.Terms())
	assert.Equal(t, 2, a.NumQubits())
}

func TestBuilderMerges(t *testing.T) {
	s, err := NewBuilder().
		Add(1, mustTerm(t, "X0")).
		Add(0.5, mustTerm(t, "X0")).
		Add(2i, mustTerm(t, "Z1")).
		Add(1, mustTerm(t, "Y0")).
		Add(-1, mustTerm(t, "Y0")).
		Build()
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.InDelta(t, 3.5, s.OneNorm(), 1e-12)
	assert.False(t, s.IsHermitian())
}

func TestIsing(t *testing.T) {
	s, err := Ising(3, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 3, s.NumQubits())
	assert.True(t, s.IsHermitian())
	assert.InDelta(t, 3.5, s.OneNorm(), 1e-12)

	_, err = Ising(0, 1, 1)
	assert.Error(t, err)
}

func TestApplyMatchesMatrix(t *testing.T) {
	s, err := NewBuilder().
		Add(0.3, mustTerm(t, "X0 Y1")).
		Add(-0.7, mustTerm(t, "Z0")).
		Add(0.2i, mustTerm(t, "Y0 Z1")).
		Build()
	require.NoError(t, err)

	m := s.Matrix()
	for col := 0; col < 4; col++ {
		state := make([]complex128, 4)
		state[col] = 1
		out, err := s.Apply(state)
		require.NoError(t, err)
		for row := 0; row < 4; row++ {
			assert.InDelta(t, 0, cmplx.Abs(out[row]-m[row][col]), 1e-12)
		}
	}

	_, err = s.Apply(make([]complex128, 3))
	assert.True(t, errors.Is(err, ErrDimension))
}

func TestPauliAction(t *testing.T) {
	// Y|0⟩ = i|1⟩ on one qubit.
	phase, b := mustTerm(t, "Y0").Apply(0, 1)
	assert.Equal(t, complex(0, 1), phase)
	assert.Equal(t, 1, b)

	// Z0 on |10⟩ flips the sign.
	phase, b = mustTerm(t, "Z0").Apply(0b10, 2)
	assert.Equal(t, complex(-1, 0), phase)
	assert.Equal(t, 0b10, b)
}
