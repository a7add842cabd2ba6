package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qlcu/lcu"
	"qlcu/pauli"
)

const termsYAML = `
name: two-qubit
select: indexed
parallel: true
terms:
  - pauli: "Z0 Z1"
    re: 1.0
  - pauli: "X0"
    re: 0.5
    im: -0.5
  - pauli: "X0"
    re: 0.25
`

func TestParseTerms(t *testing.T) {
	f, err := Parse([]byte(termsYAML))
	require.NoError(t, err)
	assert.Equal(t, "two-qubit", f.Name)
	assert.True(t, f.Parallel)
	require.Len(t, f.Terms, 3)

	sum, err := f.Sum()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Len())
	assert.Equal(t, 2, sum.NumQubits())
	for _, wt := range sum.Terms() {
		if wt.Term.String() == "X0" {
			assert.Equal(t, complex(0.75, -0.5), wt.Coeff)
		}
	}
}

func TestParseIsing(t *testing.T) {
	f, err := Parse([]byte("name: chain\nising: {sites: 3, h: 0.5, j: 1}\n"))
	require.NoError(t, err)
	sum, err := f.Sum()
	require.NoError(t, err)
	want, err := pauli.Ising(3, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, want.Terms(), sum.Terms())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"no operator", "name: empty\n", ErrNoOperator},
		{"both operators", "ising: {sites: 2}\nterms: [{pauli: X0, re: 1}]\n", ErrTwoOperators},
		{"unknown select", "select: qrom\nterms: [{pauli: X0, re: 1}]\n", lcu.ErrUnknownSelect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := Parse([]byte("nmae: typo\nterms: [{pauli: X0, re: 1}]\n"))
	assert.Error(t, err)
}

func TestSumErrors(t *testing.T) {
	f := &File{Terms: []Term{{Pauli: "Q0", Re: 1}}}
	_, err := f.Sum()
	assert.True(t, errors.Is(err, pauli.ErrSyntax))

	f = &File{Terms: []Term{{Pauli: "X0", Re: 1}, {Pauli: "X0", Re: -1}}}
	_, err = f.Sum()
	assert.True(t, errors.Is(err, pauli.ErrEmptySum))
}

func TestOptionsBuildLCU(t *testing.T) {
	f, err := Parse([]byte(termsYAML))
	require.NoError(t, err)
	sum, err := f.Sum()
	require.NoError(t, err)
	opts, err := f.Options()
	require.NoError(t, err)

	l, err := lcu.New(sum, opts...)
	require.NoError(t, err)
	assert.Equal(t, lcu.SelectIndexed, l.SelectBox().Method())
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "op.yaml")
	orig := &File{Name: "saved", Ising: &Ising{Sites: 2, H: 1, J: 0.5}}
	require.NoError(t, Save(path, orig))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig, f)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
