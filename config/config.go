// Package config reads operator sums and LCU build settings from YAML.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"qlcu/lcu"
	"qlcu/pauli"
)

var (
	ErrNoOperator   = errors.New("config: neither ising nor terms given")
	ErrTwoOperators = errors.New("config: both ising and terms given")
)

// Ising describes a transverse-field Ising chain.
type Ising struct {
	Sites int     `yaml:"sites"`
	H     float64 `yaml:"h"`
	J     float64 `yaml:"j"`
}

// Term is one weighted Pauli string, e.g. "X0 Z1".
type Term struct {
	Pauli string  `yaml:"pauli"`
	Re    float64 `yaml:"re"`
	Im    float64 `yaml:"im,omitempty"`
}

// File is the contents of an operator file.
type File struct {
	Name     string `yaml:"name"`
	Select   string `yaml:"select,omitempty"`
	Parallel bool   `yaml:"parallel,omitempty"`
	Ising    *Ising `yaml:"ising,omitempty"`
	Terms    []Term `yaml:"terms,omitempty"`
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return f, nil
}

// Parse decodes YAML and checks that exactly one operator form is present
// and the select method is known.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.UnmarshalStrict(data, f); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	switch {
	case f.Ising == nil && len(f.Terms) == 0:
		return nil, ErrNoOperator
	case f.Ising != nil && len(f.Terms) > 0:
		return nil, ErrTwoOperators
	}
	if _, err := lcu.ParseSelectMethod(f.Select); err != nil {
		return nil, err
	}
	return f, nil
}

// Save writes f to path as YAML.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return os.WriteFile(path, data, 0644)
}

// Sum builds the operator sum. Repeated Pauli strings are merged.
func (f *File) Sum() (*pauli.Sum, error) {
	if f.Ising != nil {
		return pauli.Ising(f.Ising.Sites, f.Ising.H, f.Ising.J)
	}
	b := pauli.NewBuilder()
	for i, t := range f.Terms {
		term, err := pauli.ParseTerm(t.Pauli)
		if err != nil {
			return nil, errors.Wrapf(err, "term %d", i)
		}
		b.Add(complex(t.Re, t.Im), term)
	}
	return b.Build()
}

// Options returns the LCU build options the file selects.
func (f *File) Options() ([]lcu.Option, error) {
	method, err := lcu.ParseSelectMethod(f.Select)
	if err != nil {
		return nil, err
	}
	return []lcu.Option{
		lcu.WithSelectMethod(method),
		lcu.WithParallel(f.Parallel),
	}, nil
}
