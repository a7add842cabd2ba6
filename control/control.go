// Package control builds controlled versions of circuit fragments.
package control

import (
	"math"
	"strconv"

	"github.com/pkg/errors"

	"qlcu/circuit"
	"qlcu/linalg"
)

// DefaultRegister is the name of the control register unless overridden.
const DefaultRegister = "a"

// maxControls bounds k so that 2^k fits an int.
const maxControls = 62

var (
	// ErrInvalidControlIndex is returned when the index is outside [0, 2^k).
	ErrInvalidControlIndex = errors.New("control: invalid control index")
	// ErrInvalidControlSize is returned when k is below one or too large.
	ErrInvalidControlSize = errors.New("control: invalid control size")
)

type options struct {
	index    int
	hasIndex bool
	register string
}

// Option configures Control.
type Option func(*options)

// WithIndex activates the fragment on control bit pattern index instead of
// all ones. The first control qubit holds the most significant bit.
func WithIndex(index int) Option {
	return func(o *options) {
		o.index = index
		o.hasIndex = true
	}
}

// WithRegisterName names the control register. A name already used by the
// fragment is an error.
func WithRegisterName(name string) Option {
	return func(o *options) {
		o.register = name
	}
}

// Control returns a fragment applying f iff a new k-qubit control register
// holds the chosen index. The control register is appended after f's
// registers and is named DefaultRegister, or "a1", "a2", … when f already
// uses that name. f is not modified.
func Control(f circuit.Fragment, k int, opts ...Option) (*circuit.Circuit, error) {
	if k < 1 || k > maxControls {
		return nil, errors.Wrapf(ErrInvalidControlSize, "%d", k)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	index := 1<<k - 1
	if o.hasIndex {
		index = o.index
	}
	if index < 0 || index >= 1<<k {
		return nil, errors.Wrapf(ErrInvalidControlIndex, "%d with %d controls", index, k)
	}

	if o.register == "" {
		o.register = freshName(f.Registers())
	}

	out := circuit.New("qcontrol")
	for _, r := range f.Registers() {
		if _, err := out.AddRegister(r.Name, r.Size); err != nil {
			return nil, err
		}
	}
	ctrl, err := out.AddRegister(o.register, k)
	if err != nil {
		return nil, errors.Wrap(err, "control register")
	}
	controls := ctrl.Qubits()

	var flips []circuit.Gate
	for j, q := range controls {
		if index&(1<<(k-1-j)) == 0 {
			flips = append(flips, circuit.NewGate(circuit.X, q))
		}
	}

	gates := append([]circuit.Gate(nil), flips...)
	for _, g := range f.Gates() {
		gates = append(gates, g.WithControls(controls...))
	}
	if phase := f.GlobalPhase(); math.Abs(remainder(phase)) > linalg.Tolerance {
		gates = append(gates, circuit.NewRotation(circuit.P, phase, controls[k-1], controls[:k-1]...))
	}
	gates = append(gates, flips...)

	if err := out.Add(gates...); err != nil {
		return nil, err
	}
	return out, nil
}

// freshName returns DefaultRegister, or DefaultRegister followed by the
// smallest positive number, whichever regs does not use yet.
func freshName(regs []circuit.Register) string {
	used := make(map[string]bool, len(regs))
	for _, r := range regs {
		used[r.Name] = true
	}
	name := DefaultRegister
	for i := 1; used[name]; i++ {
		name = DefaultRegister + strconv.Itoa(i)
	}
	return name
}

// remainder folds theta into (-π, π].
func remainder(theta float64) float64 {
	return math.Remainder(theta, 2*math.Pi)
}
