// Package lcu assembles linear-combination-of-unitaries circuits from a
// Pauli sum: Prepare on an index register, Select on the state register, and
// Prepare† to close the block encoding.
package lcu

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qlcu/stateprep"
)

// Register names used by every box in this package.
const (
	PrepareRegister    = "p"
	StateRegister      = "q"
	ReflectionRegister = "r"
	WorkRegister       = "w"
)

var (
	// ErrNotHermitian is returned by NewQubitise for sums with complex coefficients.
	ErrNotHermitian = errors.New("lcu: operator is not hermitian")
	// ErrUnknownSelect is returned for an unrecognized select method name.
	ErrUnknownSelect = errors.New("lcu: unknown select method")
	// ErrInvalidSize is returned for reflections on fewer than one qubit.
	ErrInvalidSize = errors.New("lcu: invalid register size")
	// ErrInvalidIterations is returned by NewAmplification for a negative
	// round count.
	ErrInvalidIterations = errors.New("lcu: invalid iteration count")
)

// SelectMethod chooses how Select is synthesized.
type SelectMethod int

const (
	// SelectMultiplexor builds one multiplexor per state qubit.
	SelectMultiplexor SelectMethod = iota
	// SelectIndexed builds one controlled box per term.
	SelectIndexed
	// SelectUnary walks the indices with a Toffoli chain on a work register.
	SelectUnary
)

func (m SelectMethod) String() string {
	switch m {
	case SelectIndexed:
		return "indexed"
	case SelectUnary:
		return "unary"
	default:
		return "multiplexor"
	}
}

// ParseSelectMethod maps "multiplexor", "indexed" and "unary" to a method.
// The empty string selects the default.
func ParseSelectMethod(s string) (SelectMethod, error) {
	switch s {
	case "", "multiplexor":
		return SelectMultiplexor, nil
	case "indexed":
		return SelectIndexed, nil
	case "unary":
		return SelectUnary, nil
	default:
		return 0, errors.Wrapf(ErrUnknownSelect, "%q", s)
	}
}

// Builder synthesizes LCU boxes. It is safe for concurrent use.
type Builder struct {
	logger   *zap.Logger
	encoder  *stateprep.Encoder
	method   SelectMethod
	parallel bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Nil discards output.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithSelectMethod chooses the Select synthesis.
func WithSelectMethod(m SelectMethod) Option {
	return func(b *Builder) {
		b.method = m
	}
}

// WithParallel synthesizes independent multiplexors concurrently.
func WithParallel(parallel bool) Option {
	return func(b *Builder) {
		b.parallel = parallel
	}
}

// WithEncoder sets the state-preparation encoder used by Prepare.
func WithEncoder(e *stateprep.Encoder) Option {
	return func(b *Builder) {
		b.encoder = e
	}
}

// NewBuilder returns a Builder.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.encoder == nil {
		e, err := stateprep.NewEncoder(
			b.logger.Named("stateprep"),
			stateprep.WithParallel(b.parallel),
		)
		if err != nil {
			return nil, err
		}
		b.encoder = e
	}
	return b, nil
}
