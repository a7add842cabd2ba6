package stateprep

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qlcu/circuit"
	"qlcu/internal/metrics"
	"qlcu/multiplexor"
)

// DefaultRegister names the encoded register unless overridden.
const DefaultRegister = "q"

const defaultCacheSize = 256

// Encoder synthesizes state-preparation fragments and memoises them by
// exact amplitude bits. It is safe for concurrent use.
type Encoder struct {
	logger    *zap.Logger
	cache     *lru.Cache[string, *circuit.Circuit]
	cacheSize int
	parallel  bool
	register  string
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithCacheSize sets the number of memoised fragments. Zero disables the cache.
func WithCacheSize(size int) Option {
	return func(e *Encoder) {
		e.cacheSize = size
	}
}

// WithParallel synthesizes the per-qubit multiplexors concurrently.
func WithParallel(parallel bool) Option {
	return func(e *Encoder) {
		e.parallel = parallel
	}
}

// WithRegisterName names the encoded register.
func WithRegisterName(name string) Option {
	return func(e *Encoder) {
		e.register = name
	}
}

// NewEncoder returns an Encoder. A nil logger discards output.
func NewEncoder(logger *zap.Logger, opts ...Option) (*Encoder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Encoder{
		logger:    logger,
		cacheSize: defaultCacheSize,
		register:  DefaultRegister,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize > 0 {
		cache, err := lru.New[string, *circuit.Circuit](e.cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create LRU cache")
		}
		e.cache = cache
	}
	return e, nil
}

// Encode returns a fragment with one register of log2(len(a)) qubits that,
// applied to |0…0⟩ with its global phase, yields a exactly. a must have unit
// norm and a power-of-two length.
func (e *Encoder) Encode(a []complex128) (*circuit.Circuit, error) {
	return e.EncodeAs(e.register, a)
}

// EncodeAs is Encode with an explicit register name.
func (e *Encoder) EncodeAs(register string, a []complex128) (*circuit.Circuit, error) {
	n, err := validate(a)
	if err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil {
		key = cacheKey(register, a)
		if c, ok := e.cache.Get(key); ok {
			metrics.StateprepCacheTotal.WithLabelValues("hit").Inc()
			e.logger.Debug("stateprep cache hit", zap.Int("qubits", n))
			return c.Clone(), nil
		}
		metrics.StateprepCacheTotal.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	c, err := e.synthesize(register, n, a)
	if err != nil {
		return nil, err
	}
	metrics.ObserveFragment("stateprep", c, time.Since(start).Seconds())
	e.logger.Debug(
		"synthesized state preparation",
		zap.String("register", register),
		zap.Int("qubits", n),
		zap.Int("gates", c.NumGates()),
		zap.Float64("phase", c.GlobalPhase()),
	)

	if e.cache != nil {
		e.cache.Add(key, c.Clone())
	}
	return c, nil
}

func (e *Encoder) synthesize(register string, n int, a []complex128) (*circuit.Circuit, error) {
	c := circuit.New("stateprep")
	root := split(a)
	c.AddPhase(root.phase)
	if n == 0 {
		return c, nil
	}
	reg, err := c.AddRegister(register, n)
	if err != nil {
		return nil, err
	}
	qubits := reg.Qubits()

	gates := make([][]circuit.Gate, n)
	phases := make([]float64, n)
	level := func(l int) error {
		g, ph, err := multiplexor.Gates(root.levels[l], qubits[:l], qubits[l])
		if err != nil {
			return errors.Wrapf(err, "level %d", l)
		}
		gates[l], phases[l] = g, ph
		return nil
	}

	if e.parallel {
		eg := errgroup.Group{}
		for l := range n {
			eg.Go(func() error {
				return level(l)
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for l := range n {
			if err := level(l); err != nil {
				return nil, err
			}
		}
	}

	for l := range n {
		if err := c.Add(gates[l]...); err != nil {
			return nil, err
		}
		c.AddPhase(phases[l])
	}
	return c, nil
}

var defaultEncoder = sync.OnceValues(func() (*Encoder, error) {
	return NewEncoder(nil)
})

// Encode encodes a with a shared default Encoder.
func Encode(a []complex128) (*circuit.Circuit, error) {
	e, err := defaultEncoder()
	if err != nil {
		return nil, errors.Wrap(err, "default encoder")
	}
	return e.Encode(a)
}
