package stateprep

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qlcu/internal/metrics"
	"qlcu/internal/statevec"
)

func randomState(rng *rand.Rand, n int, zeros int) []complex128 {
	a := make([]complex128, 1<<n)
	for i := range a {
		a[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	for i := 0; i < zeros && i < len(a)-1; i++ {
		a[rng.Intn(len(a))] = 0
	}
	if Norm(a) == 0 {
		a[0] = 1
	}
	out, _, _ := Normalize(a)
	return out
}

func requireEncodes(t *testing.T, e *Encoder, a []complex128) {
	t.Helper()
	c, err := e.Encode(a)
	require.NoError(t, err)
	s, err := statevec.Run(c)
	require.NoError(t, err)
	require.Len(t, s.Amplitudes, len(a))
	for i := range a {
		require.InDelta(t, 0, cmplx.Abs(s.Amplitudes[i]-a[i]), 1e-8, "amplitude %d: got %v want %v", i, s.Amplitudes[i], a[i])
	}
}

func newEncoder(t *testing.T, opts ...Option) *Encoder {
	t.Helper()
	e, err := NewEncoder(zap.NewNop(), opts...)
	require.NoError(t, err)
	return e
}

func TestEncodeHadamardState(t *testing.T) {
	h := complex(1/math.Sqrt2, 0)
	a := []complex128{h, h}
	e := newEncoder(t)
	requireEncodes(t, e, a)

	c, err := e.Encode(a)
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumQubits())
}

func TestEncodeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	e := newEncoder(t, WithCacheSize(0))
	for n := 1; n <= 4; n++ {
		for trial := 0; trial < 5; trial++ {
			requireEncodes(t, e, randomState(rng, n, 0))
		}
	}
}

func TestEncodeZeroBranches(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	e := newEncoder(t)
	for n := 1; n <= 4; n++ {
		requireEncodes(t, e, randomState(rng, n, 1<<(n-1)))
	}

	basis := make([]complex128, 8)
	basis[5] = -1i
	requireEncodes(t, e, basis)

	half := []complex128{0, 0, complex(0.6, 0), complex(0, 0.8)}
	requireEncodes(t, e, half)
}

func TestEncodeRealVectorUsesNoPhaseRotations(t *testing.T) {
	a := []complex128{0.5, 0.5, 0.5, 0.5}
	c, err := newEncoder(t).Encode(a)
	require.NoError(t, err)
	for _, g := range c.Gates() {
		assert.NotEqual(t, "RZ", string(g.Kind))
	}
	requireEncodes(t, newEncoder(t), a)
}

func TestEncodeScalar(t *testing.T) {
	c, err := Encode([]complex128{1i})
	require.NoError(t, err)
	assert.Zero(t, c.NumQubits())
	assert.InDelta(t, math.Pi/2, c.GlobalPhase(), 1e-12)
}

func TestEncodeParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	a := randomState(rng, 4, 0)
	serial, err := newEncoder(t, WithCacheSize(0)).Encode(a)
	require.NoError(t, err)
	parallel, err := newEncoder(t, WithCacheSize(0), WithParallel(true)).Encode(a)
	require.NoError(t, err)
	assert.Equal(t, serial.Gates(), parallel.Gates())
	assert.Equal(t, serial.GlobalPhase(), parallel.GlobalPhase())
}

func TestEncodePreconditions(t *testing.T) {
	e := newEncoder(t)
	_, err := e.Encode([]complex128{0.6, 0.8, 0})
	assert.True(t, errors.Is(err, ErrNotPowerOfTwo))

	_, err = e.Encode([]complex128{1, 1})
	assert.True(t, errors.Is(err, ErrNotNormalized))

	_, err = e.Encode(nil)
	assert.True(t, errors.Is(err, ErrNotPowerOfTwo))

	_, _, err = Normalize([]complex128{0, 0})
	assert.True(t, errors.Is(err, ErrZeroVector))
}

func TestEncodeRejectsNonFinite(t *testing.T) {
	e := newEncoder(t)
	for _, a := range [][]complex128{
		{complex(math.NaN(), 0), 0},
		{1, complex(0, math.NaN())},
		{complex(math.Inf(1), 0), 0},
	} {
		_, err := e.Encode(a)
		assert.True(t, errors.Is(err, ErrNotFinite), "%v: %v", a, err)

		_, _, err = Normalize(a)
		assert.True(t, errors.Is(err, ErrNotFinite), "%v: %v", a, err)
	}
}

func TestEncoderCache(t *testing.T) {
	e := newEncoder(t, WithCacheSize(4))
	a := []complex128{0.6, 0.8}

	hits := testutil.ToFloat64(metrics.StateprepCacheTotal.WithLabelValues("hit"))
	first, err := e.Encode(a)
	require.NoError(t, err)
	second, err := e.Encode(a)
	require.NoError(t, err)
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.StateprepCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, first.Gates(), second.Gates())

	// Callers own what they receive.
	second.AddPhase(1)
	third, err := e.Encode(a)
	require.NoError(t, err)
	assert.Equal(t, first.GlobalPhase(), third.GlobalPhase())
}

func TestEncodeAsRegister(t *testing.T) {
	c, err := newEncoder(t).EncodeAs("p", []complex128{0.6, 0.8})
	require.NoError(t, err)
	_, ok := c.Register("p")
	assert.True(t, ok)
}

func TestDefaultEncoderIsShared(t *testing.T) {
	a, err := defaultEncoder()
	require.NoError(t, err)
	b, err := defaultEncoder()
	require.NoError(t, err)
	assert.Same(t, a, b)

	c, err := Encode([]complex128{0.6, 0.8})
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumQubits())
}
