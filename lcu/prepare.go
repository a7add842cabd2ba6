package lcu

import (
	"math"
	"math/cmplx"
	"time"

	"go.uber.org/zap"

	"qlcu/circuit"
	"qlcu/internal/metrics"
	"qlcu/pauli"
)

// Prepare maps |0⟩_p to Σ_t √(|c_t|/λ)|t⟩_p.
type Prepare struct {
	*circuit.Circuit
	lambda float64
}

// Lambda returns the one-norm λ of the prepared sum.
func (p *Prepare) Lambda() float64 {
	return p.lambda
}

// IndexSize returns the number of index qubits for t terms: max(1, ⌈log2 t⌉).
func IndexSize(t int) int {
	m := 1
	for 1<<m < t {
		m++
	}
	return m
}

// Amplitudes returns the padded Prepare amplitudes of sum.
func Amplitudes(sum *pauli.Sum) []complex128 {
	terms := sum.Terms()
	lambda := sum.OneNorm()
	amps := make([]complex128, 1<<IndexSize(len(terms)))
	for i, wt := range terms {
		amps[i] = complex(math.Sqrt(cmplx.Abs(wt.Coeff)/lambda), 0)
	}
	return amps
}

// Prepare synthesizes the Prepare box of sum.
func (b *Builder) Prepare(sum *pauli.Sum) (*Prepare, error) {
	start := time.Now()
	c, err := b.encoder.EncodeAs(PrepareRegister, Amplitudes(sum))
	if err != nil {
		return nil, err
	}
	c.Name = "prepare"
	metrics.ObserveFragment("prepare", c, time.Since(start).Seconds())
	b.logger.Debug(
		"synthesized prepare",
		zap.Int("terms", sum.Len()),
		zap.Int("index_qubits", c.NumQubits()),
		zap.Int("gates", c.NumGates()),
	)
	return &Prepare{Circuit: c, lambda: sum.OneNorm()}, nil
}
