package lcu

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"qlcu/circuit"
	"qlcu/internal/metrics"
)

// NewReflection returns ±(2|0…0⟩⟨0…0| − I) on an n-qubit register "r".
// The sign is + when positive is set.
func NewReflection(n int, positive bool) (*circuit.Circuit, error) {
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidSize, "reflection on %d qubits", n)
	}
	c := circuit.New("reflection")
	r, err := c.AddRegister(ReflectionRegister, n)
	if err != nil {
		return nil, err
	}
	qubits := r.Qubits()

	var gates []circuit.Gate
	for _, q := range qubits {
		gates = append(gates, circuit.NewGate(circuit.X, q))
	}
	gates = append(gates, circuit.NewGate(circuit.Z, qubits[0], qubits[1:]...))
	for _, q := range qubits {
		gates = append(gates, circuit.NewGate(circuit.X, q))
	}
	if err := c.Add(gates...); err != nil {
		return nil, err
	}
	if positive {
		c.AddPhase(math.Pi)
	}
	return c, nil
}

// NewQubitise returns the LCU followed by the positive reflection on its index
// register. Only Hermitian sums qualify. Postselection on p is kept.
func NewQubitise(l *LCU) (*circuit.Circuit, error) {
	if !l.IsHermitian() {
		return nil, ErrNotHermitian
	}
	start := time.Now()
	p := l.PrepareRegister()
	refl, err := NewReflection(p.Size, true)
	if err != nil {
		return nil, err
	}
	r, _ := refl.Register(ReflectionRegister)
	m, err := circuit.MapRegisters(r, p)
	if err != nil {
		return nil, err
	}

	c := l.Clone()
	c.Name = "qubitise"
	if err := c.Compose(refl, m); err != nil {
		return nil, errors.Wrap(err, "compose reflection")
	}
	metrics.ObserveFragment("qubitise", c, time.Since(start).Seconds())
	return c, nil
}
