package lcu

import (
	"time"

	"github.com/pkg/errors"

	"qlcu/circuit"
	"qlcu/control"
	"qlcu/internal/metrics"
)

// NewAmplification returns the LCU followed by iterations rounds of
// R·W†·R·W, where W is the LCU and R = I − 2|0⟩⟨0| on the index register.
// With A = H/λ the postselected block is −(3A − 4AA†A) after one round; in
// general each singular value sin θ of A becomes (−1)^k sin((2k+1)θ).
// Postselection on p is kept.
func NewAmplification(l *LCU, iterations int) (*circuit.Circuit, error) {
	if iterations < 0 {
		return nil, errors.Wrapf(ErrInvalidIterations, "%d", iterations)
	}
	start := time.Now()
	p := l.PrepareRegister()
	refl, err := NewReflection(p.Size, false)
	if err != nil {
		return nil, err
	}
	r, _ := refl.Register(ReflectionRegister)
	reflMap, err := circuit.MapRegisters(r, p)
	if err != nil {
		return nil, err
	}
	qubits := l.Qubits()
	self, err := circuit.NewQubitMap(qubits, qubits)
	if err != nil {
		return nil, err
	}
	dagger := l.Dagger()

	c := l.Clone()
	c.Name = "amplification"
	for i := range iterations {
		steps := []struct {
			name string
			f    circuit.Fragment
			m    circuit.QubitMap
		}{
			{"reflection", refl, reflMap},
			{"lcu dagger", dagger, self},
			{"reflection", refl, reflMap},
			{"lcu", l.Circuit, self},
		}
		for _, s := range steps {
			if err := c.Compose(s.f, s.m); err != nil {
				return nil, errors.Wrapf(err, "round %d: compose %s", i, s.name)
			}
		}
	}
	metrics.ObserveFragment("amplification", c, time.Since(start).Seconds())
	return c, nil
}

// NewControlledQubitise returns the qubitisation walk of l controlled on a
// single new qubit, appended after p and q. The control register name and
// active value follow opts. Postselection on p is kept.
func NewControlledQubitise(l *LCU, opts ...control.Option) (*circuit.Circuit, error) {
	w, err := NewQubitise(l)
	if err != nil {
		return nil, err
	}
	c, err := control.Control(w, 1, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "control qubitise")
	}
	c.Name = "qcontrol-qubitise"
	for q, bit := range w.Postselect() {
		if err := c.SetPostselect(q, bit); err != nil {
			return nil, err
		}
	}
	return c, nil
}
