package lcu

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qlcu/circuit"
	"qlcu/internal/metrics"
	"qlcu/pauli"
)

// LCU is Prepare·Select·Prepare† on registers p and q, plus the work
// register w when Select uses one. Postselecting p (and w) on |0…0⟩ leaves
// H/λ on q.
type LCU struct {
	*circuit.Circuit
	sum     *pauli.Sum
	prepare *Prepare
	sel     *Select
}

// Build synthesizes the LCU box of sum.
func (b *Builder) Build(sum *pauli.Sum) (*LCU, error) {
	start := time.Now()
	prep, err := b.Prepare(sum)
	if err != nil {
		return nil, errors.Wrap(err, "prepare")
	}
	sel, err := b.Select(sum)
	if err != nil {
		return nil, err
	}

	c := circuit.New("lcu")
	p, err := c.AddRegister(PrepareRegister, IndexSize(sum.Len()))
	if err != nil {
		return nil, err
	}
	q, err := c.AddRegister(StateRegister, sum.NumQubits())
	if err != nil {
		return nil, err
	}

	prepRegister, _ := prep.Register(PrepareRegister)
	prepMap, err := circuit.MapRegisters(prepRegister, p)
	if err != nil {
		return nil, err
	}
	selP, _ := sel.Register(PrepareRegister)
	selQ, _ := sel.Register(StateRegister)
	selMapP, err := circuit.MapRegisters(selP, p)
	if err != nil {
		return nil, err
	}
	selMapQ, err := circuit.MapRegisters(selQ, q)
	if err != nil {
		return nil, err
	}
	selMap, err := circuit.Merge(selMapP, selMapQ)
	if err != nil {
		return nil, err
	}
	post := p.Qubits()
	if selW, ok := sel.Register(WorkRegister); ok {
		w, err := c.AddRegister(WorkRegister, selW.Size)
		if err != nil {
			return nil, err
		}
		selMapW, err := circuit.MapRegisters(selW, w)
		if err != nil {
			return nil, err
		}
		if selMap, err = circuit.Merge(selMap, selMapW); err != nil {
			return nil, err
		}
		post = append(post, w.Qubits()...)
	}

	if err := c.Compose(prep, prepMap); err != nil {
		return nil, errors.Wrap(err, "compose prepare")
	}
	if err := c.Compose(sel, selMap); err != nil {
		return nil, errors.Wrap(err, "compose select")
	}
	if err := c.Compose(prep.Dagger(), prepMap); err != nil {
		return nil, errors.Wrap(err, "compose prepare dagger")
	}
	for _, qb := range post {
		if err := c.SetPostselect(qb, 0); err != nil {
			return nil, err
		}
	}

	metrics.ObserveFragment("lcu", c, time.Since(start).Seconds())
	b.logger.Info(
		"synthesized lcu",
		zap.Int("terms", sum.Len()),
		zap.Int("index_qubits", p.Size),
		zap.Int("state_qubits", q.Size),
		zap.Int("gates", c.NumGates()),
		zap.Float64("lambda", prep.Lambda()),
	)
	return &LCU{Circuit: c, sum: sum, prepare: prep, sel: sel}, nil
}

// Lambda returns the one-norm λ; the block encoding is H/λ.
func (l *LCU) Lambda() float64 {
	return l.prepare.Lambda()
}

// Sum returns the encoded operator.
func (l *LCU) Sum() *pauli.Sum {
	return l.sum
}

// IsHermitian reports whether the encoded operator is Hermitian.
func (l *LCU) IsHermitian() bool {
	return l.sum.IsHermitian()
}

// PrepareBox returns the Prepare box used by the LCU.
func (l *LCU) PrepareBox() *Prepare {
	return l.prepare
}

// SelectBox returns the Select box used by the LCU.
func (l *LCU) SelectBox() *Select {
	return l.sel
}

// PrepareRegister returns the index register.
func (l *LCU) PrepareRegister() circuit.Register {
	r, _ := l.Register(PrepareRegister)
	return r
}

// StateRegister returns the state register.
func (l *LCU) StateRegister() circuit.Register {
	r, _ := l.Register(StateRegister)
	return r
}

// New builds the LCU box of sum with a one-off Builder.
func New(sum *pauli.Sum, opts ...Option) (*LCU, error) {
	b, err := NewBuilder(opts...)
	if err != nil {
		return nil, err
	}
	return b.Build(sum)
}

// NewPrepare builds the Prepare box of sum.
func NewPrepare(sum *pauli.Sum) (*Prepare, error) {
	b, err := NewBuilder()
	if err != nil {
		return nil, err
	}
	return b.Prepare(sum)
}

// NewSelect builds the Select box of sum with the given method.
func NewSelect(sum *pauli.Sum, method SelectMethod) (*Select, error) {
	b, err := NewBuilder(WithSelectMethod(method))
	if err != nil {
		return nil, err
	}
	return b.Select(sum)
}
