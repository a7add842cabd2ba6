package lcu

import (
	"math/bits"
	"math/cmplx"
	"slices"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qlcu/circuit"
	"qlcu/control"
	"qlcu/internal/metrics"
	"qlcu/linalg"
	"qlcu/multiplexor"
	"qlcu/pauli"
)

// Select applies e^{i·arg c_t}·P_t to the state register when the index
// register holds t. Unused indices act as the identity.
type Select struct {
	*circuit.Circuit
	method SelectMethod
}

// Method returns how the box was synthesized.
func (s *Select) Method() SelectMethod {
	return s.method
}

// Select synthesizes the Select box of sum.
func (b *Builder) Select(sum *pauli.Sum) (*Select, error) {
	start := time.Now()
	c := circuit.New("select")
	p, err := c.AddRegister(PrepareRegister, IndexSize(sum.Len()))
	if err != nil {
		return nil, err
	}
	q, err := c.AddRegister(StateRegister, sum.NumQubits())
	if err != nil {
		return nil, err
	}

	switch b.method {
	case SelectIndexed:
		err = b.selectIndexed(c, sum, p, q)
	case SelectUnary:
		err = b.selectUnary(c, sum, p, q)
	default:
		err = b.selectMultiplexed(c, sum, p, q)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select (%s)", b.method)
	}

	metrics.ObserveFragment("select", c, time.Since(start).Seconds())
	b.logger.Debug(
		"synthesized select",
		zap.Stringer("method", b.method),
		zap.Int("terms", sum.Len()),
		zap.Int("gates", c.NumGates()),
	)
	return &Select{Circuit: c, method: b.method}, nil
}

// selectMultiplexed emits, for each state qubit, the multiplexor of the
// terms' labels on that qubit. The coefficient phase rides on qubit 0.
func (b *Builder) selectMultiplexed(c *circuit.Circuit, sum *pauli.Sum, p, q circuit.Register) error {
	terms := sum.Terms()
	size := 1 << p.Size
	controls := p.Qubits()

	gates := make([][]circuit.Gate, q.Size)
	phases := make([]float64, q.Size)
	synth := func(qubit int) error {
		unitaries := make([]linalg.Mat2, size)
		for t := range unitaries {
			unitaries[t] = linalg.Identity
			if t >= len(terms) {
				continue
			}
			unitaries[t] = terms[t].Term.Op(qubit).Matrix()
			if qubit == 0 {
				unitaries[t] = unitaries[t].Scale(cmplx.Exp(complex(0, cmplx.Phase(terms[t].Coeff))))
			}
		}
		g, ph, err := multiplexor.Gates(unitaries, controls, q.Qubit(qubit))
		if err != nil {
			return errors.Wrapf(err, "state qubit %d", qubit)
		}
		gates[qubit], phases[qubit] = g, ph
		return nil
	}

	if b.parallel {
		eg := errgroup.Group{}
		for i := range q.Size {
			eg.Go(func() error {
				return synth(i)
			})
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	} else {
		for i := range q.Size {
			if err := synth(i); err != nil {
				return err
			}
		}
	}

	for i := range q.Size {
		if err := c.Add(gates[i]...); err != nil {
			return err
		}
		c.AddPhase(phases[i])
	}
	return nil
}

// termOp returns e^{i·arg c}·P on a copy of register q.
func termOp(wt pauli.WeightedTerm, q circuit.Register) (*circuit.Circuit, error) {
	op := circuit.New("pauli")
	if _, err := op.AddRegister(q.Name, q.Size); err != nil {
		return nil, err
	}
	for _, f := range wt.Term.Factors() {
		kind := circuit.Kind(f.Op.String())
		if err := op.AddGate(kind, q.Qubit(f.Qubit)); err != nil {
			return nil, err
		}
	}
	op.AddPhase(cmplx.Phase(wt.Coeff))
	return op, nil
}

// selectIndexed emits one box per term, controlled on the term's index.
func (b *Builder) selectIndexed(c *circuit.Circuit, sum *pauli.Sum, p, q circuit.Register) error {
	for t, wt := range sum.Terms() {
		op, err := termOp(wt, q)
		if err != nil {
			return err
		}

		box, err := control.Control(op, p.Size, control.WithIndex(t), control.WithRegisterName(p.Name))
		if err != nil {
			return errors.Wrapf(err, "term %d (%s)", t, wt.Term)
		}
		if err := c.Compose(box, nil); err != nil {
			return err
		}
	}
	return nil
}

// selectUnary walks the indices with a chain of Toffolis on a work register
// w of m-1 qubits: w[0] holds p[0]∧p[1] and w[j] holds w[j-1]∧p[j+1], each
// compared against the bits of the current index. Each term is controlled on
// w[m-2] alone. Between consecutive indices only the part of the chain below
// their first differing bit is recomputed. w is returned to |0…0⟩.
// With a single index qubit there is nothing to chain and the indexed
// method is used.
func (b *Builder) selectUnary(c *circuit.Circuit, sum *pauli.Sum, p, q circuit.Register) error {
	m := p.Size
	if m < 2 {
		return b.selectIndexed(c, sum, p, q)
	}
	w, err := c.AddRegister(WorkRegister, m-1)
	if err != nil {
		return err
	}
	index, work := p.Qubits(), w.Qubits()
	bit := func(t, j int) int {
		return (t >> (m - 1 - j)) & 1
	}

	// and toggles w[j] for index t. It is its own inverse.
	and := func(j, t int) error {
		var flips []circuit.Gate
		var controls []circuit.Qubit
		if j == 0 {
			controls = []circuit.Qubit{index[0], index[1]}
			for k := range 2 {
				if bit(t, k) == 0 {
					flips = append(flips, circuit.NewGate(circuit.X, index[k]))
				}
			}
		} else {
			controls = []circuit.Qubit{work[j-1], index[j+1]}
			if bit(t, j+1) == 0 {
				flips = append(flips, circuit.NewGate(circuit.X, index[j+1]))
			}
		}
		gates := append(slices.Clone(flips), circuit.NewGate(circuit.X, work[j], controls...))
		return c.Add(append(gates, flips...)...)
	}

	top := work[m-2]
	terms := sum.Terms()
	for t, wt := range terms {
		from := 0
		if t > 0 {
			// First differing bit d of t-1 and t; w[j] depends on bits 0…j+1.
			d := m - bits.Len(uint(t^(t-1)))
			from = max(d-1, 0)
			for j := m - 2; j >= from; j-- {
				if err := and(j, t-1); err != nil {
					return err
				}
			}
		}
		for j := from; j <= m-2; j++ {
			if err := and(j, t); err != nil {
				return err
			}
		}

		op, err := termOp(wt, q)
		if err != nil {
			return err
		}
		box, err := control.Control(op, 1)
		if err != nil {
			return errors.Wrapf(err, "term %d (%s)", t, wt.Term)
		}
		ctrl, _ := box.Register(control.DefaultRegister)
		onTop, err := circuit.NewQubitMap(ctrl.Qubits(), []circuit.Qubit{top})
		if err != nil {
			return err
		}
		self, err := circuit.NewQubitMap(q.Qubits(), q.Qubits())
		if err != nil {
			return err
		}
		boxMap, err := circuit.Merge(onTop, self)
		if err != nil {
			return err
		}
		if err := c.Compose(box, boxMap); err != nil {
			return errors.Wrapf(err, "term %d (%s)", t, wt.Term)
		}
	}
	for j := m - 2; j >= 0; j-- {
		if err := and(j, len(terms)-1); err != nil {
			return err
		}
	}
	return nil
}
