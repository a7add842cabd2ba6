// Package circuit is the register-aware gate substrate: qubits grouped in
// named registers, ordered gates, a global phase, and composition of
// fragments by register role.
package circuit

import (
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/pkg/errors"
)

const (
	halfPi    = math.Pi / 2
	quarterPi = math.Pi / 4
)

// Fragment is anything that can be composed into a circuit.
type Fragment interface {
	Registers() []Register
	NumQubits() int
	Gates() []Gate
	GlobalPhase() float64
}

// Postselector is implemented by fragments that carry postselection
// metadata. Compose carries it across into the parent.
type Postselector interface {
	Postselect() map[Qubit]int
}

var _ Fragment = (*Circuit)(nil)

// Circuit holds ordered registers, ordered gates and a global phase.
type Circuit struct {
	Name string

	registers  []Register
	gates      []Gate
	phase      float64
	postselect map[Qubit]int
}

// New returns an empty circuit.
func New(name string) *Circuit {
	return &Circuit{Name: name}
}

// FromFragment copies any fragment into a new circuit.
func FromFragment(name string, f Fragment) (*Circuit, error) {
	c := New(name)
	for _, r := range f.Registers() {
		if _, err := c.AddRegister(r.Name, r.Size); err != nil {
			return nil, err
		}
	}
	if err := c.Compose(f, nil); err != nil {
		return nil, err
	}
	return c, nil
}

// AddRegister allocates a fresh register of size qubits.
func (c *Circuit) AddRegister(name string, size int) (Register, error) {
	if name == "" || size < 1 {
		return Register{}, errors.Wrapf(ErrInvalidRegister, "name %q size %d", name, size)
	}
	if _, ok := c.Register(name); ok {
		return Register{}, errors.Wrapf(ErrDuplicateRegister, "%q", name)
	}
	r := Register{Name: name, Size: size}
	c.registers = append(c.registers, r)
	return r, nil
}

// Register returns the register with the given name.
func (c *Circuit) Register(name string) (Register, bool) {
	for _, r := range c.registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// Registers returns the registers in declaration order.
func (c *Circuit) Registers() []Register {
	return slices.Clone(c.registers)
}

// Qubits returns every qubit, registers in declaration order.
func (c *Circuit) Qubits() []Qubit {
	var qs []Qubit
	for _, r := range c.registers {
		qs = append(qs, r.Qubits()...)
	}
	return qs
}

// NumQubits returns the total qubit count.
func (c *Circuit) NumQubits() int {
	n := 0
	for _, r := range c.registers {
		n += r.Size
	}
	return n
}

// HasQubit reports whether q is declared in the circuit.
func (c *Circuit) HasQubit(q Qubit) bool {
	r, ok := c.Register(q.Reg)
	return ok && r.Contains(q)
}

// Gates returns a copy of the gate sequence.
func (c *Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	for i, g := range c.gates {
		out[i] = g.Clone()
	}
	return out
}

// NumGates returns the number of gates.
func (c *Circuit) NumGates() int {
	return len(c.gates)
}

// GlobalPhase returns the global phase in radians.
func (c *Circuit) GlobalPhase() float64 {
	return c.phase
}

// AddPhase adds theta radians to the global phase.
func (c *Circuit) AddPhase(theta float64) {
	c.phase += theta
}

// Add appends gates after validating all of them. On error nothing is appended.
func (c *Circuit) Add(gates ...Gate) error {
	for _, g := range gates {
		if err := c.checkGate(g); err != nil {
			return err
		}
	}
	for _, g := range gates {
		c.gates = append(c.gates, g.Clone())
	}
	return nil
}

// AddGate appends an unparameterized gate.
func (c *Circuit) AddGate(kind Kind, target Qubit, controls ...Qubit) error {
	return c.Add(NewGate(kind, target, controls...))
}

// AddParameterizedGate appends a single-angle gate.
func (c *Circuit) AddParameterizedGate(kind Kind, theta float64, target Qubit, controls ...Qubit) error {
	return c.Add(NewRotation(kind, theta, target, controls...))
}

func (c *Circuit) checkGate(g Gate) error {
	if err := g.Validate(); err != nil {
		return err
	}
	for _, q := range g.Qubits() {
		if !c.HasQubit(q) {
			return errors.Wrapf(ErrUnknownQubit, "%s references %s", g.Kind, q)
		}
	}
	return nil
}

// Compose appends every gate of f, relabelled through m, and adds its
// global phase. Order is preserved. A nil map keeps qubit names as they are.
func (c *Circuit) Compose(f Fragment, m QubitMap) error {
	src := f.Gates()
	mapped := make([]Gate, len(src))
	for i, g := range src {
		mg, err := g.mapQubits(m)
		if err != nil {
			return err
		}
		mapped[i] = mg
	}

	var post map[Qubit]int
	if ps, ok := f.(Postselector); ok {
		post = make(map[Qubit]int)
		for q, bit := range ps.Postselect() {
			mq, ok := m.Lookup(q)
			if !ok {
				return errors.Wrapf(ErrUnmappedQubit, "postselected %s", q)
			}
			if !c.HasQubit(mq) {
				return errors.Wrapf(ErrUnknownQubit, "postselected %s", mq)
			}
			post[mq] = bit
		}
	}

	if err := c.Add(mapped...); err != nil {
		return err
	}
	c.phase += f.GlobalPhase()
	for q, bit := range post {
		c.setPostselect(q, bit)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Circuit) Clone() *Circuit {
	out := &Circuit{
		Name:      c.Name,
		registers: slices.Clone(c.registers),
		gates:     c.Gates(),
		phase:     c.phase,
	}
	if c.postselect != nil {
		out.postselect = maps.Clone(c.postselect)
	}
	return out
}

// Dagger returns the adjoint: reversed, inverted gates and negated phase.
// Postselection metadata is not carried over.
func (c *Circuit) Dagger() *Circuit {
	out := &Circuit{
		Name:      c.Name + "†",
		registers: slices.Clone(c.registers),
		gates:     make([]Gate, 0, len(c.gates)),
		phase:     -c.phase,
	}
	for i := len(c.gates) - 1; i >= 0; i-- {
		out.gates = append(out.gates, c.gates[i].Dagger())
	}
	return out
}

// Power returns the circuit repeated n times.
func (c *Circuit) Power(n int) (*Circuit, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrNegativePower, "%d", n)
	}
	out := &Circuit{
		Name:      c.Name,
		registers: slices.Clone(c.registers),
		gates:     make([]Gate, 0, n*len(c.gates)),
		phase:     float64(n) * c.phase,
	}
	for range n {
		out.gates = append(out.gates, c.Gates()...)
	}
	return out, nil
}

// Postselect returns a copy of the postselection map.
func (c *Circuit) Postselect() map[Qubit]int {
	return maps.Clone(c.postselect)
}

// SetPostselect records that q is to be postselected on bit.
func (c *Circuit) SetPostselect(q Qubit, bit int) error {
	if !c.HasQubit(q) {
		return errors.Wrapf(ErrUnknownQubit, "postselect %s", q)
	}
	if bit != 0 && bit != 1 {
		return errors.Wrapf(ErrInvalidGate, "postselect %s on %d", q, bit)
	}
	c.setPostselect(q, bit)
	return nil
}

func (c *Circuit) setPostselect(q Qubit, bit int) {
	if c.postselect == nil {
		c.postselect = make(map[Qubit]int)
	}
	c.postselect[q] = bit
}

// CountByKind returns the number of gates per kind, keyed by kind and
// control count, e.g. "X" and "c2-X".
func (c *Circuit) CountByKind() map[string]int {
	counts := make(map[string]int)
	for _, g := range c.gates {
		counts[KindLabel(g)]++
	}
	return counts
}

// KindLabel names a gate by kind and control count.
func KindLabel(g Gate) string {
	switch len(g.Controls) {
	case 0:
		return string(g.Kind)
	case 1:
		return "c-" + string(g.Kind)
	default:
		return "c" + strconv.Itoa(len(g.Controls)) + "-" + string(g.Kind)
	}
}
