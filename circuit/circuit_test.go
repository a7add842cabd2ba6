package circuit

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRegister(t *testing.T, c *Circuit, name string, size int) Register {
	t.Helper()
	r, err := c.AddRegister(name, size)
	require.NoError(t, err)
	return r
}

func TestAddRegister(t *testing.T) {
	c := New("test")
	a := mustRegister(t, c, "a", 2)
	b := mustRegister(t, c, "b", 3)

	assert.Equal(t, 5, c.NumQubits())
	assert.Equal(t, []Register{a, b}, c.Registers())
	assert.Equal(t, []Qubit{{"a", 0}, {"a", 1}, {"b", 0}, {"b", 1}, {"b", 2}}, c.Qubits())

	_, err := c.AddRegister("a", 1)
	assert.True(t, errors.Is(err, ErrDuplicateRegister))
	_, err = c.AddRegister("", 1)
	assert.True(t, errors.Is(err, ErrInvalidRegister))
	_, err = c.AddRegister("z", 0)
	assert.True(t, errors.Is(err, ErrInvalidRegister))
}

func TestAddValidates(t *testing.T) {
	c := New("test")
	q := mustRegister(t, c, "q", 2)

	require.NoError(t, c.AddGate(H, q.Qubit(0)))
	require.NoError(t, c.AddGate(X, q.Qubit(1), q.Qubit(0)))

	tests := []struct {
		name string
		gate Gate
		want error
	}{
		{"unknown register", NewGate(X, Qubit{"r", 0}), ErrUnknownQubit},
		{"index out of range", NewGate(X, q.Qubit(2)), ErrUnknownQubit},
		{"target is control", NewGate(X, q.Qubit(0), q.Qubit(0)), ErrDuplicateQubit},
		{"missing param", NewGate(RZ, q.Qubit(0)), ErrInvalidGate},
		{"unknown kind", NewGate(Kind("CCX"), q.Qubit(0)), ErrInvalidGate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Add(tt.gate)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
	assert.Equal(t, 2, c.NumGates())
}

func TestAddIsAtomic(t *testing.T) {
	c := New("test")
	q := mustRegister(t, c, "q", 1)
	err := c.Add(NewGate(H, q.Qubit(0)), NewGate(X, Qubit{"nope", 0}))
	require.Error(t, err)
	assert.Zero(t, c.NumGates())
}

func TestGatesReturnsCopy(t *testing.T) {
	c := New("test")
	q := mustRegister(t, c, "q", 2)
	require.NoError(t, c.AddParameterizedGate(RY, 0.5, q.Qubit(1), q.Qubit(0)))

	gates := c.Gates()
	gates[0].Params[0] = 9
	gates[0].Controls[0] = q.Qubit(1)

	again := c.Gates()
	assert.Equal(t, 0.5, again[0].Params[0])
	assert.Equal(t, q.Qubit(0), again[0].Controls[0])
}

func TestMapRegisters(t *testing.T) {
	m, err := MapRegisters(Register{"r", 2}, Register{"p", 2})
	require.NoError(t, err)
	got, ok := m.Lookup(Qubit{"r", 1})
	require.True(t, ok)
	assert.Equal(t, Qubit{"p", 1}, got)

	_, err = MapRegisters(Register{"r", 2}, Register{"p", 3})
	assert.True(t, errors.Is(err, ErrSizeMismatch))

	_, err = NewQubitMap([]Qubit{{"a", 0}, {"a", 1}}, []Qubit{{"b", 0}, {"b", 0}})
	assert.True(t, errors.Is(err, ErrDuplicateQubit))
}

func TestMergeRejectsOverlap(t *testing.T) {
	a, err := MapRegisters(Register{"x", 1}, Register{"p", 1})
	require.NoError(t, err)
	b, err := MapRegisters(Register{"y", 1}, Register{"p", 1})
	require.NoError(t, err)
	_, err = Merge(a, b)
	assert.True(t, errors.Is(err, ErrDuplicateQubit))
}

func TestNilMapIsIdentity(t *testing.T) {
	var m QubitMap
	q := Qubit{"q", 3}
	got, ok := m.Lookup(q)
	assert.True(t, ok)
	assert.Equal(t, q, got)
	assert.Nil(t, m.Inverse())
}

func fragmentFixture(t *testing.T) *Circuit {
	t.Helper()
	f := New("frag")
	r := mustRegister(t, f, "r", 2)
	s := mustRegister(t, f, "s", 1)
	require.NoError(t, f.AddGate(H, r.Qubit(0)))
	require.NoError(t, f.AddGate(X, s.Qubit(0), r.Qubit(0), r.Qubit(1)))
	require.NoError(t, f.AddParameterizedGate(RZ, 0.25, r.Qubit(1)))
	f.AddPhase(0.5)
	return f
}

func TestComposeRelabels(t *testing.T) {
	f := fragmentFixture(t)

	parent := New("parent")
	p := mustRegister(t, parent, "p", 2)
	q := mustRegister(t, parent, "q", 1)

	m, err := Merge(
		mustMap(t, Register{"r", 2}, p),
		mustMap(t, Register{"s", 1}, q),
	)
	require.NoError(t, err)
	require.NoError(t, parent.Compose(f, m))

	want := []Gate{
		NewGate(H, p.Qubit(0)),
		NewGate(X, q.Qubit(0), p.Qubit(0), p.Qubit(1)),
		NewRotation(RZ, 0.25, p.Qubit(1)),
	}
	assert.Equal(t, want, parent.Gates())
	assert.Equal(t, 0.5, parent.GlobalPhase())
}

func TestComposeRoundTrip(t *testing.T) {
	f := fragmentFixture(t)
	m, err := Merge(
		mustMap(t, Register{"r", 2}, Register{"p", 2}),
		mustMap(t, Register{"s", 1}, Register{"q", 1}),
	)
	require.NoError(t, err)

	parent := New("parent")
	mustRegister(t, parent, "p", 2)
	mustRegister(t, parent, "q", 1)
	require.NoError(t, parent.Compose(f, m))

	back := New("back")
	mustRegister(t, back, "r", 2)
	mustRegister(t, back, "s", 1)
	require.NoError(t, back.Compose(parent, m.Inverse()))

	assert.Equal(t, f.Gates(), back.Gates())
}

func TestComposeUnmapped(t *testing.T) {
	f := fragmentFixture(t)
	parent := New("parent")
	p := mustRegister(t, parent, "p", 2)
	m := mustMap(t, Register{"r", 2}, p)

	err := parent.Compose(f, m)
	assert.True(t, errors.Is(err, ErrUnmappedQubit))
	assert.Zero(t, parent.NumGates())
	assert.Zero(t, parent.GlobalPhase())
}

func TestComposeCarriesPostselect(t *testing.T) {
	f := fragmentFixture(t)
	require.NoError(t, f.SetPostselect(Qubit{"r", 0}, 0))

	parent, err := FromFragment("copy", f)
	require.NoError(t, err)
	assert.Equal(t, map[Qubit]int{{"r", 0}: 0}, parent.Postselect())
}

func TestDagger(t *testing.T) {
	c := New("c")
	q := mustRegister(t, c, "q", 2)
	require.NoError(t, c.AddGate(S, q.Qubit(0)))
	require.NoError(t, c.AddParameterizedGate(RY, 0.3, q.Qubit(1), q.Qubit(0)))
	require.NoError(t, c.AddGate(T, q.Qubit(1)))
	c.AddPhase(1)

	d := c.Dagger()
	want := []Gate{
		NewGate(TDG, q.Qubit(1)),
		NewRotation(RY, -0.3, q.Qubit(1), q.Qubit(0)),
		NewGate(SDG, q.Qubit(0)),
	}
	assert.Equal(t, want, d.Gates())
	assert.Equal(t, -1.0, d.GlobalPhase())
}

func TestPower(t *testing.T) {
	c := New("c")
	q := mustRegister(t, c, "q", 1)
	require.NoError(t, c.AddGate(H, q.Qubit(0)))
	c.AddPhase(math.Pi / 4)

	p, err := c.Power(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumGates())
	assert.InDelta(t, 3*math.Pi/4, p.GlobalPhase(), 1e-12)

	zero, err := c.Power(0)
	require.NoError(t, err)
	assert.Zero(t, zero.NumGates())
	assert.Equal(t, 1, zero.NumQubits())

	_, err = c.Power(-1)
	assert.True(t, errors.Is(err, ErrNegativePower))
}

func TestSetPostselect(t *testing.T) {
	c := New("c")
	q := mustRegister(t, c, "q", 1)
	require.NoError(t, c.SetPostselect(q.Qubit(0), 1))
	assert.Error(t, c.SetPostselect(q.Qubit(0), 2))
	assert.True(t, errors.Is(c.SetPostselect(Qubit{"x", 0}, 0), ErrUnknownQubit))
}

func TestCountByKind(t *testing.T) {
	f := fragmentFixture(t)
	assert.Equal(t, map[string]int{"H": 1, "c2-X": 1, "RZ": 1}, f.CountByKind())
}

func mustMap(t *testing.T, src, dst Register) QubitMap {
	t.Helper()
	m, err := MapRegisters(src, dst)
	require.NoError(t, err)
	return m
}
