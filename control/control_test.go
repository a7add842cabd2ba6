package control

import (
	"math/cmplx"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qlcu/circuit"
	"qlcu/internal/statevec"
)

// fixture is a two-qubit fragment with a non-trivial global phase.
func fixture(t *testing.T) *circuit.Circuit {
	t.Helper()
	f := circuit.New("f")
	q, err := f.AddRegister("q", 2)
	require.NoError(t, err)
	require.NoError(t, f.AddGate(circuit.H, q.Qubit(0)))
	require.NoError(t, f.AddGate(circuit.X, q.Qubit(1), q.Qubit(0)))
	require.NoError(t, f.AddParameterizedGate(circuit.RY, 0.8, q.Qubit(1)))
	f.AddPhase(0.6)
	return f
}

// requireControlled checks that box acts as f when the trailing k control
// qubits hold index, and as the identity otherwise.
func requireControlled(t *testing.T, f, box *circuit.Circuit, k, index int) {
	t.Helper()
	uf, err := statevec.Unitary(f)
	require.NoError(t, err)
	ub, err := statevec.Unitary(box)
	require.NoError(t, err)

	ctrl, ok := box.Register(DefaultRegister)
	if !ok {
		regs := box.Registers()
		ctrl = regs[len(regs)-1]
	}
	for c := 0; c < 1<<k; c++ {
		fixed := map[circuit.Qubit]int{}
		for j, q := range ctrl.Qubits() {
			fixed[q] = (c >> (k - 1 - j)) & 1
		}
		block, err := statevec.Block(box, ub, fixed)
		require.NoError(t, err)
		for r := range block {
			for s := range block[r] {
				want := complex(0, 0)
				if c == index {
					want = uf[r][s]
				} else if r == s {
					want = 1
				}
				require.InDelta(t, 0, cmplx.Abs(block[r][s]-want), 1e-9, "control %d entry %d,%d", c, r, s)
			}
		}
	}
}

func TestControlEveryIndex(t *testing.T) {
	f := fixture(t)
	for k := 1; k <= 3; k++ {
		for index := 0; index < 1<<k; index++ {
			box, err := Control(f, k, WithIndex(index))
			require.NoError(t, err)
			requireControlled(t, f, box, k, index)
		}
	}
}

func TestControlDefaultIsAllOnes(t *testing.T) {
	f := fixture(t)
	def, err := Control(f, 3)
	require.NoError(t, err)
	explicit, err := Control(f, 3, WithIndex(7))
	require.NoError(t, err)
	assert.Equal(t, explicit.Gates(), def.Gates())
	requireControlled(t, f, def, 3, 7)
}

func TestControlLeavesSourceUntouched(t *testing.T) {
	f := fixture(t)
	before := f.Gates()
	_, err := Control(f, 2, WithIndex(1))
	require.NoError(t, err)
	_, err = Control(f, 1)
	require.NoError(t, err)
	assert.Equal(t, before, f.Gates())
	assert.Equal(t, 0.6, f.GlobalPhase())
}

func TestControlRegisterLayout(t *testing.T) {
	f := fixture(t)
	box, err := Control(f, 2, WithRegisterName("p"))
	require.NoError(t, err)
	assert.Equal(t, []circuit.Register{{Name: "q", Size: 2}, {Name: "p", Size: 2}}, box.Registers())
	assert.Zero(t, box.GlobalPhase())

	_, err = Control(f, 1, WithRegisterName("q"))
	assert.True(t, errors.Is(err, circuit.ErrDuplicateRegister))
}

func TestControlPreconditions(t *testing.T) {
	f := fixture(t)
	_, err := Control(f, 2, WithIndex(4))
	assert.True(t, errors.Is(err, ErrInvalidControlIndex))
	_, err = Control(f, 2, WithIndex(-1))
	assert.True(t, errors.Is(err, ErrInvalidControlIndex))
	_, err = Control(f, 0)
	assert.True(t, errors.Is(err, ErrInvalidControlSize))
}

func TestControlNested(t *testing.T) {
	f := fixture(t)
	inner, err := Control(f, 1)
	require.NoError(t, err)
	outer, err := Control(inner, 1)
	require.NoError(t, err)
	assert.Equal(t, []circuit.Register{{Name: "q", Size: 2}, {Name: "a", Size: 1}, {Name: "a1", Size: 1}}, outer.Registers())

	third, err := Control(outer, 1)
	require.NoError(t, err)
	assert.Equal(t, "a2", third.Registers()[3].Name)

	// Two nested single controls act as one double control.
	double, err := Control(f, 2)
	require.NoError(t, err)
	uo, err := statevec.Unitary(outer)
	require.NoError(t, err)
	ud, err := statevec.Unitary(double)
	require.NoError(t, err)
	assert.InDelta(t, 0, statevec.MaxDistance(uo, ud), 1e-9)
}
