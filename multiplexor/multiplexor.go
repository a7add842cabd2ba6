// Package multiplexor synthesizes uniformly controlled gates: circuits that
// apply U_i to a target when the control register holds |i⟩.
//
// Controls are listed most significant first. A single-qubit multiplexor is
// reduced to uniformly controlled RZ, RY, RZ rotations and a diagonal on the
// controls. Each uniformly controlled rotation costs 2^k CNOTs at most, never
// 2^k multi-controlled gates.
//
// Synthesize, Gates and Rotations only take single-qubit targets (2×2
// unitaries). A multiplexor over m-qubit targets, such as a list of 4×4
// unitaries, is built with Fragments: each U_i is written as a fragment and
// wrapped in its own k-controlled box. That path is exact but costs one
// k-controlled copy of every U_i.
package multiplexor

import (
	"math"

	"github.com/pkg/errors"

	"qlcu/circuit"
	"qlcu/linalg"
)

// Rotations returns the gates of a uniformly controlled rotation: R(angles[i])
// on target when controls hold i. Kind must be RY or RZ.
func Rotations(kind circuit.Kind, angles []float64, controls []circuit.Qubit, target circuit.Qubit) ([]circuit.Gate, error) {
	if kind != circuit.RY && kind != circuit.RZ {
		return nil, errors.Wrapf(ErrUnsupportedKind, "%s", kind)
	}
	if len(angles) != 1<<len(controls) {
		return nil, errors.Wrapf(ErrNotPowerOfTwo, "%d angles for %d controls", len(angles), len(controls))
	}
	var gates []circuit.Gate
	rotations(&gates, kind, angles, controls, target)
	return gates, nil
}

// rotations splits on controls[0]: R(θ_i) = R(θ+)·R(θ-) and
// R(θ_{i+h}) = R(θ+)·X·R(θ-)·X, since X·R(θ)·X = R(-θ) for RY and RZ.
func rotations(out *[]circuit.Gate, kind circuit.Kind, angles []float64, controls []circuit.Qubit, target circuit.Qubit) {
	if len(controls) == 0 {
		if !isZero(angles[0]) {
			*out = append(*out, circuit.NewRotation(kind, angles[0], target))
		}
		return
	}
	h := len(angles) / 2
	plus := make([]float64, h)
	minus := make([]float64, h)
	for i := 0; i < h; i++ {
		plus[i] = (angles[i] + angles[i+h]) / 2
		minus[i] = (angles[i] - angles[i+h]) / 2
	}
	rotations(out, kind, plus, controls[1:], target)
	if allZero(minus) {
		return
	}
	*out = append(*out, circuit.NewGate(circuit.X, target, controls[0]))
	rotations(out, kind, minus, controls[1:], target)
	*out = append(*out, circuit.NewGate(circuit.X, target, controls[0]))
}

// Diagonal returns gates implementing diag(e^{iφ_0}, …) on qubits, most
// significant first, together with the leftover global phase.
func Diagonal(phases []float64, qubits []circuit.Qubit) ([]circuit.Gate, float64, error) {
	if len(phases) != 1<<len(qubits) {
		return nil, 0, errors.Wrapf(ErrNotPowerOfTwo, "%d phases for %d qubits", len(phases), len(qubits))
	}
	var gates []circuit.Gate
	phase := diagonal(&gates, phases, qubits)
	return gates, phase, nil
}

// diagonal peels the least significant qubit: each pair (φ_2j, φ_2j+1) is
// e^{i(φ_2j+φ_2j+1)/2}·RZ(φ_2j+1 − φ_2j).
func diagonal(out *[]circuit.Gate, phases []float64, qubits []circuit.Qubit) float64 {
	k := len(qubits)
	if k == 0 {
		return phases[0]
	}
	h := len(phases) / 2
	angles := make([]float64, h)
	rest := make([]float64, h)
	for j := 0; j < h; j++ {
		angles[j] = phases[2*j+1] - phases[2*j]
		rest[j] = (phases[2*j] + phases[2*j+1]) / 2
	}
	rotations(out, circuit.RZ, angles, qubits[:k-1], qubits[k-1])
	return diagonal(out, rest, qubits[:k-1])
}

// Gates synthesizes the multiplexor of single-qubit unitaries on target.
// The returned gates times e^{i·phase} equal the multiplexor exactly.
func Gates(unitaries []linalg.Mat2, controls []circuit.Qubit, target circuit.Qubit) ([]circuit.Gate, float64, error) {
	if len(unitaries) != 1<<len(controls) {
		return nil, 0, errors.Wrapf(ErrNotPowerOfTwo, "%d unitaries for %d controls", len(unitaries), len(controls))
	}
	n := len(unitaries)
	alpha := make([]float64, n)
	beta := make([]float64, n)
	gamma := make([]float64, n)
	delta := make([]float64, n)
	for i, u := range unitaries {
		if !u.IsUnitary(1e-8) {
			return nil, 0, errors.Wrapf(ErrNotUnitary, "index %d", i)
		}
		e := linalg.ZYZ(u)
		alpha[i], beta[i], gamma[i], delta[i] = e.Alpha, e.Beta, e.Gamma, e.Delta
	}

	var gates []circuit.Gate
	rotations(&gates, circuit.RZ, delta, controls, target)
	rotations(&gates, circuit.RY, gamma, controls, target)
	rotations(&gates, circuit.RZ, beta, controls, target)
	phase := diagonal(&gates, alpha, controls)
	return gates, phase, nil
}

// Synthesize builds the multiplexor as a fragment with a control register
// "c" of log2(len(unitaries)) qubits and a one-qubit target register "t".
// For wider targets use Fragments.
func Synthesize(unitaries []linalg.Mat2) (*circuit.Circuit, error) {
	k, err := Log2(len(unitaries))
	if err != nil {
		return nil, err
	}
	c := circuit.New("multiplexor")
	var controls []circuit.Qubit
	if k > 0 {
		reg, err := c.AddRegister("c", k)
		if err != nil {
			return nil, err
		}
		controls = reg.Qubits()
	}
	t, err := c.AddRegister("t", 1)
	if err != nil {
		return nil, err
	}
	gates, phase, err := Gates(unitaries, controls, t.Qubit(0))
	if err != nil {
		return nil, err
	}
	if err := c.Add(gates...); err != nil {
		return nil, err
	}
	c.AddPhase(phase)
	return c, nil
}

// Log2 returns k for n = 2^k.
func Log2(n int) (int, error) {
	if n < 1 || n&(n-1) != 0 {
		return 0, errors.Wrapf(ErrNotPowerOfTwo, "%d", n)
	}
	k := 0
	for 1<<k < n {
		k++
	}
	return k, nil
}

func isZero(theta float64) bool {
	return math.Abs(theta) < linalg.Tolerance
}

func allZero(angles []float64) bool {
	for _, a := range angles {
		if !isZero(a) {
			return false
		}
	}
	return true
}
