// Package stateprep synthesizes circuits that map |0…0⟩ to a given
// amplitude vector.
//
// The vector is split recursively in halves. Each node of the split tree
// becomes a single-qubit unitary RZ(φ)·RY(θ); the nodes at depth ℓ form a
// multiplexor on qubit ℓ controlled by qubits 0…ℓ-1, synthesized with
// package multiplexor.
package stateprep

import (
	"encoding/binary"
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"qlcu/linalg"
	"qlcu/multiplexor"
)

var (
	// ErrNotNormalized is returned for vectors whose L2 norm is not one.
	ErrNotNormalized = errors.New("stateprep: amplitudes are not normalized")
	// ErrNotPowerOfTwo is returned when the vector length is not 2^n.
	ErrNotPowerOfTwo = errors.New("stateprep: length is not a power of two")
	// ErrZeroVector is returned by Normalize for the zero vector.
	ErrZeroVector = errors.New("stateprep: zero vector")
	// ErrNotFinite is returned for vectors holding NaN or infinite entries.
	ErrNotFinite = errors.New("stateprep: amplitude is not finite")
)

// NormTolerance is the allowed deviation of the L2 norm from one.
const NormTolerance = 1e-9

// Norm returns the L2 norm of a.
func Norm(a []complex128) float64 {
	sum := 0.0
	for _, v := range a {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

func checkFinite(a []complex128) error {
	for i, v := range a {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return errors.Wrapf(ErrNotFinite, "index %d: %v", i, v)
		}
	}
	return nil
}

// Normalize returns a/‖a‖ and the norm.
func Normalize(a []complex128) ([]complex128, float64, error) {
	if err := checkFinite(a); err != nil {
		return nil, 0, err
	}
	n := Norm(a)
	if n < linalg.Tolerance {
		return nil, 0, ErrZeroVector
	}
	out := make([]complex128, len(a))
	for i, v := range a {
		out[i] = v / complex(n, 0)
	}
	return out, n, nil
}

func validate(a []complex128) (int, error) {
	n, err := multiplexor.Log2(len(a))
	if err != nil {
		return 0, errors.Wrapf(ErrNotPowerOfTwo, "length %d", len(a))
	}
	if err := checkFinite(a); err != nil {
		return 0, err
	}
	if norm := Norm(a); !(math.Abs(norm-1) <= NormTolerance) {
		return 0, errors.Wrapf(ErrNotNormalized, "norm %g", norm)
	}
	return n, nil
}

// node is one subtree of the split: levels[ℓ] holds the 2^ℓ unitaries of
// depth ℓ, and phase the argument shared by the subtree's amplitudes.
type node struct {
	levels [][]linalg.Mat2
	phase  float64
}

// split builds the tree for v. Zero-norm halves are never recursed into.
func split(v []complex128) node {
	if len(v) == 1 {
		return node{phase: phaseOf(v[0])}
	}
	h := len(v) / 2
	left, right := v[:h], v[h:]
	rl, rr := Norm(left), Norm(right)

	var l, r node
	switch {
	case rl < linalg.Tolerance:
		r = split(right)
		l = identity(depth(h), r.phase)
	case rr < linalg.Tolerance:
		l = split(left)
		r = identity(depth(h), l.phase)
	default:
		l, r = split(left), split(right)
	}

	theta := 2 * math.Atan2(rr, rl)
	phi := r.phase - l.phase
	u := linalg.RZ(phi).Mul(linalg.RY(theta))

	levels := make([][]linalg.Mat2, len(l.levels)+1)
	levels[0] = []linalg.Mat2{u}
	for i := range l.levels {
		levels[i+1] = append(append([]linalg.Mat2(nil), l.levels[i]...), r.levels[i]...)
	}
	return node{levels: levels, phase: (l.phase + r.phase) / 2}
}

// identity is the subtree of an all-zero half.
func identity(n int, phase float64) node {
	levels := make([][]linalg.Mat2, n)
	for l := range levels {
		levels[l] = make([]linalg.Mat2, 1<<l)
		for i := range levels[l] {
			levels[l][i] = linalg.Identity
		}
	}
	return node{levels: levels, phase: phase}
}

func depth(length int) int {
	n := 0
	for 1<<n < length {
		n++
	}
	return n
}

func phaseOf(v complex128) float64 {
	if cmplx.Abs(v) < linalg.Tolerance {
		return 0
	}
	return cmplx.Phase(v)
}

// cacheKey encodes the register name and exact amplitude bits.
func cacheKey(register string, a []complex128) string {
	buf := make([]byte, 0, len(register)+1+16*len(a))
	buf = append(buf, register...)
	buf = append(buf, 0)
	for _, v := range a {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(real(v)))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(imag(v)))
	}
	return string(buf)
}
