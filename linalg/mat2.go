// Package linalg holds the small amount of complex linear algebra the circuit
// synthesizers need: 2×2 unitaries, their products and Euler decompositions.
package linalg

import (
	"math"
	"math/cmplx"
)

// Tolerance is the default absolute tolerance for numeric comparisons.
const Tolerance = 1e-9

// Mat2 is a 2×2 complex matrix in row-major order.
type Mat2 [2][2]complex128

// Common single-qubit matrices.
var (
	Identity = Mat2{{1, 0}, {0, 1}}
	PauliX   = Mat2{{0, 1}, {1, 0}}
	PauliY   = Mat2{{0, -1i}, {1i, 0}}
	PauliZ   = Mat2{{1, 0}, {0, -1}}
	Hadamard = Mat2{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
)

// RX returns exp(-iθX/2).
func RX(theta float64) Mat2 {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return Mat2{{c, js}, {js, c}}
}

// RY returns exp(-iθY/2).
func RY(theta float64) Mat2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Mat2{{c, -s}, {s, c}}
}

// RZ returns exp(-iθZ/2).
func RZ(theta float64) Mat2 {
	phase := cmplx.Exp(complex(0, theta/2))
	return Mat2{{cmplx.Conj(phase), 0}, {0, phase}}
}

// Phase returns diag(1, e^{iλ}).
func Phase(lambda float64) Mat2 {
	return Mat2{{1, 0}, {0, cmplx.Exp(complex(0, lambda))}}
}

// Mul returns the product m·n.
func (m Mat2) Mul(n Mat2) Mat2 {
	var out Mat2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j]
		}
	}
	return out
}

// Scale returns s·m.
func (m Mat2) Scale(s complex128) Mat2 {
	return Mat2{
		{s * m[0][0], s * m[0][1]},
		{s * m[1][0], s * m[1][1]},
	}
}

// Dagger returns the conjugate transpose of m.
func (m Mat2) Dagger() Mat2 {
	return Mat2{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

// Det returns the determinant of m.
func (m Mat2) Det() complex128 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Apply returns m·v.
func (m Mat2) Apply(v [2]complex128) [2]complex128 {
	return [2]complex128{
		m[0][0]*v[0] + m[0][1]*v[1],
		m[1][0]*v[0] + m[1][1]*v[1],
	}
}

// ApproxEqual reports whether every entry of m and n differs by at most tol.
// Matrices holding NaN are never equal.
func (m Mat2) ApproxEqual(n Mat2, tol float64) bool {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if !(cmplx.Abs(m[i][j]-n[i][j]) <= tol) {
				return false
			}
		}
	}
	return true
}

// IsUnitary reports whether m·m† is the identity within tol.
func (m Mat2) IsUnitary(tol float64) bool {
	return m.Mul(m.Dagger()).ApproxEqual(Identity, tol)
}

// IsIdentity reports whether m is the identity within tol.
func (m Mat2) IsIdentity(tol float64) bool {
	return m.ApproxEqual(Identity, tol)
}
