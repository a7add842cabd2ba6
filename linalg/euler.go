package linalg

import (
	"math"
	"math/cmplx"
)

// Euler holds the ZYZ decomposition U = e^{iα}·RZ(β)·RY(γ)·RZ(δ).
type Euler struct {
	Alpha float64
	Beta  float64
	Gamma float64
	Delta float64
}

// ZYZ decomposes a unitary into a global phase and three rotations. Angles
// that cannot be determined (a vanishing entry) are set to zero.
func ZYZ(u Mat2) Euler {
	alpha := cmplx.Phase(u.Det()) / 2
	v := u.Scale(cmplx.Exp(complex(0, -alpha)))

	a, b := v[0][0], v[1][0]
	absA, absB := cmplx.Abs(a), cmplx.Abs(b)
	gamma := 2 * math.Atan2(absB, absA)

	var sum, diff float64
	if absA > Tolerance {
		sum = -2 * cmplx.Phase(a)
	}
	if absB > Tolerance {
		diff = 2 * cmplx.Phase(b)
	}

	return Euler{
		Alpha: alpha,
		Beta:  (sum + diff) / 2,
		Gamma: gamma,
		Delta: (sum - diff) / 2,
	}
}

// Matrix rebuilds the unitary described by e.
func (e Euler) Matrix() Mat2 {
	return RZ(e.Beta).Mul(RY(e.Gamma)).Mul(RZ(e.Delta)).Scale(cmplx.Exp(complex(0, e.Alpha)))
}
