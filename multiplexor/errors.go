package multiplexor

import "github.com/pkg/errors"

var (
	// ErrNotPowerOfTwo is returned when the number of unitaries or angles is
	// not 2^k for the given controls.
	ErrNotPowerOfTwo = errors.New("multiplexor: length is not a power of two")
	// ErrNotUnitary is returned when an input matrix is not unitary.
	ErrNotUnitary = errors.New("multiplexor: matrix is not unitary")
	// ErrRegisterMismatch is returned when fragments to multiplex differ in
	// register layout.
	ErrRegisterMismatch = errors.New("multiplexor: fragments have different registers")
	// ErrUnsupportedKind is returned for rotation kinds other than RY and RZ.
	ErrUnsupportedKind = errors.New("multiplexor: unsupported rotation kind")
)
