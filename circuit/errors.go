package circuit

import "github.com/pkg/errors"

// Sentinel errors for the circuit package. Call sites wrap them with context,
// match with errors.Is.
var (
	// ErrDuplicateRegister is returned when a register name is already in use.
	ErrDuplicateRegister = errors.New("circuit: duplicate register name")
	// ErrInvalidRegister is returned for an empty name or a size below one.
	ErrInvalidRegister = errors.New("circuit: invalid register")
	// ErrSizeMismatch is returned when two registers or qubit lists differ in length.
	ErrSizeMismatch = errors.New("circuit: size mismatch")
	// ErrDuplicateQubit is returned when a qubit appears twice where it must be unique.
	ErrDuplicateQubit = errors.New("circuit: duplicate qubit")
	// ErrUnknownQubit is returned when a gate references an undeclared qubit.
	ErrUnknownQubit = errors.New("circuit: unknown qubit")
	// ErrUnmappedQubit is returned when a fragment qubit has no entry in the map.
	ErrUnmappedQubit = errors.New("circuit: unmapped qubit")
	// ErrInvalidGate is returned for malformed gates.
	ErrInvalidGate = errors.New("circuit: invalid gate")
	// ErrNegativePower is returned by Power for n < 0.
	ErrNegativePower = errors.New("circuit: negative power")
)
