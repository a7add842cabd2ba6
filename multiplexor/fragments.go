package multiplexor

import (
	"slices"

	"github.com/pkg/errors"

	"qlcu/circuit"
	"qlcu/control"
)

// ControlRegister is the name of the control register of synthesized
// multiplexors.
const ControlRegister = "c"

// Fragments multiplexes arbitrary fragments by wrapping each one in its own
// k-controlled box. It is the general fallback when the per-index operations
// are not single-qubit unitaries. Every fragment must share one register
// layout, and none may use the register name "c".
func Fragments(frags []circuit.Fragment) (*circuit.Circuit, error) {
	k, err := Log2(len(frags))
	if err != nil {
		return nil, err
	}
	layout := frags[0].Registers()
	for i, f := range frags[1:] {
		if !slices.Equal(layout, f.Registers()) {
			return nil, errors.Wrapf(ErrRegisterMismatch, "fragment %d", i+1)
		}
	}

	out := circuit.New("multiplexor")
	if k > 0 {
		if _, err := out.AddRegister(ControlRegister, k); err != nil {
			return nil, err
		}
	}
	for _, r := range layout {
		if _, err := out.AddRegister(r.Name, r.Size); err != nil {
			return nil, err
		}
	}
	if k == 0 {
		if err := out.Compose(frags[0], nil); err != nil {
			return nil, err
		}
		return out, nil
	}

	for i, f := range frags {
		if len(f.Gates()) == 0 && isZero(f.GlobalPhase()) {
			continue
		}
		box, err := control.Control(f, k, control.WithIndex(i), control.WithRegisterName(ControlRegister))
		if err != nil {
			return nil, errors.Wrapf(err, "fragment %d", i)
		}
		if err := out.Compose(box, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}
