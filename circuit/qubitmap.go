package circuit

import "github.com/pkg/errors"

// QubitMap relabels fragment qubits onto parent qubits. A nil map is the
// identity.
type QubitMap map[Qubit]Qubit

// MapRegisters pairs src and dst position by position.
func MapRegisters(src, dst Register) (QubitMap, error) {
	if src.Size != dst.Size {
		return nil, errors.Wrapf(ErrSizeMismatch, "register %s has %d qubits, %s has %d", src.Name, src.Size, dst.Name, dst.Size)
	}
	return NewQubitMap(src.Qubits(), dst.Qubits())
}

// NewQubitMap pairs src[i] with dst[i].
func NewQubitMap(src, dst []Qubit) (QubitMap, error) {
	if len(src) != len(dst) {
		return nil, errors.Wrapf(ErrSizeMismatch, "%d source qubits, %d destination qubits", len(src), len(dst))
	}
	m := make(QubitMap, len(src))
	targets := make(map[Qubit]bool, len(dst))
	for i, s := range src {
		if _, ok := m[s]; ok {
			return nil, errors.Wrapf(ErrDuplicateQubit, "source %s", s)
		}
		if targets[dst[i]] {
			return nil, errors.Wrapf(ErrDuplicateQubit, "destination %s", dst[i])
		}
		m[s] = dst[i]
		targets[dst[i]] = true
	}
	return m, nil
}

// Merge combines maps. Overlapping sources or destinations are rejected.
func Merge(maps ...QubitMap) (QubitMap, error) {
	out := QubitMap{}
	targets := map[Qubit]bool{}
	for _, m := range maps {
		for s, d := range m {
			if _, ok := out[s]; ok {
				return nil, errors.Wrapf(ErrDuplicateQubit, "source %s", s)
			}
			if targets[d] {
				return nil, errors.Wrapf(ErrDuplicateQubit, "destination %s", d)
			}
			out[s] = d
			targets[d] = true
		}
	}
	return out, nil
}

// Inverse swaps sources and destinations.
func (m QubitMap) Inverse() QubitMap {
	if m == nil {
		return nil
	}
	out := make(QubitMap, len(m))
	for s, d := range m {
		out[d] = s
	}
	return out
}

// Lookup returns the image of q. The nil map maps every qubit to itself.
func (m QubitMap) Lookup(q Qubit) (Qubit, bool) {
	if m == nil {
		return q, true
	}
	d, ok := m[q]
	return d, ok
}
