package circuit

import "fmt"

// Qubit identifies one qubit by register name and index within the register.
type Qubit struct {
	Reg   string
	Index int
}

// String renders the qubit as name[index].
func (q Qubit) String() string {
	return fmt.Sprintf("%s[%d]", q.Reg, q.Index)
}

// Register is a named, ordered group of qubits.
type Register struct {
	Name string
	Size int
}

// Qubit returns the i-th qubit of the register.
func (r Register) Qubit(i int) Qubit {
	return Qubit{Reg: r.Name, Index: i}
}

// Qubits returns the register's qubits in declaration order.
func (r Register) Qubits() []Qubit {
	qs := make([]Qubit, r.Size)
	for i := range r.Size {
		qs[i] = r.Qubit(i)
	}
	return qs
}

// Contains reports whether q belongs to the register.
func (r Register) Contains(q Qubit) bool {
	return q.Reg == r.Name && q.Index >= 0 && q.Index < r.Size
}
