// Package dag builds the dependency graph of a circuit's gates and assigns
// each gate a time step.
package dag

import (
	"slices"

	"qlcu/circuit"
)

// Node represents a gate in the circuit as a node in a DAG.
// Dependencies represent ordering constraints - a gate cannot execute before
// the gates that act on the same qubits earlier in the circuit.
type Node struct {
	ID           int          // Position of the gate in the circuit
	Gate         circuit.Gate // The gate itself
	Step         int          // ASAP layer, 0-based
	Dependencies []int        // IDs of nodes that must execute before this one
}

// DAG is the dependency graph of a fragment's gates.
type DAG struct {
	Nodes  []*Node
	Qubits []circuit.Qubit // Wires in declaration order

	position map[circuit.Qubit]int
}

// FromFragment builds the DAG of f. Each gate depends on the last gate seen
// on every qubit it touches, and sits one step after the latest of them.
func FromFragment(f circuit.Fragment) *DAG {
	d := &DAG{position: make(map[circuit.Qubit]int)}
	for _, r := range f.Registers() {
		for _, q := range r.Qubits() {
			d.position[q] = len(d.Qubits)
			d.Qubits = append(d.Qubits, q)
		}
	}

	// Track the last gate on each qubit to establish dependencies
	lastGateOnQubit := make(map[circuit.Qubit]int)

	for id, g := range f.Gates() {
		node := &Node{ID: id, Gate: g}
		for _, q := range g.Qubits() {
			last, ok := lastGateOnQubit[q]
			if !ok {
				continue
			}
			if !slices.Contains(node.Dependencies, last) {
				node.Dependencies = append(node.Dependencies, last)
			}
			if step := d.Nodes[last].Step + 1; step > node.Step {
				node.Step = step
			}
		}
		slices.Sort(node.Dependencies)
		d.Nodes = append(d.Nodes, node)
		for _, q := range g.Qubits() {
			lastGateOnQubit[q] = id
		}
	}
	return d
}

// Position returns the wire index of q.
func (d *DAG) Position(q circuit.Qubit) (int, bool) {
	p, ok := d.position[q]
	return p, ok
}

// Span returns the lowest and highest wire touched by the node.
func (d *DAG) Span(n *Node) (lo, hi int) {
	lo, hi = len(d.Qubits), -1
	for _, q := range n.Gate.Qubits() {
		p := d.position[q]
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return lo, hi
}

// MaxStep returns the maximum step index in the DAG, or -1 when empty.
func (d *DAG) MaxStep() int {
	maxStep := -1
	for _, node := range d.Nodes {
		maxStep = max(maxStep, node.Step)
	}
	return maxStep
}

// Depth is the number of steps.
func (d *DAG) Depth() int {
	return d.MaxStep() + 1
}

// NodesAtStep returns all nodes at a specific step, in circuit order.
func (d *DAG) NodesAtStep(step int) []*Node {
	var result []*Node
	for _, node := range d.Nodes {
		if node.Step == step {
			result = append(result, node)
		}
	}
	return result
}

// NodesOnQubit returns all nodes that reference q, in circuit order.
func (d *DAG) NodesOnQubit(q circuit.Qubit) []*Node {
	var result []*Node
	for _, node := range d.Nodes {
		if node.Gate.References(q) {
			result = append(result, node)
		}
	}
	return result
}

// TopologicalSort returns nodes ordered by step, ties broken by circuit
// order. Every node follows its dependencies.
func (d *DAG) TopologicalSort() []*Node {
	result := slices.Clone(d.Nodes)
	slices.SortStableFunc(result, func(a, b *Node) int {
		return a.Step - b.Step
	})
	return result
}

// Columns groups nodes for drawing. A node occupies every wire between its
// lowest and highest qubit, so nodes whose spans overlap never share a
// column even when they touch disjoint qubits.
func (d *DAG) Columns() [][]*Node {
	var columns [][]*Node
	// Next free column per wire
	free := make([]int, len(d.Qubits))
	for _, node := range d.Nodes {
		lo, hi := d.Span(node)
		col := 0
		for w := lo; w <= hi; w++ {
			col = max(col, free[w])
		}
		for w := lo; w <= hi; w++ {
			free[w] = col + 1
		}
		for len(columns) <= col {
			columns = append(columns, nil)
		}
		columns[col] = append(columns[col], node)
	}
	return columns
}
