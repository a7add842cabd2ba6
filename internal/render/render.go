// Package render draws a circuit as a text grid: one wire per qubit, one
// column per layer of gates whose wire spans do not overlap.
package render

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qlcu/circuit"
	"qlcu/internal/dag"
	"qlcu/qasm"
)

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		r := []rune(s)
		return string(r[:min(width, len(r))])
	}
	total := width - w
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns a short display name for a gate.
func gateDisplayName(g circuit.Gate) string {
	if info, ok := g.Kind.Info(); ok {
		return info.Symbol
	}
	return string(g.Kind)
}

// controlSymbol is drawn on control wires.
const controlSymbol = "●"

// targetSymbol returns the wire symbol for the target of a controlled gate,
// or "" when the target is drawn as a box.
func targetSymbol(kind circuit.Kind) string {
	switch kind {
	case circuit.X:
		return "⊕"
	case circuit.Z:
		return "●"
	default:
		return ""
	}
}

type cellInfo struct {
	gate        *circuit.Gate
	isControl   bool
	isTarget    bool
	passThrough bool // vertical line crossing an untouched wire
	vertAbove   bool
	vertBelow   bool
}

// Option configures a Grid.
type Option func(*Grid)

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(g *Grid) { g.styles = s }
}

// Plain renders without colors.
func Plain() Option {
	return WithStyles(PlainStyles())
}

// Grid is a rendered view of a fragment.
type Grid struct {
	dag     *dag.DAG
	columns [][]*dag.Node
	labels  []string
	post    map[circuit.Qubit]int
	phase   float64
	styles  Styles
}

// New lays out f.
func New(f circuit.Fragment, opts ...Option) *Grid {
	d := dag.FromFragment(f)
	g := &Grid{
		dag:     d,
		columns: d.Columns(),
		phase:   f.GlobalPhase(),
		styles:  DefaultStyles(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if ps, ok := f.(circuit.Postselector); ok {
		g.post = ps.Postselect()
	}
	for _, q := range d.Qubits {
		g.labels = append(g.labels, q.String())
	}
	return g
}

// NumColumns is the number of drawn columns.
func (g *Grid) NumColumns() int { return len(g.columns) }

// Depth is the circuit depth, which can be smaller than NumColumns.
func (g *Grid) Depth() int { return g.dag.Depth() }

func (g *Grid) cellInfo(col, wire int) cellInfo {
	q := g.dag.Qubits[wire]
	for _, n := range g.columns[col] {
		lo, hi := g.dag.Span(n)
		if wire < lo || wire > hi {
			continue
		}
		info := cellInfo{gate: &n.Gate, vertAbove: wire > lo, vertBelow: wire < hi}
		switch {
		case n.Gate.Target == q:
			info.isTarget = true
		case slices.Contains(n.Gate.Controls, q):
			info.isControl = true
		default:
			info.passThrough = true
		}
		return info
	}
	return cellInfo{}
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func (g *Grid) renderCell(info cellInfo) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case info.gate == nil:
		mid = strings.Repeat("─", cellW)

	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)

	case info.isControl:
		mid = strings.Repeat("─", dashL) + g.styles.Gate.Render(controlSymbol) + strings.Repeat("─", dashR)

	case len(info.gate.Controls) > 0 && targetSymbol(info.gate.Kind) != "":
		mid = strings.Repeat("─", dashL) + g.styles.Gate.Render(targetSymbol(info.gate.Kind)) + strings.Repeat("─", dashR)

	default:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(gateDisplayName(*info.gate), gateNameW)

		top = strings.Repeat(" ", margin) + g.styles.Gate.Render("┌"+boxEdge(info.vertAbove, "┴")+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + g.styles.Gate.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + g.styles.Gate.Render("└"+boxEdge(info.vertBelow, "┬")+"┘") + strings.Repeat(" ", rightMargin)
	}
	return top, mid, bot
}

// boxEdge is a horizontal box border, with a connector in the middle when
// a control line meets the box.
func boxEdge(connect bool, connector string) string {
	if !connect {
		return strings.Repeat("─", gateNameW)
	}
	left := gateNameW / 2
	return strings.Repeat("─", left) + connector + strings.Repeat("─", gateNameW-left-1)
}

func (g *Grid) labelWidth() int {
	w := 0
	for _, l := range g.labels {
		w = max(w, len(l)+1)
	}
	return w
}

// Fit returns how many columns fit in width characters, at least one.
func (g *Grid) Fit(width int) int {
	return max((width-g.labelWidth()-2)/cellW, 1)
}

// Render draws count columns starting at start.
func (g *Grid) Render(start, count int) string {
	start = max(0, min(start, len(g.columns)))
	end := min(start+max(count, 0), len(g.columns))

	labelW := g.labelWidth()
	indent := strings.Repeat(" ", labelW+2)

	var sb strings.Builder
	if start > 0 && start < end {
		fmt.Fprintf(&sb, "  ◀ showing columns %d–%d\n", start, end-1)
	}

	header := indent
	for col := start; col < end; col++ {
		header += g.styles.Dim.Render(padCenter(strconv.Itoa(col), cellW))
	}
	sb.WriteString(strings.TrimRight(header, " ") + "\n")

	// Render each qubit as 3 lines
	for wire, label := range g.labels {
		topLine := indent
		midLine := g.styles.Label.Render(fmt.Sprintf("%-*s", labelW, label)) + "──"
		botLine := indent

		for col := start; col < end; col++ {
			top, mid, bot := g.renderCell(g.cellInfo(col, wire))
			topLine += top
			midLine += mid
			botLine += bot
		}
		if bit, ok := g.post[g.dag.Qubits[wire]]; ok {
			midLine += " " + g.styles.Postselect.Render(fmt.Sprintf("⟨%d|", bit))
		}

		sb.WriteString(strings.TrimRight(topLine, " ") + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(strings.TrimRight(botLine, " ") + "\n")
	}

	if g.phase != 0 {
		sb.WriteString(g.styles.Dim.Render("global phase " + qasm.FormatParam(g.phase)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// String draws every column.
func (g *Grid) String() string {
	return g.Render(0, len(g.columns))
}
