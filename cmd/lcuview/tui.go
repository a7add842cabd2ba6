package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qlcu/circuit"
	"qlcu/internal/render"
	"qlcu/qasm"
)

// focus represents which panel has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
)

// Model is the viewer state.
type Model struct {
	src        *source
	grid       *render.Grid
	viewStart  int // First column currently visible
	width      int
	height     int
	qasmEditor textarea.Model
	focus      focus
	lastQASM   string
	statusMsg  string // transient status message (e.g. save confirmation)
}

func newModel(src *source) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0

	m := Model{
		src:        src,
		qasmEditor: ta,
		focus:      focusCircuit,
	}
	m.syncFromSource()
	return m
}

func (m *Model) syncFromSource() {
	m.grid = render.New(m.src.frag)
	text := qasm.Write(m.src.frag)
	m.qasmEditor.SetValue(text)
	m.lastQASM = text
}

// parseQASMInput replaces the displayed circuit with the editor contents.
// On a parse error the circuit is kept and the error shown.
func (m *Model) parseQASMInput() {
	text := m.qasmEditor.Value()
	if text == m.lastQASM {
		return
	}
	c, err := qasm.Parse(text)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Parse error: %v", err)
		return
	}
	m.src = &source{name: c.Name, frag: c}
	m.grid = render.New(c)
	m.lastQASM = text
	m.viewStart = min(m.viewStart, m.lastColumn())
	m.statusMsg = "Parsed QASM"
}

func (m Model) lastColumn() int {
	return max(m.grid.NumColumns()-1, 0)
}

func (m Model) circuitWidth() int {
	return m.width - m.width/3 - 4
}

// page is the number of columns shown at once.
func (m Model) page() int {
	return m.grid.Fit(m.circuitWidth() - 4)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.qasmEditor.SetWidth(max(msg.Width/3-6, 20))
		m.qasmEditor.SetHeight(max(msg.Height-6-4-8, 4))
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				return m, m.qasmEditor.Focus()
			case "left", "h":
				m.viewStart = max(m.viewStart-1, 0)
			case "right", "l":
				m.viewStart = min(m.viewStart+1, m.lastColumn())
			case "pgup":
				m.viewStart = max(m.viewStart-m.page(), 0)
			case "pgdown":
				m.viewStart = min(m.viewStart+m.page(), m.lastColumn())
			case "home":
				m.viewStart = 0
			case "end":
				m.viewStart = m.lastColumn()
			case "ctrl+s":
				path := m.src.name + ".qasm"
				if err := os.WriteFile(path, []byte(m.lastQASM), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved " + path
				}
			}
			return m, nil

		case focusQASM:
			switch key {
			case "tab", "esc":
				m.parseQASMInput()
				m.focus = focusCircuit
				m.qasmEditor.Blur()
				return m, nil
			case "ctrl+r":
				m.parseQASMInput()
				return m, nil
			}
		}
	}

	if m.focus == focusQASM {
		var cmd tea.Cmd
		m.qasmEditor, cmd = m.qasmEditor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderCircuitPanel(m.circuitWidth(), circuitHeight),
		m.renderQASMPanel(qasmWidth, circuitHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, topRow, m.renderControlsPanel(m.width-4, controlsHeight-2))
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(m.src.name))
	sb.WriteString("\n\n")
	sb.WriteString(m.grid.Render(m.viewStart, m.page()))

	fmt.Fprintf(&sb, "\n  Qubits %d  Gates %d  Depth %d", m.src.frag.NumQubits(), len(m.src.frag.Gates()), m.grid.Depth())
	if m.src.lcu != nil {
		fmt.Fprintf(&sb, "  λ %s", qasm.FormatParam(m.src.lcu.Lambda()))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help bar and the gate legend.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeStyle.Render("Navigate: "))
	sb.WriteString("←→/hl Scroll  PgUp/PgDn Page  Home/End")
	sb.WriteString("    ")
	sb.WriteString(activeStyle.Render("Actions: "))
	sb.WriteString("Tab Switch focus  ^R Reparse  ^S Save  q/^C Quit\n")

	sb.WriteString(dimStyle.Render(legend(m.src.frag.Gates())))

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// legend names the gate kinds used, in catalogue order.
func legend(gates []circuit.Gate) string {
	used := make(map[circuit.Kind]bool)
	for _, g := range gates {
		used[g.Kind] = true
	}
	var parts []string
	for _, info := range circuit.GateKinds {
		if used[info.Kind] {
			parts = append(parts, info.Symbol+" "+info.Name)
		}
	}
	return strings.Join(parts, " · ")
}
