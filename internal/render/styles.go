package render

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	cellW     = 11 // width of each column in characters
	gateNameW = 5  // width of gate name inside box
	gateBoxW  = 7  // ┤ + gateNameW + ├ = 1 + 5 + 1
)

// Styles are the lipgloss styles the grid is drawn with.
type Styles struct {
	Title      lipgloss.Style
	Label      lipgloss.Style
	Gate       lipgloss.Style
	Dim        lipgloss.Style
	Postselect lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff")),
		Gate: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca")),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89")),
		Postselect: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Title: plain, Label: plain, Gate: plain, Dim: plain, Postselect: plain}
}
