package console

import "github.com/charmbracelet/lipgloss"

type styles struct {
	prompt     lipgloss.Style
	input      lipgloss.Style
	result     lipgloss.Style
	err        lipgloss.Style
	hint       lipgloss.Style
	suggestion lipgloss.Style
	highlight  lipgloss.Style
	selected   lipgloss.Style
	selectedHi lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		prompt:     r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		input:      r.NewStyle().Foreground(lipgloss.Color("15")),
		result:     r.NewStyle().Foreground(lipgloss.Color("2")),
		err:        r.NewStyle().Foreground(lipgloss.Color("1")),
		hint:       r.NewStyle().Foreground(lipgloss.Color("8")),
		suggestion: r.NewStyle().Foreground(lipgloss.Color("4")),
		highlight:  r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		selected: r.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")),
		selectedHi: r.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true),
	}
}
