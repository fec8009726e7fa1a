package dashboard

import "github.com/charmbracelet/lipgloss"

type theme struct {
	frame lipgloss.Style
	title lipgloss.Style
	sub   lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	foot  lipgloss.Style
	empty lipgloss.Style
}

func newTheme() theme {
	amber := lipgloss.Color("#ffb000")
	cyan := lipgloss.Color("#01cdfe")
	text := lipgloss.Color("#f3f3ff")
	muted := lipgloss.Color("#9ca3d8")

	return theme{
		frame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(cyan).
			Padding(0, 1).
			Width(50),
		title: lipgloss.NewStyle().Foreground(amber).Bold(true),
		sub:   lipgloss.NewStyle().Foreground(muted),
		label: lipgloss.NewStyle().Foreground(cyan).Width(22),
		value: lipgloss.NewStyle().Foreground(text).Width(22).Align(lipgloss.Right),
		foot:  lipgloss.NewStyle().Foreground(muted),
		empty: lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
