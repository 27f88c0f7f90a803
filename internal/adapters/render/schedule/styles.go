package schedule

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	day     lipgloss.Style
	lesson  lipgloss.Style
	teacher lipgloss.Style
	times   lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		day:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		lesson:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		teacher: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		times:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
	}
}
