package terminal

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Base      lipgloss.Style
	Header    lipgloss.Style
	Subtitle  lipgloss.Style
	Field     lipgloss.Style
	Locked    lipgloss.Style
	Clock     lipgloss.Style
	Status    lipgloss.Style
	Completed lipgloss.Style
	Speech    lipgloss.Style
	Card      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Field:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Locked:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Clock:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true).Padding(0, 1),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Speech:    lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Italic(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			Align(lipgloss.Center),
	}
}
