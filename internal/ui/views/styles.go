package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Caption       lipgloss.Style
	Stale         lipgloss.Style
	Input         lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Card          lipgloss.Style
	CardTitle     lipgloss.Style
	CardImage     lipgloss.Style
	CardBody      lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusFetch   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:     lipgloss.NewStyle().Faint(true),
		Caption: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Stale:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true), // yellow
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().Padding(1, 2),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1),
		CardTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
		CardImage:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true),
		CardBody:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusFetch:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
	}
}
