package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"rocketgrip/internal/config"
)

// HelpRenderer builds the help page shown in the pager
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent(keys keyMap, cfg *config.Config) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(10)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("rocketgrip Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Keys"))
	help.WriteString("\n")
	for _, group := range keys.FullHelp() {
		for _, b := range group {
			writeBinding(&help, keyStyle, descStyle, b)
		}
	}
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("any text"), descStyle.Render("Search rockets by name (case-sensitive)")))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	if cfg != nil {
		help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("catalog"), descStyle.Render(cfg.Endpoint)))
		help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("debounce"), descStyle.Render(time.Duration(cfg.Debounce).String())))
		help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("policy"), descStyle.Render(cfg.Policy)))
	}

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  A query is sent once typing pauses for the debounce interval."))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Sending the same query twice in a row is skipped."))
	help.WriteString("\n")
	help.WriteString(noteStyle.Render("  Press q to return."))

	return help.String()
}

func writeBinding(b *strings.Builder, keyStyle, descStyle lipgloss.Style, binding key.Binding) {
	h := binding.Help()
	if h.Key == "" {
		return
	}
	b.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
}
