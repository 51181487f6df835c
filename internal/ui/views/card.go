package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rocketgrip/internal/domain"
)

const (
	// descriptionLines caps the body so every card in a row has the same height
	descriptionLines = 6
	minCardWidth     = 20
)

// CardRenderer renders a single rocket as a bordered card
type CardRenderer struct {
	styles *Styles
}

// NewCardRenderer creates a new card renderer
func NewCardRenderer(styles *Styles) *CardRenderer {
	return &CardRenderer{styles: styles}
}

// RenderCard renders image reference, title and description inside a
// box whose outer width is width
func (r *CardRenderer) RenderCard(rocket domain.Rocket, width int) string {
	if width < minCardWidth {
		width = minCardWidth
	}
	inner := width - r.styles.Card.GetHorizontalFrameSize()

	image := rocket.Image()
	if image == "" {
		image = r.styles.Dim.Render(truncate("no image", inner))
	} else {
		image = r.styles.CardImage.Render(truncate(image, inner))
	}

	title := r.styles.CardTitle.Render(truncate(rocket.Name, inner))

	body := r.styles.CardBody.
		Width(inner).
		Height(descriptionLines).
		MaxHeight(descriptionLines).
		Render(rocket.Description)

	content := lipgloss.JoinVertical(lipgloss.Left, image, title, "", body)
	return r.styles.Card.Width(width - r.styles.Card.GetHorizontalMargins() - r.styles.Card.GetHorizontalBorderSize()).Render(content)
}

// RenderGrid lays cards out left to right, wrapping to as many rows as needed
func (r *CardRenderer) RenderGrid(rockets []domain.Rocket, totalWidth, cardWidth int) string {
	if len(rockets) == 0 {
		return ""
	}
	cols := Columns(totalWidth, cardWidth)

	rows := make([]string, 0, (len(rockets)+cols-1)/cols)
	for start := 0; start < len(rockets); start += cols {
		end := start + cols
		if end > len(rockets) {
			end = len(rockets)
		}
		cards := make([]string, 0, end-start)
		for _, rocket := range rockets[start:end] {
			cards = append(cards, r.RenderCard(rocket, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Columns returns how many cards of cardWidth fit into totalWidth (at least one)
func Columns(totalWidth, cardWidth int) int {
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}
	cols := totalWidth / cardWidth
	if cols < 1 {
		return 1
	}
	return cols
}

// truncate shortens s to at most width cells, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return strings.TrimRight(string(runes), " ") + "…"
}
