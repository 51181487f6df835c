package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rocketgrip/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width      int
	Height     int
	Input      string // rendered text input
	Spinner    string // current spinner frame
	Loading    bool
	Query      string
	Results    domain.ResultSet
	Stale      bool
	InFlight   int
	Err        error
	FeedClosed bool
	Help       string
	CardWidth  int
}

// Renderer handles all view rendering
type Renderer struct {
	styles     *Styles
	cardRender *CardRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:     styles,
		cardRender: NewCardRenderer(styles),
	}
}

// Render produces the complete view. It depends on state only.
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n\n")

	content.WriteString(r.styles.Input.Render(state.Input))
	content.WriteString("\n")

	content.WriteString(r.renderStatusLine(state))
	content.WriteString("\n\n")

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80 // Default terminal width
	}
	availableWidth := termWidth - r.styles.Main.GetHorizontalFrameSize()

	switch {
	case state.Results.Seq == 0 && state.Loading:
		content.WriteString(r.styles.Dim.Render("Loading the rocket catalog..."))
	case state.Results.Seq == 0:
		content.WriteString(r.styles.Dim.Render("Nothing loaded yet."))
	case state.Results.Empty():
		content.WriteString(r.styles.Dim.Render("No rockets match."))
	default:
		content.WriteString(r.cardRender.RenderGrid(state.Results.Rockets, availableWidth, state.CardWidth))
	}

	main := content.String()

	// Keep the help line visible: cut the grid rather than scroll it away
	if state.Height > 0 {
		maxLines := state.Height - r.styles.Main.GetVerticalFrameSize() - 2
		main = clipLines(main, maxLines)
	}
	if state.Help != "" {
		main += "\n\n" + r.styles.Help.Render(state.Help)
	}

	return r.styles.Main.Render(main)
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("rocketgrip")

	var indicators []string
	if state.Loading {
		indicators = append(indicators, r.styles.StatusLoading.Render(state.Spinner+" Loading"))
	}
	if state.InFlight > 0 {
		indicators = append(indicators, r.styles.StatusFetch.Render(fmt.Sprintf("↓ Fetching %d", state.InFlight)))
	}
	if len(indicators) == 0 {
		return logo
	}

	rightContent := strings.Join(indicators, r.styles.Dim.Render(" | "))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	availableWidth := termWidth - r.styles.Main.GetHorizontalFrameSize()
	paddingWidth := availableWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth < 2 {
		paddingWidth = 2
	}
	return logo + strings.Repeat(" ", paddingWidth) + rightContent
}

func (r *Renderer) renderStatusLine(state ViewState) string {
	if state.Err != nil {
		return r.styles.StatusError.Render(fmt.Sprintf("Search failed: %v. Results are no longer updated.", state.Err))
	}
	if state.FeedClosed {
		return r.styles.StatusError.Render("Search stopped. Results are no longer updated.")
	}
	if state.Results.Seq == 0 {
		return ""
	}

	caption := r.styles.Caption.Render(fmt.Sprintf("%s for %q", pluralRockets(len(state.Results.Rockets)), state.Results.Query))
	if state.Stale && !state.Loading {
		caption += "  " + r.styles.Stale.Render(fmt.Sprintf("(search box says %q)", state.Query))
	}
	return caption
}

func pluralRockets(n int) string {
	if n == 1 {
		return "1 rocket"
	}
	return fmt.Sprintf("%d rockets", n)
}

func clipLines(s string, max int) string {
	if max <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= max {
		return s
	}
	return strings.Join(lines[:max], "\n")
}

// RenderListing renders a result set as plain text for the pager:
// every rocket with its full description and every image reference
func RenderListing(rs domain.ResultSet) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s for %q\n", pluralRockets(len(rs.Rockets)), rs.Query)

	for _, rocket := range rs.Rockets {
		b.WriteString("\n")
		b.WriteString(rocket.Name)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("=", lipgloss.Width(rocket.Name)))
		b.WriteString("\n")
		if rocket.Description != "" {
			b.WriteString(rocket.Description)
			b.WriteString("\n")
		}
		for _, img := range rocket.Images {
			fmt.Fprintf(b, "  image: %s\n", img)
		}
	}
	return b.String()
}
