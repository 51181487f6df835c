package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"rocketgrip/internal/config"
	"rocketgrip/internal/eventbus"
	"rocketgrip/internal/search"
	"rocketgrip/internal/stream"
	"rocketgrip/internal/ui/state"
	"rocketgrip/internal/ui/viewmodels"
	"rocketgrip/internal/ui/views"
)

// Placeholder is shown in the empty search box
const Placeholder = "Search rockets by name"

// Model represents the UI state
type Model struct {
	ctx    context.Context
	config *config.Config
	state  *state.SearchState
	log    logrus.FieldLogger

	// Query source and the feed subscribed to it; both belong to this view
	source   *stream.Subject[string]
	pipeline *search.Pipeline
	sub      *search.Subscription

	width  int
	height int

	input     textinput.Model
	spinner   spinner.Model
	keys      keyMap
	renderer  *views.Renderer
	viewModel *viewmodels.ViewModel
	pager     *Pager
	help      *HelpRenderer
}

// NewModel creates a new UI model around a query source and the pipeline reading it
func NewModel(ctx context.Context, cfg *config.Config, source *stream.Subject[string], pipeline *search.Pipeline, log logrus.FieldLogger) *Model {
	if log == nil {
		log = logrus.StandardLogger()
	}

	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.Prompt = "🔍 "
	ti.CharLimit = 128
	ti.SetValue(source.Value())
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	searchState := state.NewSearchState()
	searchState.Query = source.Value()
	keys := defaultKeyMap()

	return &Model{
		ctx:       ctx,
		config:    cfg,
		state:     searchState,
		log:       log.WithField("component", "ui"),
		source:    source,
		pipeline:  pipeline,
		input:     ti,
		spinner:   sp,
		keys:      keys,
		renderer:  views.NewRenderer(),
		viewModel: viewmodels.NewViewModel(searchState, cfg, keys),
		pager:     NewPager(),
		help:      NewHelpRenderer(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// State exposes the current search state
func (m *Model) State() state.SearchState {
	return *m.state
}

// Init subscribes to the result pipeline
func (m *Model) Init() tea.Cmd {
	m.sub = m.pipeline.Subscribe(m.ctx)
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForResult(m.sub),
	)
}

// Close releases the pipeline subscription. Safe to call more than once.
func (m *Model) Close() {
	if m.sub != nil {
		m.sub.Unsubscribe()
	}
}

// waitForResult turns the next emission of the feed into a message
func waitForResult(sub *search.Subscription) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-sub.Results()
		if !ok {
			return feedClosedMsg{}
		}
		return resultMsg{result: r}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewModel.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		return m.handleResult(msg.result)

	case feedClosedMsg:
		m.log.Info("result feed closed")
		m.state.Close()
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case pagerDoneMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("pager failed")
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pager):
		if m.state.Results.Seq == 0 {
			return m, nil
		}
		return m, m.pager.ShowCmd(views.RenderListing(m.state.Results))

	case key.Matches(msg, m.keys.Help):
		return m, m.pager.ShowCmd(m.help.RenderHelpContent(m.keys, m.config))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if q := m.input.Value(); m.state.Type(q) {
		m.source.Next(q)
	}
	return m, cmd
}

func (m *Model) handleResult(r search.Result) (tea.Model, tea.Cmd) {
	if r.Err != nil {
		m.log.WithError(r.Err).WithField("query", r.Query).Error("search failed")
		m.state.Fail(r.Err)
		m.state.FetchEnded(r.Seq)
		// The feed closes right after a failure; collect that too
		return m, waitForResult(m.sub)
	}

	m.state.Settle(r.ResultSet)
	return m, waitForResult(m.sub)
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch ev := e.(type) {
	case eventbus.QueryDispatchedEvent:
		m.log.WithFields(logrus.Fields{"seq": ev.Seq, "query": ev.Query}).Debug("query dispatched")
		m.state.Dispatch(ev.Seq, ev.Query)
	case eventbus.FetchStartedEvent:
		m.state.FetchStarted(ev.Seq, ev.Query)
	case eventbus.FetchCompletedEvent:
		m.state.FetchEnded(ev.Seq)
	case eventbus.FetchFailedEvent:
		m.state.FetchEnded(ev.Seq)
	case eventbus.FetchSupersededEvent:
		m.state.FetchEnded(ev.Seq)
	case eventbus.QuerySuppressedEvent:
		m.state.Suppressed(ev.Query)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.viewModel.BuildViewState(m.input, m.spinner))
}
