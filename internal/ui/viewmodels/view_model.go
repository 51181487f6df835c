package viewmodels

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"rocketgrip/internal/config"
	"rocketgrip/internal/ui/state"
	"rocketgrip/internal/ui/views"
)

// ViewModel transforms application state into view-ready data
type ViewModel struct {
	state  *state.SearchState
	config *config.Config
	width  int
	height int
	help   help.Model
	keys   help.KeyMap
}

// NewViewModel creates a new view model
func NewViewModel(searchState *state.SearchState, cfg *config.Config, keys help.KeyMap) *ViewModel {
	return &ViewModel{
		state:  searchState,
		config: cfg,
		help:   help.New(),
		keys:   keys,
	}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
	vm.help.Width = width
}

// BuildViewState snapshots everything the renderer needs
func (vm *ViewModel) BuildViewState(input textinput.Model, spin spinner.Model) views.ViewState {
	cardWidth := 0
	if vm.config != nil {
		cardWidth = vm.config.UISettings.CardWidth
	}

	return views.ViewState{
		Width:      vm.width,
		Height:     vm.height,
		Input:      input.View(),
		Spinner:    spin.View(),
		Loading:    vm.state.Loading,
		Query:      vm.state.Query,
		Results:    vm.state.Results,
		Stale:      vm.state.Stale(),
		InFlight:   len(vm.state.InFlight),
		Err:        vm.state.Err,
		FeedClosed: vm.state.FeedClosed,
		Help:       vm.help.View(vm.keys),
		CardWidth:  cardWidth,
	}
}
