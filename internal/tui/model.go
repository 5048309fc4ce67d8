package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"geckobrowser/internal/browser"
)

// Pane is the part of the screen that receives keys.
type Pane int

const (
	PaneGrid Pane = iota
	PaneFilters
	PaneFavorites
)

// LoadFunc builds the browsing session. It runs off the UI goroutine.
type LoadFunc func(ctx context.Context) (*browser.Session, error)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Session *browser.Session
	Loading bool
	Err     error

	load LoadFunc
	log  zerolog.Logger

	// UI State
	Focus       Pane
	SelectedIdx int // Index into the current page
	FilterCat   int // Category under the filter cursor
	FilterIdx   int // Value under the filter cursor, within FilterCat
	FavIdx      int
	WindowSize  tea.WindowSizeMsg
	Notice      string // One-line message under the grid, cleared on the next key

	// Help
	ShowHelp    bool
	HelpContent string // Rendered markdown, refreshed on resize
	HelpScrollY int

	// Page jump
	InputMode   bool
	InputBuffer textinput.Model

	// Components
	DetailsViewport viewport.Model
}

// InitialModel returns the initial state. load runs once from Init.
func InitialModel(load LoadFunc, log zerolog.Logger) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Page number..."
	ti.CharLimit = 6
	ti.Width = 10

	return AppModel{
		Loading:     true,
		load:        load,
		log:         log,
		InputBuffer: ti,
	}
}
