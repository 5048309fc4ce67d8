package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geckobrowser/internal/browser"
	"geckobrowser/internal/catalog"
	"geckobrowser/internal/model"
	"geckobrowser/internal/storage"
)

var factions = []string{"Rebel", "Empire", "Pirate", "Rebel"}

func newSession(t *testing.T, n int) *browser.Session {
	t.Helper()
	items := make([]model.Item, n)
	for i := range items {
		it := model.Item{ID: i + 1, Name: fmt.Sprintf("Galactic Gecko #%d", i+1), Number: i + 1}
		it.Traits[model.Faction] = model.Trait{Category: model.Faction, Name: "Faction", Value: factions[i%len(factions)]}
		items[i] = it
	}
	c, err := catalog.New(items)
	require.NoError(t, err)
	return browser.New(c, browser.Options{Store: storage.NewMemory(), Logger: zerolog.Nop()})
}

// ready returns a loaded model with a sized window.
func ready(t *testing.T, n int) AppModel {
	t.Helper()
	s := newSession(t, n)
	m := InitialModel(func(context.Context) (*browser.Session, error) { return s, nil }, zerolog.Nop())
	m = send(m, MsgSessionReady{Session: s})
	return send(m, tea.WindowSizeMsg{Width: 160, Height: 40})
}

func send(m AppModel, msg tea.Msg) AppModel {
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func keys(m AppModel, ks ...string) AppModel {
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(m, msg)
	}
	return m
}

func TestLoading(t *testing.T) {
	s := newSession(t, 3)
	m := InitialModel(func(context.Context) (*browser.Session, error) { return s, nil }, zerolog.Nop())
	assert.True(t, m.Loading)
	assert.Contains(t, m.View(), "Loading")

	msg := m.Init()()
	require.IsType(t, MsgSessionReady{}, msg)
	m = send(m, msg)
	assert.False(t, m.Loading)
	assert.Same(t, s, m.Session)
}

func TestLoadError(t *testing.T) {
	m := InitialModel(func(context.Context) (*browser.Session, error) {
		return nil, catalog.ErrLoad
	}, zerolog.Nop())

	m = send(m, m.Init()())
	assert.False(t, m.Loading)
	assert.True(t, errors.Is(m.Err, catalog.ErrLoad))
	assert.Contains(t, m.View(), "Error")
}

func TestPaging(t *testing.T) {
	m := ready(t, 250)
	assert.Equal(t, 1, m.Session.Page())

	m = keys(m, "n", "n", "n")
	assert.Equal(t, 3, m.Session.Page(), "next stops at the last page")
	assert.Len(t, m.Session.PageItems(), 50)

	m = keys(m, "p")
	assert.Equal(t, 2, m.Session.Page())
}

func TestPageJump(t *testing.T) {
	m := ready(t, 250)

	m = keys(m, "g", "3", "enter")
	assert.False(t, m.InputMode)
	assert.Equal(t, 3, m.Session.Page())

	m = keys(m, "g", "9", "enter")
	assert.Equal(t, 3, m.Session.Page(), "invalid page keeps the current page")
	assert.Contains(t, m.Notice, "1-3")

	m = keys(m, "g", "x", "enter")
	assert.Equal(t, 3, m.Session.Page())
	assert.NotEmpty(t, m.Notice)
}

func TestGridMovement(t *testing.T) {
	m := ready(t, 20)
	cols := m.Session.Columns()

	m = keys(m, "right")
	assert.Equal(t, 1, m.SelectedIdx)
	m = keys(m, "down")
	assert.Equal(t, 1+cols, m.SelectedIdx)
	m = keys(m, "h")
	assert.Equal(t, cols, m.SelectedIdx)
}

func TestFilterPanel(t *testing.T) {
	m := ready(t, 250)

	// Faction values sort as Empire, Pirate, Rebel.
	m = keys(m, "n", "tab", " ")
	assert.Equal(t, PaneFilters, m.Focus)
	assert.True(t, m.Session.PendingDirty())
	assert.Equal(t, 2, m.Session.Page(), "toggling does not touch the view")
	assert.Len(t, m.Session.View(), 250)
	assert.Contains(t, m.View(), "63 geckos match")

	m = keys(m, "enter")
	assert.Equal(t, PaneGrid, m.Focus)
	assert.Equal(t, 1, m.Session.Page())
	assert.Len(t, m.Session.View(), 63)

	m = keys(m, "tab", "c")
	assert.Len(t, m.Session.View(), 250)
	assert.Equal(t, 0, m.Session.ActiveFilterCount())
}

func TestFilterEscDiscards(t *testing.T) {
	m := ready(t, 20)
	m = keys(m, "tab", "down", " ", "esc")
	assert.Equal(t, PaneGrid, m.Focus)
	assert.False(t, m.Session.PendingDirty())
	assert.Len(t, m.Session.View(), 20)
}

func TestFavorites(t *testing.T) {
	m := ready(t, 20)

	m = keys(m, "right", "f")
	assert.True(t, m.Session.IsFavorite(2))
	assert.Contains(t, m.Notice, "added")

	m = keys(m, "tab", "tab")
	assert.Equal(t, PaneFavorites, m.Focus)
	assert.Contains(t, m.View(), "Galactic Gecko #2")

	m = keys(m, "f")
	assert.False(t, m.Session.IsFavorite(2))
	assert.Equal(t, 0, m.FavIdx)
}

func TestColumns(t *testing.T) {
	m := ready(t, 20)
	start := m.Session.Columns()

	m = keys(m, "+")
	assert.Equal(t, start+1, m.Session.Columns())

	for range 20 {
		m = keys(m, "+")
	}
	assert.Equal(t, 10, m.Session.Columns())
	assert.NotEmpty(t, m.Notice)
}

func TestHelp(t *testing.T) {
	m := ready(t, 3)
	m = keys(m, "?")
	assert.True(t, m.ShowHelp)
	assert.NotEmpty(t, m.HelpContent)

	m = keys(m, "?")
	assert.False(t, m.ShowHelp)
}

func TestHelpScrollStopsAtEnd(t *testing.T) {
	m := ready(t, 3)
	m = send(m, tea.WindowSizeMsg{Width: 160, Height: 12})
	m = keys(m, "?")
	limit := m.maxHelpScroll()
	require.Positive(t, limit, "help must be taller than the dialog")

	for range limit + 20 {
		m = keys(m, "j")
	}
	assert.Equal(t, limit, m.HelpScrollY)

	m = keys(m, "k")
	assert.Equal(t, limit-1, m.HelpScrollY, "one step up moves the text right away")
}

func TestSummaryAfterNoopApply(t *testing.T) {
	s := newSession(t, 3)
	require.NoError(t, s.ToggleFilter(model.Faction, "Pirate"))
	require.NoError(t, s.ToggleFilter(model.Faction, "Pirate"))
	s.ApplyFilters()

	m := InitialModel(nil, zerolog.Nop())
	m = send(m, MsgSessionReady{Session: s})
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.True(t, strings.Contains(m.View(), "3 of 3"))
}
