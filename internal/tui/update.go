package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"geckobrowser/internal/browser"
	"geckobrowser/internal/model"
	"geckobrowser/internal/paging"
)

// MsgSessionReady indicates that the catalog is loaded.
type MsgSessionReady struct{ Session *browser.Session }

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 3
		m.DetailsViewport.Height = msg.Height - 8
		m.HelpContent = renderHelp(msg.Width*80/100 - 4)
		m.HelpScrollY = min(m.HelpScrollY, m.maxHelpScroll())
		m.refreshDetails()
		return m, nil

	case MsgSessionReady:
		m.Loading = false
		m.Session = msg.Session
		m.SelectedIdx = 0
		m.refreshDetails()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Session == nil {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.jumpToPage(m.InputBuffer.Value())
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		if m.ShowHelp {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?", "esc":
				m.ShowHelp = false
			case "up", "k":
				if m.HelpScrollY > 0 {
					m.HelpScrollY--
				}
			case "down", "j":
				if m.HelpScrollY < m.maxHelpScroll() {
					m.HelpScrollY++
				}
			}
			return m, nil
		}

		m.Notice = ""

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.ShowHelp = true
			m.HelpScrollY = 0
			if m.HelpContent == "" {
				m.HelpContent = renderHelp(76)
			}
			return m, nil
		case "tab":
			m.Focus = (m.Focus + 1) % 3
			return m, nil
		case "shift+tab":
			m.Focus = (m.Focus + 2) % 3
			return m, nil
		case "g":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		case "n", "pgdown":
			if m.Session.NextPage() {
				m.SelectedIdx = 0
			}
		case "p", "pgup":
			if m.Session.PrevPage() {
				m.SelectedIdx = 0
			}
		case "+", "=":
			m.setColumns(m.Session.Columns() + 1)
		case "-", "_":
			m.setColumns(m.Session.Columns() - 1)
		default:
			switch m.Focus {
			case PaneGrid:
				m.updateGrid(msg.String())
			case PaneFilters:
				m.updateFilters(msg.String())
			case PaneFavorites:
				m.updateFavorites(msg.String())
			}
		}
		m.refreshDetails()
	}

	return m, cmd
}

func (m *AppModel) updateGrid(key string) {
	n := len(m.Session.PageItems())
	cols := m.Session.Columns()

	switch key {
	case "left", "h":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
		}
	case "right", "l":
		if m.SelectedIdx < n-1 {
			m.SelectedIdx++
		}
	case "up", "k":
		if m.SelectedIdx-cols >= 0 {
			m.SelectedIdx -= cols
		}
	case "down", "j":
		if m.SelectedIdx+cols < n {
			m.SelectedIdx += cols
		}
	case "home":
		m.SelectedIdx = 0
	case "end":
		m.SelectedIdx = max(n-1, 0)
	case "f", " ":
		if item, ok := m.selectedItem(); ok {
			m.toggleFavorite(item.ID)
		}
	}
}

func (m *AppModel) updateFilters(key string) {
	groups := m.Session.FilterGroups()
	values := groups[m.FilterCat].Options

	switch key {
	case "left", "h":
		if m.FilterCat > 0 {
			m.FilterCat--
			m.FilterIdx = 0
		}
	case "right", "l":
		if m.FilterCat < len(groups)-1 {
			m.FilterCat++
			m.FilterIdx = 0
		}
	case "up", "k":
		if m.FilterIdx > 0 {
			m.FilterIdx--
		}
	case "down", "j":
		if m.FilterIdx < len(values)-1 {
			m.FilterIdx++
		}
	case " ", "x":
		if m.FilterIdx < len(values) {
			c := groups[m.FilterCat].Category
			if err := m.Session.ToggleFilter(c, values[m.FilterIdx].Value); err != nil {
				m.Notice = err.Error()
			}
		}
	case "enter":
		m.Session.ApplyFilters()
		m.SelectedIdx = 0
		m.Notice = fmt.Sprintf("%d geckos match", len(m.Session.View()))
		m.Focus = PaneGrid
	case "c":
		m.Session.ClearFilters()
		m.SelectedIdx = 0
		m.Notice = "Filters cleared"
	case "esc":
		m.Session.DiscardPending()
		m.Focus = PaneGrid
	}
}

func (m *AppModel) updateFavorites(key string) {
	favs := m.Session.Favorites()

	switch key {
	case "up", "k":
		if m.FavIdx > 0 {
			m.FavIdx--
		}
	case "down", "j":
		if m.FavIdx < len(favs)-1 {
			m.FavIdx++
		}
	case "f", " ", "delete":
		if m.FavIdx < len(favs) {
			m.toggleFavorite(favs[m.FavIdx].ID)
		}
		if m.FavIdx >= m.Session.FavoriteCount() {
			m.FavIdx = max(m.Session.FavoriteCount()-1, 0)
		}
	case "esc":
		m.Focus = PaneGrid
	}
}

func (m *AppModel) toggleFavorite(id int) {
	fav, err := m.Session.ToggleFavorite(id)
	if err != nil {
		m.log.Warn().Err(err).Int("id", id).Msg("favorite not saved")
		m.Notice = "Favorite changed but could not be saved"
		return
	}
	if fav {
		m.Notice = fmt.Sprintf("%s added to favorites", model.IconFavorite)
	} else {
		m.Notice = fmt.Sprintf("%s removed from favorites", model.IconNotFavorite)
	}
}

func (m *AppModel) setColumns(n int) {
	if err := m.Session.SetColumns(n); err != nil {
		m.Notice = err.Error()
	}
}

func (m *AppModel) jumpToPage(input string) {
	input = strings.TrimSpace(input)
	m.InputBuffer.SetValue("")
	if input == "" {
		return
	}

	page, err := strconv.Atoi(input)
	if err == nil {
		err = m.Session.GoToPage(page)
	}
	if err != nil {
		m.Notice = fmt.Sprintf("No page %q (1-%d)", input, m.Session.TotalPages())
		if !errors.Is(err, paging.ErrInvalidPage) {
			m.log.Debug().Err(err).Str("input", input).Msg("page jump rejected")
		}
		return
	}
	m.SelectedIdx = 0
}

// selectedItem returns the item under the cursor of the focused pane.
func (m *AppModel) selectedItem() (browser.Card, bool) {
	if m.Focus == PaneFavorites {
		favs := m.Session.Favorites()
		if m.FavIdx < len(favs) {
			return favs[m.FavIdx], true
		}
		return browser.Card{}, false
	}
	items := m.Session.PageItems()
	if m.SelectedIdx < len(items) {
		it := items[m.SelectedIdx]
		return browser.Card{Item: it, Favorite: m.Session.IsFavorite(it.ID)}, true
	}
	return browser.Card{}, false
}

func (m *AppModel) refreshDetails() {
	if m.Session == nil {
		return
	}
	if n := len(m.Session.PageItems()); m.SelectedIdx >= n {
		m.SelectedIdx = max(n-1, 0)
	}
	card, ok := m.selectedItem()
	if !ok {
		m.DetailsViewport.SetContent(dimStyle.Render("Nothing selected"))
		return
	}
	m.DetailsViewport.SetContent(renderDetails(card, m.DetailsViewport.Width))
	m.DetailsViewport.GotoTop()
}

// LoadCmd runs the loader in background.
func LoadCmd(load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		s, err := load(context.Background())
		if err != nil {
			return MsgError(err)
		}
		return MsgSessionReady{Session: s}
	}
}
