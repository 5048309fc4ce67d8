package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"geckobrowser/internal/browser"
	"geckobrowser/internal/model"
	"geckobrowser/internal/paging"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("204"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	currentPageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("81")) // Sky Blue/Cyan

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Loading geckos... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press q to quit.\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	width := max(m.WindowSize.Width, 40)
	height := max(m.WindowSize.Height, 12)

	// Borders take 2 columns per panel plus a small buffer.
	netWidth := width - 6
	leftWidth := netWidth * 2 / 3
	rightWidth := netWidth - leftWidth
	boxHeight := max(height-5, 6)
	interiorHeight := boxHeight - 2

	s := m.Session

	header := titleStyle.Render("Galactic Geckos") + "  " + dimStyle.Render(m.summary())

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.panelColor(PaneGrid)).
		Render(m.renderGrid(leftWidth, interiorHeight))

	var rightContent string
	switch m.Focus {
	case PaneFilters:
		rightContent = m.renderFilters(rightWidth, interiorHeight)
	case PaneFavorites:
		rightContent = m.renderFavorites(rightWidth, interiorHeight)
	default:
		rightContent = headingStyle.Render("Details") + "\n\n" + m.DetailsViewport.View()
	}
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.panelColor(m.Focus)).
		Render(rightContent)

	pager := renderPager(s.Page(), s.TotalPages())

	help := "↑/↓/←/→: Move • n/p: Page • g: Go to page • f: Favorite • +/-: Columns • Tab: Filters/Favorites • ?: Help • q: Quit"
	switch m.Focus {
	case PaneFilters:
		help = "Filters: ←/→: Category • ↑/↓: Value • Space: Toggle • Enter: Apply • c: Clear • Esc: Discard • Tab: Next Panel"
	case PaneFavorites:
		help = "Favorites: ↑/↓: Select • f: Remove • Esc: Back • Tab: Next Panel"
	}
	footer := pager
	if m.Notice != "" {
		footer += "  " + noticeStyle.Render(m.Notice)
	}
	if m.InputMode {
		footer += fmt.Sprintf("\nGo to page (1-%d): %s", s.TotalPages(), m.InputBuffer.View())
	} else {
		footer += "\n" + dimStyle.Render(help)
	}

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + footer
}

func (m AppModel) panelColor(p Pane) lipgloss.Color {
	if m.Focus == p {
		return activeColor
	}
	return borderColor
}

func (m AppModel) summary() string {
	s := m.Session
	first, last := paging.Range(s.Page(), s.PageSize(), len(s.View()))
	text := fmt.Sprintf("%d-%d of %d", first, last, len(s.View()))
	if s.IsFiltered() {
		text += fmt.Sprintf(" (filtered from %d, %d active)", s.Catalog().Len(), s.ActiveFilterCount())
	}
	text += fmt.Sprintf(" • %s %d", model.IconFavorite, s.FavoriteCount())
	return text
}

// renderGrid lays the current page out in rows of Columns() cards, keeping
// the selected row in view.
func (m AppModel) renderGrid(width, height int) string {
	items := m.Session.PageItems()
	if len(items) == 0 {
		msg := "No geckos on this page."
		if m.Session.IsFiltered() {
			msg = "No geckos match the applied filters. Press Tab to adjust them."
		}
		return dimStyle.Render(msg)
	}

	cols := m.Session.Columns()
	cardWidth := max(width/cols-1, 6)

	// Each card is two lines tall plus a spacer.
	visibleRows := max(height/3, 1)
	rows := (len(items) + cols - 1) / cols
	selRow := m.SelectedIdx / cols
	startRow := 0
	if rows > visibleRows && selRow >= visibleRows/2 {
		startRow = min(selRow-visibleRows/2, rows-visibleRows)
	}
	endRow := min(startRow+visibleRows, rows)

	var b strings.Builder
	for r := startRow; r < endRow; r++ {
		var cards []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(items) {
				break
			}
			cards = append(cards, m.renderCard(items[i], cardWidth, i == m.SelectedIdx && m.Focus == PaneGrid))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteString("\n\n")
	}
	return strings.TrimSuffix(b.String(), "\n\n")
}

func (m AppModel) renderCard(it model.Item, width int, selected bool) string {
	fav := dimStyle.Render(model.IconNotFavorite)
	if m.Session.IsFavorite(it.ID) {
		fav = favoriteStyle.Render(model.IconFavorite)
	}

	label := it.Name
	if it.Number > 0 {
		label = fmt.Sprintf("%s%d", model.IconRank, it.Number)
	}
	top := truncate(label, width-2)
	bottom := truncate(strings.Join(it.Badges(), " "), width)

	style := cardStyle
	if selected {
		style = selectedStyle
	}
	return lipgloss.NewStyle().Width(width + 1).Render(
		style.Render(top) + " " + fav + "\n" + dimStyle.Render(bottom),
	)
}

func (m AppModel) renderFilters(width, height int) string {
	s := m.Session
	groups := s.FilterGroups()

	var b strings.Builder
	b.WriteString(headingStyle.Render("Filters"))
	b.WriteString("\n")

	var tabs []string
	for i, g := range groups {
		name := g.Name
		if g.Selected > 0 {
			name += fmt.Sprintf("(%d)", g.Selected)
		}
		if i == m.FilterCat {
			tabs = append(tabs, selectedStyle.Render(name))
		} else {
			tabs = append(tabs, dimStyle.Render(name))
		}
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(strings.Join(tabs, " ")))
	b.WriteString("\n\n")

	options := groups[m.FilterCat].Options
	visible := max(height-8, 1)
	start := 0
	if len(options) > visible && m.FilterIdx >= visible/2 {
		start = min(m.FilterIdx-visible/2, len(options)-visible)
	}
	end := min(start+visible, len(options))

	for i := start; i < end; i++ {
		o := options[i]
		box := model.IconUnchecked
		if o.Selected {
			box = model.IconChecked
		}
		line := truncate(fmt.Sprintf("%s %s (%d)", box, o.Value, o.Count), width-2)
		if o.Applied {
			line += "*"
		}
		if i == m.FilterIdx {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(cardStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("%d geckos match", s.PendingCount())
	if s.PendingDirty() {
		b.WriteString(noticeStyle.Render(status + ", press Enter to apply"))
	} else {
		b.WriteString(dimStyle.Render(status))
	}
	return b.String()
}

func (m AppModel) renderFavorites(width, height int) string {
	favs := m.Session.Favorites()

	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Favorites (%d)", len(favs))))
	b.WriteString("\n\n")
	if len(favs) == 0 {
		b.WriteString(dimStyle.Render("No favorites yet. Press f on a gecko to add it."))
		return b.String()
	}

	visible := max(height-3, 1)
	start := 0
	if len(favs) > visible && m.FavIdx >= visible/2 {
		start = min(m.FavIdx-visible/2, len(favs)-visible)
	}
	end := min(start+visible, len(favs))

	for i := start; i < end; i++ {
		line := truncate(fmt.Sprintf("%s %s", model.IconFavorite, favs[i].Name), width-2)
		if i == m.FavIdx {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(cardStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderDetails(card browser.Card, width int) string {
	width = max(width, 20)
	it := card.Item

	var b strings.Builder
	title := it.Name
	if card.Favorite {
		title += " " + favoriteStyle.Render(model.IconFavorite)
	}
	b.WriteString(cardStyle.Bold(true).Render(title))
	b.WriteString("\n")
	if it.Rank > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Rank %s%d • id %d", model.IconRank, it.Rank, it.ID)))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("id %d", it.ID)))
	}
	b.WriteString("\n\n")

	for _, t := range it.Attributes {
		line := fmt.Sprintf("%-8s %s", t.Category.String()+":", t.Value)
		if t.Rarity != nil {
			line += dimStyle.Render(fmt.Sprintf(" (%.1f%%)", *t.Rarity))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if it.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(it.Description))
		b.WriteString("\n")
	}
	if it.Link != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(it.Link))
	}
	return b.String()
}

func renderPager(current, total int) string {
	var parts []string
	if current > 1 {
		parts = append(parts, model.IconPrev)
	} else {
		parts = append(parts, dimStyle.Render(model.IconPrev))
	}
	for _, mk := range paging.Window(current, total) {
		switch {
		case mk.Ellipsis:
			parts = append(parts, dimStyle.Render(model.IconEllipsis))
		case mk.Current:
			parts = append(parts, currentPageStyle.Render(fmt.Sprintf("[%d]", mk.Page)))
		default:
			parts = append(parts, fmt.Sprintf("%d", mk.Page))
		}
	}
	if current < total {
		parts = append(parts, model.IconNext)
	} else {
		parts = append(parts, dimStyle.Render(model.IconNext))
	}
	return strings.Join(parts, " ")
}

// renderHelp renders the guide with glamour, falling back to the raw
// markdown when rendering fails.
func renderHelp(width int) string {
	text := model.HelpText()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func helpHeight(windowHeight int) int {
	return max(windowHeight-6, 5)
}

// maxHelpScroll is the largest useful HelpScrollY: the last screenful of
// help lines.
func (m AppModel) maxHelpScroll() int {
	lines := strings.Count(m.HelpContent, "\n") + 1
	// Border takes two rows.
	contentHeight := helpHeight(m.WindowSize.Height) - 2
	return max(lines-contentHeight, 0)
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := min(max(w*80/100, 40), w-4)
	dialogHeight := helpHeight(h)

	lines := strings.Split(m.HelpContent, "\n")
	contentHeight := dialogHeight - 2

	startY := min(max(m.HelpScrollY, 0), m.maxHelpScroll())
	endY := min(startY+contentHeight, len(lines))
	content := strings.Join(lines[startY:endY], "\n")

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(dialogHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(content)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + model.IconEllipsis
}

func (m AppModel) Init() tea.Cmd {
	return LoadCmd(m.load)
}
