package browser

import (
	"geckobrowser/internal/model"
	"geckobrowser/internal/paging"
)

// Card is an item decorated for display.
type Card struct {
	model.Item
	Favorite bool `json:"favorite"`
}

// FilterOption is one checkbox in a filter group.
type FilterOption struct {
	Value    string `json:"value"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"` // Checked in the pending selection
	Applied  bool   `json:"applied"`  // Part of the filter driving the view
}

// FilterGroup is the option list for one category.
type FilterGroup struct {
	Category model.Category `json:"-"`
	Name     string         `json:"category"`
	Options  []FilterOption `json:"options"`
	Selected int            `json:"selected"`
}

// Snapshot is everything a front end needs to draw one frame.
type Snapshot struct {
	Items         []Card          `json:"items"`
	Page          int             `json:"page"`
	TotalPages    int             `json:"total_pages"`
	PageSize      int             `json:"page_size"`
	Pages         []paging.Marker `json:"pages"`
	First         int             `json:"first"` // 1-based position of the first item shown, 0 if none
	Last          int             `json:"last"`
	ViewLength    int             `json:"view_length"`
	CatalogLength int             `json:"catalog_length"`
	Filtered      bool            `json:"filtered"`

	ActiveFilters  int           `json:"active_filters"`
	PendingMatches int           `json:"pending_matches"`
	PendingDirty   bool          `json:"pending_dirty"`
	Filters        []FilterGroup `json:"filters"`

	Favorites int `json:"favorites"`
	Columns   int `json:"columns"`
}

func (s *Session) cards(items []model.Item) []Card {
	out := make([]Card, len(items))
	for i, it := range items {
		out[i] = Card{Item: it, Favorite: s.favorites.Contains(it.ID)}
	}
	return out
}

// FilterGroups returns the per-category option lists in display order.
func (s *Session) FilterGroups() []FilterGroup {
	groups := make([]FilterGroup, 0, model.NumCategories)
	for _, c := range model.Categories() {
		values := s.index.SortedValues(c)
		g := FilterGroup{Category: c, Name: c.String(), Options: make([]FilterOption, len(values))}
		for i, vc := range values {
			sel := s.pending.IsSelected(c, vc.Value)
			if sel {
				g.Selected++
			}
			g.Options[i] = FilterOption{
				Value:    vc.Value,
				Count:    vc.Count,
				Selected: sel,
				Applied:  s.applied.IsSelected(c, vc.Value),
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// Snapshot captures the current page and everything around it.
func (s *Session) Snapshot() Snapshot {
	return s.snapshotAt(s.page)
}

// SnapshotPage captures page without moving the session to it, so the
// persisted last page is left alone. Pages outside the view are rejected with
// paging.ErrInvalidPage.
func (s *Session) SnapshotPage(page int) (Snapshot, error) {
	if err := paging.Validate(page, s.TotalPages()); err != nil {
		return Snapshot{}, err
	}
	return s.snapshotAt(page), nil
}

func (s *Session) snapshotAt(page int) Snapshot {
	first, last := paging.Range(page, s.pageSize, len(s.view))
	total := s.TotalPages()
	return Snapshot{
		Items:         s.cards(paging.Slice(s.view, page, s.pageSize)),
		Page:          page,
		TotalPages:    total,
		PageSize:      s.pageSize,
		Pages:         paging.Window(page, total),
		First:         first,
		Last:          last,
		ViewLength:    len(s.view),
		CatalogLength: s.catalog.Len(),
		Filtered:      s.filtered,

		ActiveFilters:  s.applied.ActiveCount(),
		PendingMatches: s.PendingCount(),
		PendingDirty:   s.PendingDirty(),
		Filters:        s.FilterGroups(),

		Favorites: s.favorites.Count(),
		Columns:   s.prefs.Columns(),
	}
}
