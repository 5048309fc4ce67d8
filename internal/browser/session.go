// Package browser ties the catalog, trait index, filters, pagination and
// favorites into one browsing session. Front ends drive a Session through its
// methods and render the Snapshot it returns; they never reach into its state.
//
// A Session is not safe for concurrent use. Every operation runs to
// completion; callers that serve several goroutines must serialize access.
package browser

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"geckobrowser/internal/catalog"
	"geckobrowser/internal/favorites"
	"geckobrowser/internal/filter"
	"geckobrowser/internal/model"
	"geckobrowser/internal/paging"
	"geckobrowser/internal/prefs"
	"geckobrowser/internal/storage"
	"geckobrowser/internal/traits"
)

// ErrUnknownValue is returned when toggling a trait value the catalog does
// not contain.
var ErrUnknownValue = errors.New("unknown trait value")

// Options configures a Session.
type Options struct {
	PageSize        int           // Defaults to paging.DefaultSize
	Store           storage.Store // Defaults to an in-memory store
	Logger          zerolog.Logger
	RestoreLastPage bool // Start on the page persisted by the previous session
}

// Session is the state of one browsing session.
type Session struct {
	catalog   *catalog.Catalog
	index     *traits.Index
	favorites *favorites.Favorites
	prefs     *prefs.Prefs
	log       zerolog.Logger

	applied *filter.State // drives the view
	pending *filter.State // what the filter panel shows, committed by ApplyFilters

	view     []model.Item
	filtered bool
	page     int
	pageSize int
}

// New starts a session over a fully loaded catalog.
func New(c *catalog.Catalog, opts Options) *Session {
	if opts.PageSize <= 0 {
		opts.PageSize = paging.DefaultSize
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemory()
	}

	s := &Session{
		catalog:   c,
		index:     traits.Build(c.Items()),
		favorites: favorites.Load(opts.Store, opts.Logger),
		prefs:     prefs.Load(opts.Store, opts.Logger),
		log:       opts.Logger,
		applied:   filter.New(),
		pending:   filter.New(),
		pageSize:  opts.PageSize,
		page:      1,
	}
	s.recomputeView()

	if opts.RestoreLastPage {
		s.page = paging.Clamp(s.prefs.LastPage(), s.TotalPages())
	}
	s.log.Debug().
		Int("items", c.Len()).
		Int("pages", s.TotalPages()).
		Int("page", s.page).
		Int("favorites", s.favorites.Count()).
		Msg("session started")
	return s
}

// ActiveView returns the filtered subsequence and true when state has any
// selection, otherwise the whole catalog and false.
func ActiveView(items []model.Item, state *filter.State) ([]model.Item, bool) {
	if state == nil || !state.IsActive() {
		return items, false
	}
	return state.Apply(items), true
}

func (s *Session) recomputeView() {
	s.view, s.filtered = ActiveView(s.catalog.Items(), s.applied)
}

// Catalog returns the underlying catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Index returns the trait index.
func (s *Session) Index() *traits.Index { return s.index }

// View returns the active item sequence. Callers must not modify it.
func (s *Session) View() []model.Item { return s.view }

// IsFiltered reports whether the view is the filtered subset.
func (s *Session) IsFiltered() bool { return s.filtered }

// Page returns the current 1-based page.
func (s *Session) Page() int { return s.page }

// PageSize returns the number of items per page.
func (s *Session) PageSize() int { return s.pageSize }

// TotalPages returns the page count of the active view, at least 1.
func (s *Session) TotalPages() int {
	return paging.TotalPages(len(s.view), s.pageSize)
}

// PageItems returns the items on the current page.
func (s *Session) PageItems() []model.Item {
	return paging.Slice(s.view, s.page, s.pageSize)
}

// ToggleFilter flips value for c in the pending selection. The view is not
// recomputed until ApplyFilters.
func (s *Session) ToggleFilter(c model.Category, value string) error {
	if !c.Valid() {
		return fmt.Errorf("%w: category %d", ErrUnknownValue, c)
	}
	if !s.index.Has(c, value) {
		return fmt.Errorf("%w: %s=%q", ErrUnknownValue, c, value)
	}
	s.pending.Toggle(c, value)
	return nil
}

// PendingCount is the number of items the pending selection would show.
func (s *Session) PendingCount() int {
	return s.pending.Count(s.catalog.Items())
}

// PendingDirty reports whether the pending selection differs from the
// applied one.
func (s *Session) PendingDirty() bool {
	return !s.pending.Equal(s.applied)
}

// ActiveFilterCount is the number of applied filter values.
func (s *Session) ActiveFilterCount() int {
	return s.applied.ActiveCount()
}

// IsSelected reports whether value is checked in the pending selection.
func (s *Session) IsSelected(c model.Category, value string) bool {
	return s.pending.IsSelected(c, value)
}

// ApplyFilters commits the pending selection, recomputes the view and goes
// back to page 1.
func (s *Session) ApplyFilters() {
	s.applied = s.pending.Clone()
	s.recomputeView()
	s.setPage(1)
	s.log.Debug().
		Int("filters", s.applied.ActiveCount()).
		Int("matches", len(s.view)).
		Msg("filters applied")
}

// ClearFilters drops every selection, pending and applied, and shows the
// whole catalog from page 1.
func (s *Session) ClearFilters() {
	s.pending.Clear()
	s.applied.Clear()
	s.recomputeView()
	s.setPage(1)
	s.log.Debug().Msg("filters cleared")
}

// DiscardPending resets the pending selection to the applied one.
func (s *Session) DiscardPending() {
	s.pending = s.applied.Clone()
}

// GoToPage moves to a user-requested page. Pages outside the view are
// rejected with paging.ErrInvalidPage and the current page is kept.
func (s *Session) GoToPage(page int) error {
	if err := paging.Validate(page, s.TotalPages()); err != nil {
		return err
	}
	s.setPage(page)
	return nil
}

// NextPage advances one page; it does nothing on the last page.
func (s *Session) NextPage() bool {
	if s.page >= s.TotalPages() {
		return false
	}
	s.setPage(s.page + 1)
	return true
}

// PrevPage goes back one page; it does nothing on the first page.
func (s *Session) PrevPage() bool {
	if s.page <= 1 {
		return false
	}
	s.setPage(s.page - 1)
	return true
}

func (s *Session) setPage(page int) {
	s.page = paging.Clamp(page, s.TotalPages())
	if err := s.prefs.SetLastPage(s.page); err != nil {
		s.log.Warn().Err(err).Int("page", s.page).Msg("failed to persist last page")
	}
}

// Item returns one gecko for the detail view.
func (s *Session) Item(id int) (model.Item, error) {
	return s.catalog.ByID(id)
}

// ToggleFavorite flips the favorite state of id and returns the new state.
func (s *Session) ToggleFavorite(id int) (bool, error) {
	if !s.catalog.Contains(id) {
		return false, fmt.Errorf("%w: id %d", catalog.ErrNotFound, id)
	}
	return s.favorites.Toggle(id)
}

// IsFavorite reports whether id is a favorite.
func (s *Session) IsFavorite(id int) bool {
	return s.favorites.Contains(id)
}

// Favorites returns the favorite geckos in catalog order.
func (s *Session) Favorites() []Card {
	return s.cards(s.favorites.Items(s.catalog))
}

// FavoriteCount returns the number of favorites.
func (s *Session) FavoriteCount() int {
	return s.favorites.Count()
}

// Columns returns the grid column preference.
func (s *Session) Columns() int { return s.prefs.Columns() }

// SetColumns validates and persists the grid column preference.
func (s *Session) SetColumns(n int) error {
	return s.prefs.SetColumns(n)
}
