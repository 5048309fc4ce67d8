package browser

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geckobrowser/internal/catalog"
	"geckobrowser/internal/model"
	"geckobrowser/internal/paging"
	"geckobrowser/internal/storage"
)

var (
	factions = []string{"Rebel", "Empire", "Pirate", "Rebel"}
	eyes     = []string{"Laser", "Angry", model.NoneValue}
)

// buildCatalog makes n geckos with ids 1..n. Every fifth gecko has no helmet.
func buildCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()
	items := make([]model.Item, n)
	for i := range items {
		it := model.Item{ID: i + 1, Name: fmt.Sprintf("Galactic Gecko #%d", i+1), Number: i + 1, Rank: n - i}
		it.Traits[model.Faction] = model.Trait{Category: model.Faction, Name: "Faction", Value: factions[i%len(factions)]}
		it.Traits[model.Eyes] = model.Trait{Category: model.Eyes, Name: "Eyes", Value: eyes[i%len(eyes)]}
		if i%5 != 0 {
			it.Traits[model.Helmet] = model.Trait{Category: model.Helmet, Name: "Helmet", Value: "Visor"}
		}
		items[i] = it
	}
	c, err := catalog.New(items)
	require.NoError(t, err)
	return c
}

func newSession(t *testing.T, n int, store storage.Store) *Session {
	t.Helper()
	return New(buildCatalog(t, n), Options{Store: store, Logger: zerolog.Nop()})
}

func TestUnfilteredSession(t *testing.T) {
	s := newSession(t, 250, nil)

	assert.False(t, s.IsFiltered())
	assert.Equal(t, 3, s.TotalPages())
	assert.Equal(t, 1, s.Page())
	assert.Len(t, s.PageItems(), 100)

	require.NoError(t, s.GoToPage(3))
	assert.Len(t, s.PageItems(), 50)
	assert.Equal(t, 201, s.PageItems()[0].ID)

	err := s.GoToPage(4)
	assert.ErrorIs(t, err, paging.ErrInvalidPage)
	assert.Equal(t, 3, s.Page(), "rejected page leaves current page alone")

	assert.ErrorIs(t, s.GoToPage(0), paging.ErrInvalidPage)
}

func TestNextPrev(t *testing.T) {
	s := newSession(t, 250, nil)

	assert.False(t, s.PrevPage())
	assert.True(t, s.NextPage())
	assert.True(t, s.NextPage())
	assert.False(t, s.NextPage())
	assert.Equal(t, 3, s.Page())
	assert.True(t, s.PrevPage())
	assert.Equal(t, 2, s.Page())
}

func TestToggleDoesNotRecomputeView(t *testing.T) {
	s := newSession(t, 250, nil)

	require.NoError(t, s.ToggleFilter(model.Faction, "Empire"))
	assert.False(t, s.IsFiltered(), "toggling only changes the pending selection")
	assert.Len(t, s.View(), 250)
	assert.Equal(t, 63, s.PendingCount())
	assert.True(t, s.PendingDirty())
	assert.Equal(t, 0, s.ActiveFilterCount())

	s.ApplyFilters()
	assert.True(t, s.IsFiltered())
	assert.Len(t, s.View(), 63)
	assert.Equal(t, 1, s.TotalPages())
	assert.False(t, s.PendingDirty())
	assert.Equal(t, 1, s.ActiveFilterCount())
	for _, it := range s.View() {
		assert.Equal(t, "Empire", it.Traits.Value(model.Faction))
	}
}

func TestApplyResetsPage(t *testing.T) {
	s := newSession(t, 1000, nil)
	require.NoError(t, s.GoToPage(5))

	require.NoError(t, s.ToggleFilter(model.Faction, "Rebel"))
	s.ApplyFilters()

	require.GreaterOrEqual(t, s.TotalPages(), 5, "filtered view still has page 5")
	assert.Equal(t, 1, s.Page())
}

func TestClearResetsPageAndSelections(t *testing.T) {
	s := newSession(t, 1000, nil)
	require.NoError(t, s.ToggleFilter(model.Eyes, "Laser"))
	s.ApplyFilters()
	require.NoError(t, s.GoToPage(2))
	require.NoError(t, s.ToggleFilter(model.Faction, "Pirate"))

	s.ClearFilters()
	assert.False(t, s.IsFiltered())
	assert.Equal(t, 1, s.Page())
	assert.Len(t, s.View(), 1000)
	assert.False(t, s.PendingDirty())
	assert.False(t, s.IsSelected(model.Faction, "Pirate"))
}

func TestFilterSemantics(t *testing.T) {
	s := newSession(t, 120, nil)

	count := func(sel map[model.Category][]string) int {
		s.ClearFilters()
		for c, vs := range sel {
			for _, v := range vs {
				require.NoError(t, s.ToggleFilter(c, v))
			}
		}
		s.ApplyFilters()
		return len(s.View())
	}

	rebel := count(map[model.Category][]string{model.Faction: {"Rebel"}})
	empire := count(map[model.Category][]string{model.Faction: {"Empire"}})
	either := count(map[model.Category][]string{model.Faction: {"Rebel", "Empire"}})
	assert.Equal(t, rebel+empire, either)

	rebelLaser := count(map[model.Category][]string{model.Faction: {"Rebel"}, model.Eyes: {"Laser"}})
	assert.Less(t, rebelLaser, rebel)

	noHelmet := count(map[model.Category][]string{model.Helmet: {"Visor"}})
	assert.Equal(t, 96, noHelmet, "geckos without a helmet never match")
}

func TestEmptyFilteredView(t *testing.T) {
	// Gecko 1 is the only rebel and has laser eyes.
	s := newSession(t, 3, nil)
	require.NoError(t, s.ToggleFilter(model.Faction, "Rebel"))
	require.NoError(t, s.ToggleFilter(model.Eyes, "Angry"))
	assert.Equal(t, 0, s.PendingCount())
	s.ApplyFilters()

	assert.True(t, s.IsFiltered())
	assert.Empty(t, s.View())
	assert.Equal(t, 1, s.TotalPages())
	assert.Equal(t, 1, s.Page())
	assert.Empty(t, s.PageItems())
	assert.ErrorIs(t, s.GoToPage(2), paging.ErrInvalidPage)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.First)
	assert.Equal(t, 0, snap.Last)
	assert.Equal(t, []paging.Marker{{Page: 1, Current: true}}, snap.Pages)

	empty := New(buildCatalog(t, 0), Options{Logger: zerolog.Nop()})
	assert.Equal(t, 1, empty.TotalPages())
	assert.Empty(t, empty.PageItems())
}

func TestToggleRejectsUnknownValues(t *testing.T) {
	s := newSession(t, 20, nil)
	assert.ErrorIs(t, s.ToggleFilter(model.Faction, "Nobody"), ErrUnknownValue)
	assert.ErrorIs(t, s.ToggleFilter(model.Armor, "Plate"), ErrUnknownValue)
	assert.ErrorIs(t, s.ToggleFilter(model.Category(12), "Rebel"), ErrUnknownValue)
	assert.False(t, s.PendingDirty())
}

func TestDiscardPending(t *testing.T) {
	s := newSession(t, 20, nil)
	require.NoError(t, s.ToggleFilter(model.Faction, "Rebel"))
	s.ApplyFilters()
	require.NoError(t, s.ToggleFilter(model.Faction, "Empire"))
	require.True(t, s.PendingDirty())

	s.DiscardPending()
	assert.False(t, s.PendingDirty())
	assert.True(t, s.IsSelected(model.Faction, "Rebel"))
	assert.False(t, s.IsSelected(model.Faction, "Empire"))
}

func TestFavorites(t *testing.T) {
	store := storage.NewMemory()
	s := newSession(t, 30, store)

	on, err := s.ToggleFavorite(12)
	require.NoError(t, err)
	assert.True(t, on)
	_, err = s.ToggleFavorite(3)
	require.NoError(t, err)

	_, err = s.ToggleFavorite(999)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	favs := s.Favorites()
	require.Len(t, favs, 2)
	assert.Equal(t, 3, favs[0].ID)
	assert.Equal(t, 12, favs[1].ID)
	assert.True(t, favs[0].Favorite)

	again := newSession(t, 30, store)
	assert.True(t, again.IsFavorite(12))
	assert.Equal(t, 2, again.FavoriteCount())

	snap := again.Snapshot()
	assert.True(t, snap.Items[11].Favorite)
	assert.False(t, snap.Items[10].Favorite)
	assert.Equal(t, 2, snap.Favorites)
}

func TestFavoritesDoNotAffectView(t *testing.T) {
	s := newSession(t, 30, nil)
	_, err := s.ToggleFavorite(1)
	require.NoError(t, err)
	assert.Len(t, s.View(), 30)
}

func TestRestoreLastPage(t *testing.T) {
	store := storage.NewMemory()
	s := newSession(t, 450, store)
	require.NoError(t, s.GoToPage(4))

	restored := New(buildCatalog(t, 450), Options{Store: store, Logger: zerolog.Nop(), RestoreLastPage: true})
	assert.Equal(t, 4, restored.Page())

	smaller := New(buildCatalog(t, 150), Options{Store: store, Logger: zerolog.Nop(), RestoreLastPage: true})
	assert.Equal(t, 2, smaller.Page(), "restored page is clamped to the view")

	fresh := New(buildCatalog(t, 450), Options{Store: store, Logger: zerolog.Nop()})
	assert.Equal(t, 1, fresh.Page())
}

func TestSnapshotPageLeavesSessionAlone(t *testing.T) {
	store := storage.NewMemory()
	s := newSession(t, 250, store)
	require.NoError(t, s.GoToPage(2))

	snap, err := s.SnapshotPage(3)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Page)
	assert.Len(t, snap.Items, 50)
	assert.Equal(t, 201, snap.First)
	assert.Equal(t, 201, snap.Items[0].ID)

	assert.Equal(t, 2, s.Page())
	v, _, err := store.Get(storage.KeyLastPage)
	require.NoError(t, err)
	assert.Equal(t, "2", v, "persisted last page is untouched")

	_, err = s.SnapshotPage(4)
	assert.ErrorIs(t, err, paging.ErrInvalidPage)
}

func TestSnapshot(t *testing.T) {
	s := newSession(t, 250, nil)
	require.NoError(t, s.ToggleFilter(model.Faction, "Rebel"))
	s.ApplyFilters()
	require.NoError(t, s.ToggleFilter(model.Eyes, "Laser"))
	require.NoError(t, s.SetColumns(7))

	snap := s.Snapshot()
	assert.Equal(t, 125, snap.ViewLength)
	assert.Equal(t, 250, snap.CatalogLength)
	assert.True(t, snap.Filtered)
	assert.Equal(t, 2, snap.TotalPages)
	assert.Equal(t, 1, snap.First)
	assert.Equal(t, 100, snap.Last)
	assert.Len(t, snap.Items, 100)
	assert.Equal(t, 1, snap.ActiveFilters)
	assert.True(t, snap.PendingDirty)
	assert.Less(t, snap.PendingMatches, 125)
	assert.Equal(t, 7, snap.Columns)

	require.Len(t, snap.Filters, model.NumCategories)
	faction := snap.Filters[model.Faction]
	assert.Equal(t, "Faction", faction.Name)
	assert.Equal(t, []FilterOption{
		{Value: "Empire", Count: 63},
		{Value: "Pirate", Count: 62},
		{Value: "Rebel", Count: 125, Selected: true, Applied: true},
	}, faction.Options)

	eyesGroup := snap.Filters[model.Eyes]
	assert.Equal(t, model.NoneValue, eyesGroup.Options[len(eyesGroup.Options)-1].Value)
	assert.Equal(t, 1, eyesGroup.Selected)

	assert.Empty(t, snap.Filters[model.Armor].Options)
}

func TestActiveView(t *testing.T) {
	c := buildCatalog(t, 10)
	items, filtered := ActiveView(c.Items(), nil)
	assert.False(t, filtered)
	assert.Len(t, items, 10)
}
