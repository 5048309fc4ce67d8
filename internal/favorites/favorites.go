// Package favorites keeps the user's persisted set of favorite geckos.
package favorites

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"geckobrowser/internal/catalog"
	"geckobrowser/internal/model"
	"geckobrowser/internal/storage"
)

// Favorites is a set of item ids mirrored to a storage.Store on every change.
type Favorites struct {
	store storage.Store
	log   zerolog.Logger
	ids   map[int]struct{}
}

// Load reads the persisted set. A missing, unreadable or corrupt value yields
// an empty set; the problem is logged and never returned.
func Load(store storage.Store, log zerolog.Logger) *Favorites {
	f := &Favorites{store: store, log: log, ids: make(map[int]struct{})}

	raw, ok, err := store.Get(storage.KeyFavorites)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("could not read favorites, starting empty")
		return f
	case !ok || raw == "":
		return f
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Warn().Err(err).Msg("could not parse favorites, starting empty")
		return f
	}
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	log.Debug().Int("count", len(f.ids)).Msg("favorites loaded")
	return f
}

// Toggle flips membership of id and persists the whole set. The returned bool
// is the new membership. When persisting fails the in-memory change stands
// and the write error is returned.
func (f *Favorites) Toggle(id int) (bool, error) {
	_, had := f.ids[id]
	if had {
		delete(f.ids, id)
	} else {
		f.ids[id] = struct{}{}
	}
	if err := f.save(); err != nil {
		f.log.Error().Err(err).Int("id", id).Msg("failed to persist favorites")
		return !had, err
	}
	return !had, nil
}

func (f *Favorites) save() error {
	data, err := json.Marshal(f.All())
	if err != nil {
		return fmt.Errorf("failed to marshal favorites: %w", err)
	}
	return f.store.Set(storage.KeyFavorites, string(data))
}

// Contains reports whether id is a favorite.
func (f *Favorites) Contains(id int) bool {
	_, ok := f.ids[id]
	return ok
}

// All returns every favorite id in ascending order.
func (f *Favorites) All() []int {
	out := make([]int, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Count returns the number of favorites.
func (f *Favorites) Count() int {
	return len(f.ids)
}

// Items returns the favorite items in catalog order. Ids that are not in the
// catalog are skipped.
func (f *Favorites) Items(c *catalog.Catalog) []model.Item {
	var out []model.Item
	for _, it := range c.Items() {
		if f.Contains(it.ID) {
			out = append(out, it)
		}
	}
	return out
}
