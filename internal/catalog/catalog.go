// Package catalog holds the immutable list of geckos loaded from the data file.
package catalog

import (
	"errors"
	"fmt"

	"geckobrowser/internal/model"
)

var (
	// ErrLoad indicates the data file could not be read or fetched.
	ErrLoad = errors.New("catalog load failed")

	// ErrParse indicates the document was read but lacks the expected shape.
	ErrParse = errors.New("catalog parse failed")

	// ErrNotFound indicates no item has the requested id.
	ErrNotFound = errors.New("item not found")

	// ErrOutOfRange indicates a position outside the catalog.
	ErrOutOfRange = errors.New("position out of range")
)

// Catalog is the loaded, read-only item list.
type Catalog struct {
	items []model.Item
	byID  map[int]int // id -> position
}

// New builds a catalog from already-decoded items. Duplicate ids are a parse
// error since every lookup relies on them being unique.
func New(items []model.Item) (*Catalog, error) {
	c := &Catalog{
		items: items,
		byID:  make(map[int]int, len(items)),
	}
	for i, it := range items {
		if prev, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d at positions %d and %d", ErrParse, it.ID, prev, i)
		}
		c.byID[it.ID] = i
	}
	return c, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns all items in catalog order. Callers must not modify the slice.
func (c *Catalog) Items() []model.Item {
	if c == nil {
		return nil
	}
	return c.items
}

// ByID looks an item up by its identifier.
func (c *Catalog) ByID(id int) (model.Item, error) {
	if c != nil {
		if i, ok := c.byID[id]; ok {
			return c.items[i], nil
		}
	}
	return model.Item{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// At returns the item at a zero-based position.
func (c *Catalog) At(index int) (model.Item, error) {
	if index < 0 || index >= c.Len() {
		return model.Item{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, c.Len())
	}
	return c.items[index], nil
}

// Contains reports whether id is in the catalog.
func (c *Catalog) Contains(id int) bool {
	if c == nil {
		return false
	}
	_, ok := c.byID[id]
	return ok
}
