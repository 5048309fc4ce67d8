// Package filter holds per-trait value selections and applies them to items.
//
// Values selected within one category are alternatives (OR); categories are
// combined with AND. A category with nothing selected imposes no constraint.
package filter

import (
	"sort"

	"geckobrowser/internal/model"
)

// State is the set of selected values for each category.
// The zero value has nothing selected.
type State struct {
	selected [model.NumCategories]map[string]struct{}
}

// New returns an empty State.
func New() *State {
	return &State{}
}

// Toggle selects value for c if it is not selected, and deselects it
// otherwise.
func (s *State) Toggle(c model.Category, value string) {
	if !c.Valid() || value == "" {
		return
	}
	set := s.selected[c]
	if _, ok := set[value]; ok {
		delete(set, value)
		return
	}
	if set == nil {
		set = make(map[string]struct{})
		s.selected[c] = set
	}
	set[value] = struct{}{}
}

// Clear deselects everything.
func (s *State) Clear() {
	for c := range s.selected {
		s.selected[c] = nil
	}
}

// IsActive reports whether any category has a selection.
func (s *State) IsActive() bool {
	for _, set := range s.selected {
		if len(set) > 0 {
			return true
		}
	}
	return false
}

// ActiveCount is the total number of selected values across categories.
func (s *State) ActiveCount() int {
	n := 0
	for _, set := range s.selected {
		n += len(set)
	}
	return n
}

// IsSelected reports whether value is selected for c.
func (s *State) IsSelected(c model.Category, value string) bool {
	if !c.Valid() {
		return false
	}
	_, ok := s.selected[c][value]
	return ok
}

// Selected returns the selected values for c in ascending order.
func (s *State) Selected(c model.Category) []string {
	if !c.Valid() || len(s.selected[c]) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.selected[c]))
	for v := range s.selected[c] {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Matches reports whether item satisfies every non-empty category selection.
// An item without the category has value "", which is never selectable.
func (s *State) Matches(item *model.Item) bool {
	for c, set := range s.selected {
		if len(set) == 0 {
			continue
		}
		if _, ok := set[item.Traits.Value(model.Category(c))]; !ok {
			return false
		}
	}
	return true
}

// Apply returns the matching items in their original order. The input is
// not modified.
func (s *State) Apply(items []model.Item) []model.Item {
	out := make([]model.Item, 0, len(items))
	for i := range items {
		if s.Matches(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// Count returns how many items match without building the filtered slice.
func (s *State) Count(items []model.Item) int {
	if !s.IsActive() {
		return len(items)
	}
	n := 0
	for i := range items {
		if s.Matches(&items[i]) {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	out := New()
	for c, set := range s.selected {
		if len(set) == 0 {
			continue
		}
		cp := make(map[string]struct{}, len(set))
		for v := range set {
			cp[v] = struct{}{}
		}
		out.selected[c] = cp
	}
	return out
}

// Equal reports whether both states select exactly the same values.
func (s *State) Equal(o *State) bool {
	for c := range s.selected {
		a, b := s.selected[c], o.selected[c]
		if len(a) != len(b) {
			return false
		}
		for v := range a {
			if _, ok := b[v]; !ok {
				return false
			}
		}
	}
	return true
}
