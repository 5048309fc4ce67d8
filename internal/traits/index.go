// Package traits counts trait values across the catalog for the filter UI.
package traits

import (
	"sort"

	"geckobrowser/internal/model"
)

// ValueCount is one filter option: a trait value and how many items carry it.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Index maps each category to value -> count. It is read-only once built.
type Index struct {
	counts [model.NumCategories]map[string]int
	sorted [model.NumCategories][]ValueCount
}

// Build counts every trait value in items. Items without a category are not
// counted for it.
func Build(items []model.Item) *Index {
	idx := &Index{}
	for c := range idx.counts {
		idx.counts[c] = make(map[string]int)
	}
	for i := range items {
		for _, c := range model.Categories() {
			if v := items[i].Traits.Value(c); v != "" {
				idx.counts[c][v]++
			}
		}
	}
	for _, c := range model.Categories() {
		idx.sorted[c] = sortValues(idx.counts[c])
	}
	return idx
}

// sortValues orders values byte-wise ascending with NoneValue pinned last.
func sortValues(m map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(m))
	for v, n := range m {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Value, out[j].Value
		if a == model.NoneValue {
			return false
		}
		if b == model.NoneValue {
			return true
		}
		return a < b
	})
	return out
}

// SortedValues returns the (value, count) options for c. The returned slice
// is shared; callers must not modify it.
func (idx *Index) SortedValues(c model.Category) []ValueCount {
	if idx == nil || !c.Valid() {
		return nil
	}
	return idx.sorted[c]
}

// Count returns how many items carry value for c.
func (idx *Index) Count(c model.Category, value string) int {
	if idx == nil || !c.Valid() {
		return 0
	}
	return idx.counts[c][value]
}

// Has reports whether value was observed for c.
func (idx *Index) Has(c model.Category, value string) bool {
	return idx.Count(c, value) > 0
}

// Total returns the number of items that carry any value for c.
func (idx *Index) Total(c model.Category) int {
	n := 0
	for _, vc := range idx.SortedValues(c) {
		n += vc.Count
	}
	return n
}
