package browser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"geckobrowser/internal/model"
)

// Report renders a plain-text summary of the catalog: trait value counts per
// category, the applied filters and the favorites.
func (s *Session) Report() string {
	var b strings.Builder
	total := s.catalog.Len()

	b.WriteString("Galactic Gecko Catalog Report\n")
	b.WriteString("=============================\n\n")
	fmt.Fprintf(&b, "Geckos:     %d\n", total)
	fmt.Fprintf(&b, "Pages:      %d (%d per page)\n", s.TotalPages(), s.pageSize)
	if s.filtered {
		fmt.Fprintf(&b, "Filtered:   %d match %d active filter(s)\n", len(s.view), s.applied.ActiveCount())
	}
	fmt.Fprintf(&b, "Favorites:  %d\n", s.favorites.Count())

	for _, c := range model.Categories() {
		values := s.index.SortedValues(c)
		fmt.Fprintf(&b, "\n%s (%d values, %d geckos)\n", c, len(values), s.index.Total(c))
		for _, vc := range values {
			pct := 0.0
			if total > 0 {
				pct = float64(vc.Count) * 100 / float64(total)
			}
			mark := " "
			if s.applied.IsSelected(c, vc.Value) {
				mark = "*"
			}
			fmt.Fprintf(&b, "  %s %-24s %6d  %5.1f%%\n", mark, vc.Value, vc.Count, pct)
		}
	}

	if favs := s.Favorites(); len(favs) > 0 {
		b.WriteString("\nFavorites\n")
		for _, f := range favs {
			fmt.Fprintf(&b, "  %s %s\n", model.IconFavorite, f.Name)
		}
	}
	return b.String()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML with the same field names and order as its
// JSON form.
func WriteYAML(w io.Writer, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	// Decoding into a node keeps the key order of the JSON document.
	var node yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &node); err != nil {
		return fmt.Errorf("convert to yaml: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}
