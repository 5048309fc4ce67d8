package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"geckobrowser/internal/model"
)

// document mirrors the data file: {"result":{"data":{"items":[...]}}}.
type document struct {
	Result *struct {
		Data *struct {
			Items *[]rawItem `json:"items"`
		} `json:"data"`
	} `json:"result"`
}

type rawItem struct {
	ID          flexInt    `json:"id"`
	Name        string     `json:"name"`
	Rank        flexInt    `json:"rank"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Attributes  []rawTrait `json:"attributes"`
}

type rawTrait struct {
	Name   string     `json:"name"`
	Value  flexString `json:"value"`
	Rarity *flexFloat `json:"rarity"`
}

// flexInt accepts 42 or "42"; ids are normalized to int once here.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// flexFloat accepts 12.5 or "12.5".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexString accepts strings, numbers and booleans as trait values.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	*f = flexString(string(b))
	return nil
}

var numberRe = regexp.MustCompile(`#\s*(\d+)\s*$`)

// sequenceNumber extracts N from a display name like "Galactic Gecko #N".
func sequenceNumber(name string) int {
	m := numberRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Parse decodes a data document into a Catalog.
func Parse(data []byte, log zerolog.Logger) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Result == nil || doc.Result.Data == nil || doc.Result.Data.Items == nil {
		return nil, fmt.Errorf("%w: missing result.data.items", ErrParse)
	}

	raw := *doc.Result.Data.Items
	items := make([]model.Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, convert(r, log))
	}
	return New(items)
}

func convert(r rawItem, log zerolog.Logger) model.Item {
	it := model.Item{
		ID:          int(r.ID),
		Name:        r.Name,
		Number:      sequenceNumber(r.Name),
		Rank:        int(r.Rank),
		Image:       r.Image,
		Description: r.Description,
		Link:        r.Link,
	}
	for _, a := range r.Attributes {
		cat, ok := model.ParseCategory(a.Name)
		if !ok {
			log.Debug().Int("id", it.ID).Str("attribute", a.Name).Msg("ignoring unknown trait category")
			continue
		}
		if a.Value == "" {
			continue
		}
		t := model.Trait{Category: cat, Name: a.Name, Value: string(a.Value)}
		if a.Rarity != nil {
			v := float64(*a.Rarity)
			t.Rarity = &v
		}
		if _, seen := it.Traits.Get(cat); seen {
			log.Debug().Int("id", it.ID).Str("category", a.Name).Msg("duplicate trait category, keeping first")
			continue
		}
		it.Traits[cat] = t
		it.Attributes = append(it.Attributes, t)
	}
	return it
}
