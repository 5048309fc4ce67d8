package model

// Category is one of the fixed trait axes a gecko may carry.
type Category int

const (
	Faction Category = iota
	Body
	Eyes
	Mouth
	Ears
	Helmet
	Armor

	NumCategories = 7
)

// NoneValue is the explicit "no trait of this kind" value. It is counted and
// selectable, unlike an absent category.
const NoneValue = "None"

var categoryNames = [NumCategories]string{"Faction", "Body", "Eyes", "Mouth", "Ears", "Helmet", "Armor"}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{Faction, Body, Eyes, Mouth, Ears, Helmet, Armor}
}

func (c Category) String() string {
	if !c.Valid() {
		return "Unknown"
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= 0 && c < NumCategories
}

// ParseCategory maps a source attribute name to a Category.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// Trait is a single (category, value) pair.
type Trait struct {
	Category Category `json:"-"`
	Name     string   `json:"name"`             // Category name as it appeared in the source
	Value    string   `json:"value"`            // e.g. "Rebel", or NoneValue
	Rarity   *float64 `json:"rarity,omitempty"` // Percentage, display only
}

// TraitSet has one optional slot per category. An empty Value means the item
// does not carry that category at all.
type TraitSet [NumCategories]Trait

// Get returns the trait for c and whether the item carries it.
func (s *TraitSet) Get(c Category) (Trait, bool) {
	if !c.Valid() || s[c].Value == "" {
		return Trait{}, false
	}
	return s[c], true
}

// Value returns the item's value for c, or "" when the category is absent.
func (s *TraitSet) Value(c Category) string {
	if !c.Valid() {
		return ""
	}
	return s[c].Value
}

// Item is one catalog entry. Items are never mutated after load.
type Item struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`        // e.g. "Galactic Gecko #42"
	Number      int      `json:"number"`      // Sequential number taken from Name, 0 if none
	Rank        int      `json:"rank"`        // 1-based rarity rank, display only
	Image       string   `json:"image"`       // Image URI
	Description string   `json:"description"` // Free text
	Link        string   `json:"link"`        // External page
	Attributes  []Trait  `json:"attributes"`  // Known traits in source order
	Traits      TraitSet `json:"-"`
}

// Badges returns the trait values worth showing on a compact card: the
// faction always, other categories only when present and not NoneValue.
func (it *Item) Badges() []string {
	var out []string
	for _, c := range Categories() {
		v := it.Traits.Value(c)
		if v == "" {
			continue
		}
		if c != Faction && v == NoneValue {
			continue
		}
		out = append(out, v)
	}
	return out
}
