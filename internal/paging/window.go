package paging

// Spread is how many neighbours of the current page are listed on each side.
const Spread = 2

// Marker is one entry in a compact page list: a page number, or an ellipsis
// standing for a collapsed run of pages.
type Marker struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// Window lists the page markers to show for current out of total pages:
// the first and last pages, current and its Spread neighbours, with every
// run of hidden pages collapsed into a single ellipsis.
func Window(current, total int) []Marker {
	if total < 1 {
		total = 1
	}
	current = Clamp(current, total)

	pages := []int{1}
	for p := max(2, current-Spread); p <= min(total, current+Spread); p++ {
		pages = append(pages, p)
	}
	if total > 1 && pages[len(pages)-1] != total {
		pages = append(pages, total)
	}

	out := make([]Marker, 0, len(pages)+2)
	prev := 0
	for _, p := range pages {
		if p-prev > 1 {
			out = append(out, Marker{Ellipsis: true})
		}
		out = append(out, Marker{Page: p, Current: p == current})
		prev = p
	}
	return out
}
