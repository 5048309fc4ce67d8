// Package paging does the page arithmetic for a view of items.
package paging

import (
	"errors"
	"fmt"
)

// DefaultSize is the number of items shown per page.
const DefaultSize = 100

// ErrInvalidPage is returned for a user-entered page outside [1, total].
var ErrInvalidPage = errors.New("invalid page")

// TotalPages returns the number of pages for length items. An empty view is
// one empty page, never zero pages.
func TotalPages(length, size int) int {
	if size <= 0 {
		size = DefaultSize
	}
	if length <= 0 {
		return 1
	}
	return (length + size - 1) / size
}

// Validate rejects a requested page outside [1, total].
func Validate(requested, total int) error {
	if requested < 1 || requested > total {
		return fmt.Errorf("%w: %d (valid pages are 1-%d)", ErrInvalidPage, requested, max(total, 1))
	}
	return nil
}

// Clamp forces requested into [1, total]. It is used to recover after the
// view changes underneath the current page.
func Clamp(requested, total int) int {
	if total < 1 {
		total = 1
	}
	return min(max(requested, 1), total)
}

// Bounds returns the half-open [start, end) index range of page within a
// view of length items.
func Bounds(page, size, length int) (start, end int) {
	if size <= 0 {
		size = DefaultSize
	}
	if page < 1 || length <= 0 {
		return 0, 0
	}
	start = min((page-1)*size, length)
	end = min(page*size, length)
	return start, end
}

// Slice returns the items on page. Out-of-range pages yield an empty slice.
func Slice[T any](view []T, page, size int) []T {
	start, end := Bounds(page, size, len(view))
	return view[start:end]
}

// Range returns the 1-based "showing start-end" figures for page, or (0, 0)
// when the page is empty.
func Range(page, size, length int) (first, last int) {
	start, end := Bounds(page, size, length)
	if start == end {
		return 0, 0
	}
	return start + 1, end
}
