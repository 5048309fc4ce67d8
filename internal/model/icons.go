package model

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconFavorite    = "♥" // Favorited item
	IconNotFavorite = "♡" // Not favorited
	IconChecked     = "☑" // Selected filter value
	IconUnchecked   = "☐" // Unselected filter value
	IconEllipsis    = "…" // Collapsed page range
	IconPrev        = "←"
	IconNext        = "→"
	IconRank        = "#"
)
