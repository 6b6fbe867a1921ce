package moodboard

import "time"

type Moodboard struct {
	ID        uint
	UserID    uint
	Name      string
	CreatedAt time.Time
}

// CategoryProducts groups the distinct product ids a moodboard holds in
// one category, alongside that category's sampling caps.
type CategoryProducts struct {
	CategoryID             uint
	CategoryName           string
	ProductIDs             []uint
	MaxSingleCatProducts   int
	MaxMultipleCatProducts int
}
