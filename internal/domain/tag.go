package domain

import "time"

// Tag is a user-defined label for filtering items, unique by name.
// Matching is case-sensitive and exact; "Red" and "red" are distinct tags.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemTag is the many-to-many join between items and tags.
type ItemTag struct {
	ItemID    string    `json:"item_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultTagNames are the four protected tags guaranteed to exist for every
// member context. They are created idempotently on activation and reported
// as non-deletable to the UI.
var DefaultTagNames = [4]string{"Hat", "Top", "Pants", "Shoes"}

// IsProtectedTagName reports whether name is one of the default tags.
func IsProtectedTagName(name string) bool {
	for _, n := range DefaultTagNames {
		if n == name {
			return true
		}
	}
	return false
}
