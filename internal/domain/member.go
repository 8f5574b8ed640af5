package domain

import "time"

// Member is a household person who owns clothing items.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender"` // free text, normalized by the sizing package

	// Age is the stored fallback, used only when BirthDate is absent.
	Age int `json:"age"`
	// BirthDate is authoritative for age derivation when present.
	BirthDate *time.Time `json:"birth_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (m *Member) Touch() {
	m.UpdatedAt = time.Now()
}
