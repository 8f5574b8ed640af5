package domain

import "time"

// Location is a physical storage place (box, shelf, vacuum bag).
// Items reference it optionally; deleting a location detaches items
// rather than deleting them.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// NfcID is the identifier of an NFC sticker attached to the physical
	// container, when one has been paired. Scanning happens client-side;
	// the server only resolves the id back to a location.
	NfcID string `json:"nfc_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (l *Location) Touch() {
	l.UpdatedAt = time.Now()
}
