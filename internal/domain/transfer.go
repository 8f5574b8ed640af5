package domain

import "time"

// TransferRecord is an append-only ledger row recording a change of
// ownership. FromMemberID is the owner before the transfer executed.
// Records are never mutated; they disappear only when a cascading
// member or item deletion removes them.
type TransferRecord struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	FromMemberID  string    `json:"from_member_id"`
	ToMemberID    string    `json:"to_member_id"`
	TransferredAt time.Time `json:"transferred_at"`
}
