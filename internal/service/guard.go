// Package service orchestrates wardrobe operations over the store,
// emitting change events after each successful write.
package service

// DeleteOutcome describes the result of a guarded delete request.
type DeleteOutcome string

const (
	// DeleteOutcomeDeleted means the entity was unused and has been removed.
	DeleteOutcomeDeleted DeleteOutcome = "DELETED"
	// DeleteOutcomeConfirmRequired means the entity is in use; admin mode is
	// on, so the caller may confirm with a force delete.
	DeleteOutcomeConfirmRequired DeleteOutcome = "CONFIRM_REQUIRED"
	// DeleteOutcomePrevented means the entity is in use and admin mode is
	// off; deletion is not available.
	DeleteOutcomePrevented DeleteOutcome = "PREVENTED"
)

// DeleteGuardResult reports a guarded delete decision. Count carries the
// number of items still referencing the entity so the UI can render the
// right dialog.
type DeleteGuardResult struct {
	Outcome DeleteOutcome `json:"outcome"`
	Count   int           `json:"count"`
}
