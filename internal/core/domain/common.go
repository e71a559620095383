package domain

import "time"

// Timestamps holds creation and last-update times for ledger records.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChangeType names the kind of record touched by a ledger mutation.
type ChangeType string

const (
	ChangeEntry  ChangeType = "entry"
	ChangeDay    ChangeType = "day"
	ChangeDebt   ChangeType = "debt"
	ChangeBorrow ChangeType = "borrow"
	ChangeErase  ChangeType = "erase"
)

// DataChanged is published after every successful ledger mutation so that
// balance displays can be recomputed.
type DataChanged struct {
	UserID string     `json:"-"`
	Date   string     `json:"date,omitempty"`
	Type   ChangeType `json:"type,omitempty"`
}
