package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether an entry adds to or takes from the day's balance.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// IsValid reports whether t is one of the known entry types.
func (t EntryType) IsValid() bool {
	return t == Income || t == Expense
}

// Entry is a single income or expense transaction inside a day bucket.
type Entry struct {
	ID        string          `json:"id"`
	Type      EntryType       `json:"type"`
	Amount    decimal.Decimal `json:"amount"` // always rounded to 2dp
	Category  string          `json:"category"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewEntry carries the caller-supplied fields of an entry to be created.
type NewEntry struct {
	Type     EntryType
	Amount   decimal.Decimal
	Category string
	Note     string
}

// EntryPatch holds the fields to merge into an existing entry. Nil fields are left untouched.
type EntryPatch struct {
	Type     *EntryType
	Amount   *decimal.Decimal
	Category *string
	Note     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Type == nil && p.Amount == nil && p.Category == nil && p.Note == nil
}
