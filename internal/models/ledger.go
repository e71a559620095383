package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryRecord is the persisted form of one income or expense entry.
type EntryRecord struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// DayBucketRecord is the JSON document stored under u/{user}/day/{date}.
type DayBucketRecord struct {
	Date            string          `json:"date"`
	StartingBalance decimal.Decimal `json:"startingBalance"`
	Entries         []EntryRecord   `json:"entries"`
}

// SettlementRecord is one element of the debt or borrow list documents.
// DueDate is only set for borrows.
type SettlementRecord struct {
	ID        string          `json:"id"`
	Person    string          `json:"person"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	DueDate   string          `json:"dueDate,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
