package domain

import (
	"github.com/shopspring/decimal"
)

// SettlementStatus tracks whether a debt or borrow has been settled.
type SettlementStatus string

const (
	Unpaid SettlementStatus = "unpaid"
	Paid   SettlementStatus = "paid"
)

// IsValid reports whether s is a known status.
func (s SettlementStatus) IsValid() bool {
	return s == Unpaid || s == Paid
}

// Debt is money owed to the user by someone else.
// Amount never changes after creation; only Status moves.
type Debt struct {
	ID     string           `json:"id"`
	Person string           `json:"person"`
	Amount decimal.Decimal  `json:"amount"`
	Note   string           `json:"note,omitempty"`
	Status SettlementStatus `json:"status"`
	Timestamps
}

// Borrow is money the user owes to someone else.
type Borrow struct {
	ID      string           `json:"id"`
	Person  string           `json:"person"`
	Amount  decimal.Decimal  `json:"amount"`
	Note    string           `json:"note,omitempty"`
	DueDate string           `json:"dueDate,omitempty"`
	Status  SettlementStatus `json:"status"`
	Timestamps
}

// NewDebt carries the caller-supplied fields of a debt or borrow to be created.
type NewDebt struct {
	Person  string
	Amount  decimal.Decimal
	Note    string
	DueDate string // borrows only
}
