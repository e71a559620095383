package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/utils/money"
)

// TotalsResponse mirrors domain.Totals with amounts formatted to two places.
type TotalsResponse struct {
	Income    string `json:"income" example:"150.00"`
	Expenses  string `json:"expenses" example:"40.00"`
	Remaining string `json:"remaining" example:"110.00"`
}

// EntryResponse defines the data returned for an income or expense entry.
type EntryResponse struct {
	ID        string           `json:"id"`
	Type      domain.EntryType `json:"type" example:"expense"`
	Amount    string           `json:"amount" example:"9.50"`
	Category  string           `json:"category" example:"Food"`
	Note      string           `json:"note,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// DayResponse is one day bucket with its computed totals.
type DayResponse struct {
	Date            string          `json:"date" example:"2025-03-14"`
	StartingBalance string          `json:"startingBalance" example:"100.00"`
	Entries         []EntryResponse `json:"entries"`
	Totals          TotalsResponse  `json:"totals"`
}

// SetStartingBalanceRequest replaces a day's starting balance.
type SetStartingBalanceRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"100.00"`
}

// CreateEntryRequest defines the data needed to add an entry to a day.
type CreateEntryRequest struct {
	Type     domain.EntryType `json:"type" binding:"required,oneof=income expense"`
	Amount   *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"9.50"`
	Category string           `json:"category" binding:"required,max=50"`
	Note     string           `json:"note" binding:"max=500"`
}

// UpdateEntryRequest defines the fields that may change on an entry.
// Omitted fields are left untouched.
type UpdateEntryRequest struct {
	Type     *domain.EntryType `json:"type" binding:"omitempty,oneof=income expense"`
	Amount   *decimal.Decimal  `json:"amount" swaggertype:"string"`
	Category *string           `json:"category" binding:"omitempty,max=50"`
	Note     *string           `json:"note" binding:"omitempty,max=500"`
}

// HistoryResponse lists the dates that have data, most recent first.
type HistoryResponse struct {
	Dates     []string `json:"dates"`
	NextToken *string  `json:"nextToken,omitempty"`
}

// ListHistoryParams are the query parameters of the history listing.
type ListHistoryParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=366"`
	NextToken string `form:"nextToken"`
}

// ToNewEntry converts the request into the domain creation input.
func (r CreateEntryRequest) ToNewEntry() domain.NewEntry {
	var amount decimal.Decimal
	if r.Amount != nil {
		amount = *r.Amount
	}
	return domain.NewEntry{Type: r.Type, Amount: amount, Category: r.Category, Note: r.Note}
}

// ToPatch converts the request into a domain patch.
func (r UpdateEntryRequest) ToPatch() domain.EntryPatch {
	return domain.EntryPatch{Type: r.Type, Amount: r.Amount, Category: r.Category, Note: r.Note}
}

// ToTotalsResponse converts domain.Totals to its DTO.
func ToTotalsResponse(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Income:    money.Format(t.Income),
		Expenses:  money.Format(t.Expenses),
		Remaining: money.Format(t.Remaining),
	}
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO
func ToEntryResponse(e domain.Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		Type:      e.Type,
		Amount:    money.Format(e.Amount),
		Category:  e.Category,
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
	}
}

// ToDayResponse converts a bucket and its totals to DayResponse DTO
func ToDayResponse(b domain.DayBucket, t domain.Totals) DayResponse {
	entries := make([]EntryResponse, 0, len(b.Entries))
	for _, e := range b.Entries {
		entries = append(entries, ToEntryResponse(e))
	}
	return DayResponse{
		Date:            b.Date,
		StartingBalance: money.Format(b.StartingBalance),
		Entries:         entries,
		Totals:          ToTotalsResponse(t),
	}
}
