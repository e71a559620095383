package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/utils/money"
)

// CreateDebtRequest records money someone owes the user.
type CreateDebtRequest struct {
	Person string           `json:"person" binding:"required,max=100"`
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"25.00"`
	Note   string           `json:"note" binding:"max=500"`
}

// CreateBorrowRequest records money the user owes someone.
type CreateBorrowRequest struct {
	Person  string           `json:"person" binding:"required,max=100"`
	Amount  *decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"12.00"`
	Note    string           `json:"note" binding:"max=500"`
	DueDate string           `json:"dueDate" binding:"omitempty,datetime=2006-01-02" example:"2025-04-01"`
}

// SetStatusRequest marks a debt or borrow paid or unpaid.
type SetStatusRequest struct {
	Status domain.SettlementStatus `json:"status" binding:"required,oneof=paid unpaid"`
}

// DebtResponse defines the data returned for a debt.
type DebtResponse struct {
	ID        string                  `json:"id"`
	Person    string                  `json:"person"`
	Amount    string                  `json:"amount" example:"25.00"`
	Note      string                  `json:"note,omitempty"`
	Status    domain.SettlementStatus `json:"status" example:"unpaid"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// BorrowResponse defines the data returned for a borrow.
type BorrowResponse struct {
	ID        string                  `json:"id"`
	Person    string                  `json:"person"`
	Amount    string                  `json:"amount" example:"12.00"`
	Note      string                  `json:"note,omitempty"`
	DueDate   string                  `json:"dueDate,omitempty"`
	Status    domain.SettlementStatus `json:"status" example:"unpaid"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// ListDebtsResponse lists debts with the sum still outstanding.
type ListDebtsResponse struct {
	Debts       []DebtResponse `json:"debts"`
	UnpaidTotal string         `json:"unpaidTotal"`
}

// ListBorrowsResponse lists borrows with the sum still outstanding.
type ListBorrowsResponse struct {
	Borrows     []BorrowResponse `json:"borrows"`
	UnpaidTotal string           `json:"unpaidTotal"`
}

func amountOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// ToNewDebt converts the request into the domain creation input.
func (r CreateDebtRequest) ToNewDebt() domain.NewDebt {
	return domain.NewDebt{Person: r.Person, Amount: amountOrZero(r.Amount), Note: r.Note}
}

// ToNewDebt converts the request into the domain creation input.
func (r CreateBorrowRequest) ToNewDebt() domain.NewDebt {
	return domain.NewDebt{Person: r.Person, Amount: amountOrZero(r.Amount), Note: r.Note, DueDate: r.DueDate}
}

func ToDebtResponse(d domain.Debt) DebtResponse {
	return DebtResponse{
		ID:        d.ID,
		Person:    d.Person,
		Amount:    money.Format(d.Amount),
		Note:      d.Note,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToBorrowResponse(b domain.Borrow) BorrowResponse {
	return BorrowResponse{
		ID:        b.ID,
		Person:    b.Person,
		Amount:    money.Format(b.Amount),
		Note:      b.Note,
		DueDate:   b.DueDate,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func ToListDebtsResponse(debts []domain.Debt) ListDebtsResponse {
	out := make([]DebtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, ToDebtResponse(d))
	}
	return ListDebtsResponse{Debts: out, UnpaidTotal: money.Format(domain.UnpaidDebtTotal(debts))}
}

func ToListBorrowsResponse(borrows []domain.Borrow) ListBorrowsResponse {
	out := make([]BorrowResponse, 0, len(borrows))
	for _, b := range borrows {
		out = append(out, ToBorrowResponse(b))
	}
	return ListBorrowsResponse{Borrows: out, UnpaidTotal: money.Format(domain.UnpaidBorrowTotal(borrows))}
}
