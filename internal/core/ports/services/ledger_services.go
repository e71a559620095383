package services

import (
	"context"

	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations on a user's ledger.
type LedgerReaderSvc interface {
	// GetDayBucket returns the bucket for date, or an empty one if nothing is persisted.
	GetDayBucket(ctx context.Context, userID string, date string) (domain.DayBucket, error)

	// FindEntry locates an entry by id across all persisted days.
	FindEntry(ctx context.Context, userID string, entryID string) (*domain.Entry, string, error)

	// GetHistoryDates lists the dates with a persisted bucket, most recent first.
	GetHistoryDates(ctx context.Context, userID string) ([]string, error)

	// ListDebts returns every debt, paid or not.
	ListDebts(ctx context.Context, userID string) ([]domain.Debt, error)

	// ListBorrows returns every borrow, paid or not.
	ListBorrows(ctx context.Context, userID string) ([]domain.Borrow, error)
}

// LedgerWriterSvc defines mutations of a user's ledger. Every successful call
// publishes a data-changed event.
type LedgerWriterSvc interface {
	SaveDayBucket(ctx context.Context, userID string, bucket domain.DayBucket) error
	SetStartingBalance(ctx context.Context, userID string, date string, amount decimal.Decimal) (domain.DayBucket, error)

	AddEntry(ctx context.Context, userID string, date string, entry domain.NewEntry) (*domain.Entry, error)
	// UpdateEntry returns apperrors.ErrNotFound when date holds no such entry.
	UpdateEntry(ctx context.Context, userID string, date string, entryID string, patch domain.EntryPatch) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, userID string, date string, entryID string) error

	AddDebt(ctx context.Context, userID string, debt domain.NewDebt) (*domain.Debt, error)
	AddBorrow(ctx context.Context, userID string, borrow domain.NewDebt) (*domain.Borrow, error)
	SetDebtStatus(ctx context.Context, userID string, debtID string, status domain.SettlementStatus) (*domain.Debt, error)
	SetBorrowStatus(ctx context.Context, userID string, borrowID string, status domain.SettlementStatus) (*domain.Borrow, error)
	MarkDebtPaid(ctx context.Context, userID string, debtID string) (*domain.Debt, error)
	MarkBorrowPaid(ctx context.Context, userID string, borrowID string) (*domain.Borrow, error)

	// EraseAllData removes every persisted key of userID and nothing else.
	EraseAllData(ctx context.Context, userID string) error
}

// LedgerCalculatorSvc computes balances.
type LedgerCalculatorSvc interface {
	// CalculateTotals applies the balance formula to bucket using every unpaid debt and borrow of the user.
	CalculateTotals(ctx context.Context, userID string, bucket domain.DayBucket) (domain.Totals, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerCalculatorSvc
}
