package domain

import (
	"github.com/SscSPs/dailybalance/internal/utils/money"
	"github.com/shopspring/decimal"
)

// Totals summarizes one day bucket.
type Totals struct {
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CalculateTotals computes the day's income, expenses and remaining balance.
//
//	remaining = start + income - expenses - unpaid debts + unpaid borrows
//
// An unpaid debt is money lent out and not yet back, so it is not available.
// An unpaid borrow is money already received and not yet repaid, so it is.
// Debts and borrows count on every day regardless of when they were created.
func CalculateTotals(bucket DayBucket, debts []Debt, borrows []Borrow) Totals {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, e := range bucket.Entries {
		switch e.Type {
		case Income:
			income = money.Add(income, e.Amount)
		case Expense:
			expenses = money.Add(expenses, e.Amount)
		}
	}

	remaining := money.Add(bucket.StartingBalance, income)
	remaining = money.Subtract(remaining, expenses)
	remaining = money.Subtract(remaining, UnpaidDebtTotal(debts))
	remaining = money.Add(remaining, UnpaidBorrowTotal(borrows))

	return Totals{
		Income:    money.Round(income),
		Expenses:  money.Round(expenses),
		Remaining: money.Round(remaining),
	}
}

// UnpaidDebtTotal sums the amounts of debts still marked unpaid.
func UnpaidDebtTotal(debts []Debt) decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(debts))
	for _, d := range debts {
		if d.Status == Unpaid {
			amounts = append(amounts, d.Amount)
		}
	}
	return money.Sum(amounts)
}

// UnpaidBorrowTotal sums the amounts of borrows still marked unpaid.
func UnpaidBorrowTotal(borrows []Borrow) decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(borrows))
	for _, b := range borrows {
		if b.Status == Unpaid {
			amounts = append(amounts, b.Amount)
		}
	}
	return money.Sum(amounts)
}
