package domain_test

import (
	"testing"

	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name    string
		bucket  domain.DayBucket
		debts   []domain.Debt
		borrows []domain.Borrow
		want    domain.Totals
	}{
		{
			name:   "empty bucket",
			bucket: domain.NewDayBucket("2026-10-16"),
			want:   domain.Totals{Income: dec("0"), Expenses: dec("0"), Remaining: dec("0")},
		},
		{
			name: "entries, unpaid debt and unpaid borrow",
			bucket: domain.DayBucket{
				Date:            "2026-10-16",
				StartingBalance: dec("100.00"),
				Entries: []domain.Entry{
					{ID: "e1", Type: domain.Income, Amount: dec("50.00")},
					{ID: "e2", Type: domain.Expense, Amount: dec("20.00")},
				},
			},
			debts:   []domain.Debt{{ID: "d1", Amount: dec("30.00"), Status: domain.Unpaid}},
			borrows: []domain.Borrow{{ID: "b1", Amount: dec("10.00"), Status: domain.Unpaid}},
			want:    domain.Totals{Income: dec("50"), Expenses: dec("20"), Remaining: dec("110")},
		},
		{
			name: "paid debts and borrows are ignored",
			bucket: domain.DayBucket{
				StartingBalance: dec("10"),
			},
			debts: []domain.Debt{
				{ID: "d1", Amount: dec("5"), Status: domain.Paid},
				{ID: "d2", Amount: dec("1.25"), Status: domain.Unpaid},
			},
			borrows: []domain.Borrow{{ID: "b1", Amount: dec("99"), Status: domain.Paid}},
			want:    domain.Totals{Income: dec("0"), Expenses: dec("0"), Remaining: dec("8.75")},
		},
		{
			name: "cents add up without drift",
			bucket: domain.DayBucket{
				Entries: []domain.Entry{
					{Type: domain.Income, Amount: dec("0.10")},
					{Type: domain.Income, Amount: dec("0.20")},
					{Type: domain.Expense, Amount: dec("0.30")},
				},
			},
			want: domain.Totals{Income: dec("0.3"), Expenses: dec("0.3"), Remaining: dec("0")},
		},
		{
			name: "remaining may go negative",
			bucket: domain.DayBucket{
				Entries: []domain.Entry{{Type: domain.Expense, Amount: dec("12.34")}},
			},
			debts: []domain.Debt{{Amount: dec("1"), Status: domain.Unpaid}},
			want:  domain.Totals{Income: dec("0"), Expenses: dec("12.34"), Remaining: dec("-13.34")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.CalculateTotals(tt.bucket, tt.debts, tt.borrows)
			assert.True(t, tt.want.Income.Equal(got.Income), "income: got %s", got.Income)
			assert.True(t, tt.want.Expenses.Equal(got.Expenses), "expenses: got %s", got.Expenses)
			assert.True(t, tt.want.Remaining.Equal(got.Remaining), "remaining: got %s", got.Remaining)
		})
	}
}

func TestDayBucket_PrependAndRemove(t *testing.T) {
	b := domain.NewDayBucket("2026-10-16")
	b.Prepend(domain.Entry{ID: "first"})
	b.Prepend(domain.Entry{ID: "second"})

	assert.Equal(t, "second", b.Entries[0].ID)
	assert.Equal(t, 1, b.IndexOf("first"))
	assert.True(t, b.Remove("first"))
	assert.False(t, b.Remove("first"))
	assert.Len(t, b.Entries, 1)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
