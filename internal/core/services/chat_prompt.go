package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/dailybalance/internal/core/commands"
	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/utils/money"
)

// ledgerSnapshot is the data the advisor sees about the user.
type ledgerSnapshot struct {
	Today   string
	Bucket  domain.DayBucket
	Totals  domain.Totals
	Debts   []domain.Debt
	Borrows []domain.Borrow
}

func buildSystemPrompt(snap *ledgerSnapshot, categories []string) string {
	var b strings.Builder

	b.WriteString("You are a friendly, concise personal finance advisor inside a daily balance tracking app.\n")
	if snap != nil {
		fmt.Fprintf(&b, "Today is %s. Always show money with two decimals.\n", snap.Today)
	}
	b.WriteString("\nWhen the user asks you to record or change something, put one command per change in your reply, exactly in this form:\n")
	fmt.Fprintf(&b, "%s {\"action\": \"<action>\", ...fields}\n", commands.Marker)
	b.WriteString(`Actions and their fields:
- add_transaction: type ("income" or "expense"), amount, category, optional note. It is always recorded for today.
- edit_transaction: entryId, plus any of type, amount, category, note
- delete_transaction: entryId
- add_debt: person, amount, optional note. Use this when someone owes the user money.
- mark_debt_paid, delete_debt: debtId
- add_borrow: person, amount, optional note, optional dueDate (YYYY-MM-DD). Use this when the user owes someone.
- mark_borrow_paid, delete_borrow: borrowId
Amounts are plain numbers without currency symbols. Only use ids listed below.
Never emit a command the user did not ask for, and never repeat a command that was already applied.
`)
	fmt.Fprintf(&b, "Known categories: %s.\n", strings.Join(categories, ", "))

	if snap == nil {
		b.WriteString("\nThe user's ledger could not be loaded right now.\n")
		return b.String()
	}

	b.WriteString("\nToday's ledger:\n")
	fmt.Fprintf(&b, "Starting balance: %s\n", money.Format(snap.Bucket.StartingBalance))
	fmt.Fprintf(&b, "Income: %s, Expenses: %s, Remaining: %s\n",
		money.Format(snap.Totals.Income), money.Format(snap.Totals.Expenses), money.Format(snap.Totals.Remaining))
	if len(snap.Bucket.Entries) == 0 {
		b.WriteString("Entries: none\n")
	} else {
		b.WriteString("Entries:\n")
		for _, e := range snap.Bucket.Entries {
			fmt.Fprintf(&b, "- [%s] %s %s %s", e.ID, e.Type, money.Format(e.Amount), e.Category)
			if e.Note != "" {
				fmt.Fprintf(&b, " (%s)", e.Note)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("Unpaid debts (owed to the user):\n")
	n := 0
	for _, d := range snap.Debts {
		if d.Status != domain.Unpaid {
			continue
		}
		n++
		fmt.Fprintf(&b, "- [%s] %s %s\n", d.ID, d.Person, money.Format(d.Amount))
	}
	if n == 0 {
		b.WriteString("- none\n")
	}

	b.WriteString("Unpaid borrows (the user owes):\n")
	n = 0
	for _, br := range snap.Borrows {
		if br.Status != domain.Unpaid {
			continue
		}
		n++
		fmt.Fprintf(&b, "- [%s] %s %s", br.ID, br.Person, money.Format(br.Amount))
		if br.DueDate != "" {
			fmt.Fprintf(&b, " due %s", br.DueDate)
		}
		b.WriteString("\n")
	}
	if n == 0 {
		b.WriteString("- none\n")
	}
	return b.String()
}
