package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/utils/validation"
	"github.com/shopspring/decimal"
)

var (
	maxTransactionAmount = decimal.NewFromInt(1_000_000)
	maxSettlementAmount  = decimal.NewFromInt(100_000)
)

// looseString accepts a JSON string or number; models are not consistent about quoting ids and amounts.
type looseString struct {
	value   string
	present bool
}

func (l *looseString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		l.value, l.present = s, true
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		l.value, l.present = n.String(), true
		return nil
	}
	return fmt.Errorf("expected string or number, got %s", b)
}

// payload is the untyped wire shape. It never leaves this file.
type payload struct {
	Action   *string     `json:"action"`
	Type     looseString `json:"type"`
	Amount   looseString `json:"amount"`
	Category looseString `json:"category"`
	Note     looseString `json:"note"`
	Date     looseString `json:"date"`
	EntryID  looseString `json:"entryId"`
	Person   looseString `json:"person"`
	DueDate  looseString `json:"dueDate"`
	DebtID   looseString `json:"debtId"`
	BorrowID looseString `json:"borrowId"`
}

// checker accumulates validation errors and warnings for one payload.
type checker struct {
	errs     []string
	warnings []string
}

func (c *checker) fail(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

func (c *checker) err() string {
	return strings.Join(c.errs, "; ")
}

func (c *checker) requireID(name string, v looseString) string {
	id := strings.TrimSpace(v.value)
	if !v.present || id == "" {
		c.fail("%s is required", name)
	}
	return id
}

func (c *checker) entryType(v looseString) domain.EntryType {
	t := domain.EntryType(strings.ToLower(strings.TrimSpace(v.value)))
	if !t.IsValid() {
		c.fail("type must be one of {income, expense}")
	}
	return t
}

func (c *checker) amount(v looseString, ceiling decimal.Decimal) decimal.Decimal {
	if !v.present {
		c.fail("amount is required")
		return decimal.Zero
	}
	res := validation.ValidateAmount(v.value)
	if !res.IsValid {
		c.fail("amount: %s", res.Error)
		return decimal.Zero
	}
	if res.Value.GreaterThan(ceiling) {
		c.fail("amount must not exceed %s", ceiling.StringFixed(0))
	}
	return res.Value
}

func (c *checker) category(v looseString, allowed []string) string {
	category := strings.TrimSpace(v.value)
	if category == "" {
		c.fail("category is required")
		return ""
	}
	res := validation.ValidateCategory(category, allowed)
	if !res.IsValid {
		c.warnings = append(c.warnings, fmt.Sprintf("unknown category %q", category))
		return category
	}
	return res.Value
}

func (c *checker) note(v looseString) string {
	if !v.present {
		return ""
	}
	res := validation.ValidateNote(v.value)
	if !res.IsValid {
		c.fail("note: %s", res.Error)
	}
	return res.Value
}

func (c *checker) person(v looseString) string {
	res := validation.ValidatePersonName(v.value)
	if !res.IsValid {
		c.fail("person: %s", res.Error)
	}
	return res.Value
}

// build validates p against the schema of its action and returns the typed command.
// On failure the returned string holds every problem joined with "; ".
func build(p payload, allowedCategories []string, now time.Time) (Command, []string, string) {
	if p.Action == nil || strings.TrimSpace(*p.Action) == "" {
		return nil, nil, "action is required"
	}
	action := Action(strings.TrimSpace(*p.Action))
	if !action.IsValid() {
		return nil, nil, fmt.Sprintf("action must be one of %s", actionList())
	}

	c := &checker{}
	var cmd Command

	switch action {
	case AddTransaction:
		add := AddTransactionCmd{
			Type:     c.entryType(p.Type),
			Amount:   c.amount(p.Amount, maxTransactionAmount),
			Category: c.category(p.Category, allowedCategories),
			Note:     c.note(p.Note),
		}
		if p.Date.present {
			res := validation.ValidateDate(p.Date.value, now)
			if !res.IsValid {
				c.fail("date: %s", res.Error)
			}
			add.Date = res.Value
		}
		cmd = add

	case EditTransaction:
		edit := EditTransactionCmd{EntryID: c.requireID("entryId", p.EntryID)}
		if p.Type.present {
			t := c.entryType(p.Type)
			edit.Type = &t
		}
		if p.Amount.present {
			a := c.amount(p.Amount, maxTransactionAmount)
			edit.Amount = &a
		}
		if p.Category.present {
			cat := c.category(p.Category, allowedCategories)
			edit.Category = &cat
		}
		if p.Note.present {
			n := c.note(p.Note)
			edit.Note = &n
		}
		cmd = edit

	case DeleteTransaction:
		cmd = DeleteTransactionCmd{EntryID: c.requireID("entryId", p.EntryID)}

	case AddDebt:
		cmd = AddDebtCmd{
			Person: c.person(p.Person),
			Amount: c.amount(p.Amount, maxSettlementAmount),
			Note:   c.note(p.Note),
		}

	case AddBorrow:
		borrow := AddBorrowCmd{
			Person: c.person(p.Person),
			Amount: c.amount(p.Amount, maxSettlementAmount),
			Note:   c.note(p.Note),
		}
		if p.DueDate.present && strings.TrimSpace(p.DueDate.value) != "" {
			res := validation.ValidateDueDate(p.DueDate.value)
			if !res.IsValid {
				c.fail("dueDate: %s", res.Error)
			}
			borrow.DueDate = res.Value
		}
		cmd = borrow

	case MarkDebtPaid:
		cmd = MarkDebtPaidCmd{DebtID: c.requireID("debtId", p.DebtID)}
	case DeleteDebt:
		cmd = DeleteDebtCmd{DebtID: c.requireID("debtId", p.DebtID)}
	case MarkBorrowPaid:
		cmd = MarkBorrowPaidCmd{BorrowID: c.requireID("borrowId", p.BorrowID)}
	case DeleteBorrow:
		cmd = DeleteBorrowCmd{BorrowID: c.requireID("borrowId", p.BorrowID)}
	}

	if len(c.errs) > 0 {
		return nil, c.warnings, c.err()
	}
	return cmd, c.warnings, ""
}
