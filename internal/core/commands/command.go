package commands

import (
	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Command is a validated instruction extracted from model output.
// The concrete types below are the only implementations.
type Command interface {
	Action() Action
	// identityFields lists the normalized fields that make two commands the same operation.
	identityFields() []field
}

type field struct {
	key   string
	value string
}

// AddTransactionCmd records a new income or expense for today.
type AddTransactionCmd struct {
	Type     domain.EntryType
	Amount   decimal.Decimal
	Category string
	Note     string
	// Date is the validated date the model supplied, if any. It is informational:
	// execution always books the entry on the current date.
	Date string
}

// EditTransactionCmd changes fields of an existing entry. Nil fields are left alone.
type EditTransactionCmd struct {
	EntryID  string
	Type     *domain.EntryType
	Amount   *decimal.Decimal
	Category *string
	Note     *string
}

// DeleteTransactionCmd removes an entry.
type DeleteTransactionCmd struct {
	EntryID string
}

// AddDebtCmd records money someone owes the user.
type AddDebtCmd struct {
	Person string
	Amount decimal.Decimal
	Note   string
}

// MarkDebtPaidCmd settles a debt.
type MarkDebtPaidCmd struct {
	DebtID string
}

// DeleteDebtCmd asks to remove a debt. Debts are never physically deleted, so this settles it.
type DeleteDebtCmd struct {
	DebtID string
}

// AddBorrowCmd records money the user owes someone.
type AddBorrowCmd struct {
	Person  string
	Amount  decimal.Decimal
	Note    string
	DueDate string
}

// MarkBorrowPaidCmd settles a borrow.
type MarkBorrowPaidCmd struct {
	BorrowID string
}

// DeleteBorrowCmd asks to remove a borrow; it settles it instead.
type DeleteBorrowCmd struct {
	BorrowID string
}

func (AddTransactionCmd) Action() Action    { return AddTransaction }
func (EditTransactionCmd) Action() Action   { return EditTransaction }
func (DeleteTransactionCmd) Action() Action { return DeleteTransaction }
func (AddDebtCmd) Action() Action           { return AddDebt }
func (MarkDebtPaidCmd) Action() Action      { return MarkDebtPaid }
func (DeleteDebtCmd) Action() Action        { return DeleteDebt }
func (AddBorrowCmd) Action() Action         { return AddBorrow }
func (MarkBorrowPaidCmd) Action() Action    { return MarkBorrowPaid }
func (DeleteBorrowCmd) Action() Action      { return DeleteBorrow }

func (c AddTransactionCmd) identityFields() []field {
	return []field{
		{"type", string(c.Type)},
		{"amount", c.Amount.StringFixed(2)},
		{"category", normalizeText(c.Category)},
		{"note", normalizeText(c.Note)},
	}
}

func (c EditTransactionCmd) identityFields() []field {
	fields := []field{{"entryId", normalizeID(c.EntryID)}}
	if c.Type != nil {
		fields = append(fields, field{"type", string(*c.Type)})
	}
	if c.Amount != nil {
		fields = append(fields, field{"amount", c.Amount.StringFixed(2)})
	}
	if c.Category != nil {
		fields = append(fields, field{"category", normalizeText(*c.Category)})
	}
	if c.Note != nil {
		fields = append(fields, field{"note", normalizeText(*c.Note)})
	}
	return fields
}

func (c DeleteTransactionCmd) identityFields() []field {
	return []field{{"entryId", normalizeID(c.EntryID)}}
}

func (c AddDebtCmd) identityFields() []field {
	return []field{
		{"person", normalizeText(c.Person)},
		{"amount", c.Amount.StringFixed(2)},
		{"note", normalizeText(c.Note)},
	}
}

func (c MarkDebtPaidCmd) identityFields() []field {
	return []field{{"debtId", normalizeID(c.DebtID)}}
}

func (c DeleteDebtCmd) identityFields() []field {
	return []field{{"debtId", normalizeID(c.DebtID)}}
}

func (c AddBorrowCmd) identityFields() []field {
	return []field{
		{"person", normalizeText(c.Person)},
		{"amount", c.Amount.StringFixed(2)},
		{"note", normalizeText(c.Note)},
		{"dueDate", c.DueDate},
	}
}

func (c MarkBorrowPaidCmd) identityFields() []field {
	return []field{{"borrowId", normalizeID(c.BorrowID)}}
}

func (c DeleteBorrowCmd) identityFields() []field {
	return []field{{"borrowId", normalizeID(c.BorrowID)}}
}
