package commands

import "strings"

// Action names one kind of ledger mutation the advisor may request.
type Action string

const (
	AddTransaction    Action = "add_transaction"
	EditTransaction   Action = "edit_transaction"
	DeleteTransaction Action = "delete_transaction"
	AddDebt           Action = "add_debt"
	MarkDebtPaid      Action = "mark_debt_paid"
	DeleteDebt        Action = "delete_debt"
	AddBorrow         Action = "add_borrow"
	MarkBorrowPaid    Action = "mark_borrow_paid"
	DeleteBorrow      Action = "delete_borrow"
)

// Actions is the closed set of recognized actions, in protocol order.
var Actions = []Action{
	AddTransaction, EditTransaction, DeleteTransaction,
	AddDebt, MarkDebtPaid, DeleteDebt,
	AddBorrow, MarkBorrowPaid, DeleteBorrow,
}

// IsValid reports whether a is part of the closed action set.
func (a Action) IsValid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

func actionList() string {
	names := make([]string, len(Actions))
	for i, a := range Actions {
		names[i] = string(a)
	}
	return "{" + strings.Join(names, ", ") + "}"
}
