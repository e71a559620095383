package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/dailybalance/internal/apperrors"
	"github.com/SscSPs/dailybalance/internal/core/airetry"
	"github.com/SscSPs/dailybalance/internal/core/commands"
	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/core/ports/clients"
	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/utils/money"
	"github.com/SscSPs/dailybalance/internal/utils/validation"
)

// ReconcilerService applies validated advisor commands to the ledger.
type ReconcilerService struct {
	BaseService
	ledger    portssvc.LedgerSvcFacade
	analytics clients.Analytics
	now       func() time.Time
}

// ReconcilerOption is a functional option for configuring the reconciler
type ReconcilerOption func(*ReconcilerService)

// WithReconcilerClock sets the clock that decides what "today" is.
func WithReconcilerClock(now func() time.Time) ReconcilerOption {
	return func(r *ReconcilerService) {
		r.now = now
	}
}

// WithAnalytics reports applied commands.
func WithAnalytics(a clients.Analytics) ReconcilerOption {
	return func(r *ReconcilerService) {
		r.analytics = a
	}
}

// NewReconcilerService creates a ReconcilerService writing through ledger.
func NewReconcilerService(ledger portssvc.LedgerSvcFacade, options ...ReconcilerOption) *ReconcilerService {
	r := &ReconcilerService{ledger: ledger, now: time.Now}
	for _, opt := range options {
		opt(r)
	}
	return r
}

var _ portssvc.ReconcilerSvc = (*ReconcilerService)(nil)

// Execute applies results in order and reports one outcome per result.
func (r *ReconcilerService) Execute(ctx context.Context, userID string, results []commands.CommandResult) []portssvc.Outcome {
	outcomes := make([]portssvc.Outcome, 0, len(results))
	for _, res := range results {
		outcomes = append(outcomes, r.executeOne(ctx, userID, res))
	}
	return outcomes
}

func (r *ReconcilerService) executeOne(ctx context.Context, userID string, res commands.CommandResult) portssvc.Outcome {
	if !res.Success || res.Command == nil {
		r.LogWarn(ctx, "Rejected advisor command", slog.String("error", res.Error))
		return portssvc.Outcome{
			Error:    "Could not apply command: " + res.Error,
			Kind:     airetry.Unknown,
			Warnings: res.Warnings,
		}
	}

	out := portssvc.Outcome{
		Action:   res.Command.Action(),
		Identity: res.Identity,
		Warnings: res.Warnings,
	}
	if res.Duplicate {
		r.LogDebug(ctx, "Skipping duplicate advisor command", slog.String("identity", res.Identity))
		out.Skipped = true
		out.Message = "Already applied, skipped."
		return out
	}

	message, op, err := r.apply(ctx, userID, res.Command)
	if err != nil {
		r.LogError(ctx, err, "Failed to apply advisor command", slog.String("action", string(out.Action)))
		out.Error, out.Kind = describeFailure(op, err)
		return out
	}

	out.Applied = true
	out.Message = message
	if r.analytics != nil {
		r.analytics.Enqueue(userID, "ai_command_applied", map[string]any{"action": string(out.Action)})
	}
	return out
}

// apply dispatches cmd and returns the confirmation message, or the name of the
// failed operation with its error.
func (r *ReconcilerService) apply(ctx context.Context, userID string, cmd commands.Command) (string, string, error) {
	switch c := cmd.(type) {
	case commands.AddTransactionCmd:
		// the model does not reliably know the current date
		today := validation.DateKey(r.now())
		if c.Date != "" && c.Date != today {
			r.LogDebug(ctx, "Ignoring model-supplied date", slog.String("date", c.Date), slog.String("today", today))
		}
		entry, err := r.ledger.AddEntry(ctx, userID, today, domain.NewEntry{
			Type: c.Type, Amount: c.Amount, Category: c.Category, Note: c.Note,
		})
		if err != nil {
			return "", "add transaction", err
		}
		return fmt.Sprintf("Added %s of %s (%s).", entry.Type, money.Format(entry.Amount), entry.Category), "", nil

	case commands.EditTransactionCmd:
		patch := domain.EntryPatch{Type: c.Type, Amount: c.Amount, Category: c.Category, Note: c.Note}
		if patch.IsEmpty() {
			return "", "edit transaction", fmt.Errorf("%w: no fields to change", apperrors.ErrValidation)
		}
		_, date, err := r.ledger.FindEntry(ctx, userID, c.EntryID)
		if err != nil {
			return "", "edit transaction", err
		}
		entry, err := r.ledger.UpdateEntry(ctx, userID, date, c.EntryID, patch)
		if err != nil {
			return "", "edit transaction", err
		}
		return fmt.Sprintf("Updated %s on %s: %s (%s).", entry.Type, date, money.Format(entry.Amount), entry.Category), "", nil

	case commands.DeleteTransactionCmd:
		entry, date, err := r.ledger.FindEntry(ctx, userID, c.EntryID)
		if err != nil {
			return "", "delete transaction", err
		}
		if err := r.ledger.DeleteEntry(ctx, userID, date, c.EntryID); err != nil {
			return "", "delete transaction", err
		}
		return fmt.Sprintf("Deleted %s of %s (%s) from %s.", entry.Type, money.Format(entry.Amount), entry.Category, date), "", nil

	case commands.AddDebtCmd:
		debt, err := r.ledger.AddDebt(ctx, userID, domain.NewDebt{Person: c.Person, Amount: c.Amount, Note: c.Note})
		if err != nil {
			return "", "add debt", err
		}
		return fmt.Sprintf("Recorded that %s owes you %s.", debt.Person, money.Format(debt.Amount)), "", nil

	case commands.MarkDebtPaidCmd:
		return r.settleDebt(ctx, userID, c.DebtID, "mark debt paid")

	case commands.DeleteDebtCmd:
		// debts are kept for history; removing one settles it
		return r.settleDebt(ctx, userID, c.DebtID, "delete debt")

	case commands.AddBorrowCmd:
		borrow, err := r.ledger.AddBorrow(ctx, userID, domain.NewDebt{Person: c.Person, Amount: c.Amount, Note: c.Note, DueDate: c.DueDate})
		if err != nil {
			return "", "add borrow", err
		}
		msg := fmt.Sprintf("Recorded that you owe %s %s", borrow.Person, money.Format(borrow.Amount))
		if borrow.DueDate != "" {
			msg += ", due " + borrow.DueDate
		}
		return msg + ".", "", nil

	case commands.MarkBorrowPaidCmd:
		return r.settleBorrow(ctx, userID, c.BorrowID, "mark borrow paid")

	case commands.DeleteBorrowCmd:
		return r.settleBorrow(ctx, userID, c.BorrowID, "delete borrow")

	default:
		return "", "apply command", fmt.Errorf("unsupported command %T", cmd)
	}
}

func (r *ReconcilerService) settleDebt(ctx context.Context, userID, debtID, op string) (string, string, error) {
	debt, err := r.ledger.MarkDebtPaid(ctx, userID, debtID)
	if err != nil {
		return "", op, err
	}
	return fmt.Sprintf("Marked %s's debt of %s as paid.", debt.Person, money.Format(debt.Amount)), "", nil
}

func (r *ReconcilerService) settleBorrow(ctx context.Context, userID, borrowID, op string) (string, string, error) {
	borrow, err := r.ledger.MarkBorrowPaid(ctx, userID, borrowID)
	if err != nil {
		return "", op, err
	}
	return fmt.Sprintf("Marked your borrow of %s from %s as paid.", money.Format(borrow.Amount), borrow.Person), "", nil
}

// describeFailure turns a ledger error into a user-facing message naming the operation.
func describeFailure(op string, err error) (string, airetry.Kind) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fmt.Sprintf("Failed to %s: record not found.", op), airetry.Unknown
	case errors.Is(err, apperrors.ErrValidation):
		return fmt.Sprintf("Failed to %s: %s.", op, err.Error()), airetry.Unknown
	default:
		classified := airetry.Classify(err)
		return fmt.Sprintf("Failed to %s: %s", op, classified.Message), classified.Kind
	}
}
