package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/dailybalance/internal/apperrors"
	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/dailybalance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/models"
	"github.com/SscSPs/dailybalance/internal/utils/mapping"
	"github.com/SscSPs/dailybalance/internal/utils/money"
	"github.com/SscSPs/dailybalance/internal/utils/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService owns every read and write of a user's day buckets, debts and borrows.
type LedgerService struct {
	BaseService
	store portsrepo.KeyValueStore
	now   func() time.Time
	newID func() string
	locks *keyedMutex
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*LedgerService)

// WithChangeNotifier publishes data-changed events after every mutation.
func WithChangeNotifier(n clients.ChangeNotifier) LedgerOption {
	return func(s *LedgerService) {
		s.Notifier = n
	}
}

// WithLedgerClock overrides the clock used for timestamps.
func WithLedgerClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) {
		s.now = now
	}
}

// WithIDGenerator overrides how record ids are generated.
func WithIDGenerator(newID func() string) LedgerOption {
	return func(s *LedgerService) {
		s.newID = newID
	}
}

// NewLedgerService creates a LedgerService persisting to store.
func NewLedgerService(store portsrepo.KeyValueStore, options ...LedgerOption) *LedgerService {
	s := &LedgerService{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
		locks: newKeyedMutex(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// Keys of a namespace all share the prefix u/{user}/, so a prefix scan of one
// user can never reach another user's data.
func userPrefix(userID string) string   { return "u/" + userID + "/" }
func dayPrefix(userID string) string    { return userPrefix(userID) + "day/" }
func dayKey(userID, date string) string { return dayPrefix(userID) + date }
func debtsKey(userID string) string     { return userPrefix(userID) + "debts" }
func borrowsKey(userID string) string   { return userPrefix(userID) + "borrows" }
func validationErr(format string, a ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, a...))
}

func checkUserID(userID string) error {
	if strings.TrimSpace(userID) == "" || strings.Contains(userID, "/") {
		return validationErr("invalid user id")
	}
	return nil
}

func checkDate(date string) error {
	if !validation.IsDateKey(date) {
		return validationErr("date must be in YYYY-MM-DD format")
	}
	return nil
}

// --- persistence helpers ---

// decode unmarshals raw into v. Corrupted documents are logged and reported as
// absent so callers fall back to the default value.
func (s *LedgerService) decode(ctx context.Context, key string, raw []byte, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		s.LogWarn(ctx, "Ignoring corrupted ledger document", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (s *LedgerService) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

func (s *LedgerService) readBucket(ctx context.Context, userID, date string) (domain.DayBucket, error) {
	key := dayKey(userID, date)
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		return domain.DayBucket{}, fmt.Errorf("failed to load day %s: %w", date, err)
	}
	var rec models.DayBucketRecord
	if !found || !s.decode(ctx, key, raw, &rec) {
		return domain.NewDayBucket(date), nil
	}
	return mapping.ToDomainDayBucket(rec, date), nil
}

func (s *LedgerService) writeBucket(ctx context.Context, userID string, bucket domain.DayBucket) error {
	return s.put(ctx, dayKey(userID, bucket.Date), mapping.ToModelDayBucket(bucket))
}

func (s *LedgerService) readSettlements(ctx context.Context, key string) ([]models.SettlementRecord, error) {
	raw, found, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	var recs []models.SettlementRecord
	if !found || !s.decode(ctx, key, raw, &recs) {
		return nil, nil
	}
	return recs, nil
}

func (s *LedgerService) readDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	recs, err := s.readSettlements(ctx, debtsKey(userID))
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainDebts(recs), nil
}

func (s *LedgerService) readBorrows(ctx context.Context, userID string) ([]domain.Borrow, error) {
	recs, err := s.readSettlements(ctx, borrowsKey(userID))
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainBorrows(recs), nil
}

// --- day buckets and entries ---

// GetDayBucket returns the bucket for date, or an empty one if nothing is persisted.
func (s *LedgerService) GetDayBucket(ctx context.Context, userID string, date string) (domain.DayBucket, error) {
	if err := checkUserID(userID); err != nil {
		return domain.DayBucket{}, err
	}
	if err := checkDate(date); err != nil {
		return domain.DayBucket{}, err
	}
	return s.readBucket(ctx, userID, date)
}

// SaveDayBucket persists the whole bucket.
func (s *LedgerService) SaveDayBucket(ctx context.Context, userID string, bucket domain.DayBucket) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	if err := checkDate(bucket.Date); err != nil {
		return err
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.writeBucket(ctx, userID, bucket); err != nil {
		s.LogError(ctx, err, "Failed to save day bucket", slog.String("date", bucket.Date))
		return err
	}
	s.Notify(ctx, userID, bucket.Date, domain.ChangeDay)
	return nil
}

// SetStartingBalance replaces the starting balance of date.
func (s *LedgerService) SetStartingBalance(ctx context.Context, userID string, date string, amount decimal.Decimal) (domain.DayBucket, error) {
	if err := checkUserID(userID); err != nil {
		return domain.DayBucket{}, err
	}
	if err := checkDate(date); err != nil {
		return domain.DayBucket{}, err
	}
	if amount.Abs().GreaterThan(validation.MaxAmount) {
		return domain.DayBucket{}, validationErr("starting balance is too large")
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	bucket, err := s.readBucket(ctx, userID, date)
	if err != nil {
		return domain.DayBucket{}, err
	}
	bucket.StartingBalance = money.Round(amount)
	if err := s.writeBucket(ctx, userID, bucket); err != nil {
		s.LogError(ctx, err, "Failed to set starting balance", slog.String("date", date))
		return domain.DayBucket{}, err
	}
	s.LogInfo(ctx, "Starting balance set", slog.String("date", date), slog.String("amount", money.Format(bucket.StartingBalance)))
	s.Notify(ctx, userID, date, domain.ChangeDay)
	return bucket, nil
}

func validateEntryFields(t domain.EntryType, amount decimal.Decimal, category, note string) (decimal.Decimal, string, string, error) {
	if !t.IsValid() {
		return decimal.Zero, "", "", validationErr("type must be income or expense")
	}
	rounded := money.Round(amount)
	if !rounded.IsPositive() {
		return decimal.Zero, "", "", validationErr("amount must be greater than 0")
	}
	if rounded.GreaterThan(validation.MaxAmount) {
		return decimal.Zero, "", "", validationErr("amount is too large")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return decimal.Zero, "", "", validationErr("category is required")
	}
	n := validation.ValidateNote(note)
	if !n.IsValid {
		return decimal.Zero, "", "", validationErr("%s", n.Error)
	}
	return rounded, category, n.Value, nil
}

// AddEntry creates an entry at the head of date's entry list.
func (s *LedgerService) AddEntry(ctx context.Context, userID string, date string, req domain.NewEntry) (*domain.Entry, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if err := checkDate(date); err != nil {
		return nil, err
	}
	amount, category, note, err := validateEntryFields(req.Type, req.Amount, req.Category, req.Note)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	bucket, err := s.readBucket(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	entry := domain.Entry{
		ID:        s.newID(),
		Type:      req.Type,
		Amount:    amount,
		Category:  category,
		Note:      note,
		CreatedAt: s.now(),
	}
	bucket.Prepend(entry)
	if err := s.writeBucket(ctx, userID, bucket); err != nil {
		s.LogError(ctx, err, "Failed to add entry", slog.String("date", date))
		return nil, err
	}

	s.LogInfo(ctx, "Entry added", slog.String("date", date), slog.String("entry_id", entry.ID), slog.String("type", string(entry.Type)))
	s.Notify(ctx, userID, date, domain.ChangeEntry)
	return &entry, nil
}

// UpdateEntry merges patch into the entry. It returns apperrors.ErrNotFound if date holds no such entry.
func (s *LedgerService) UpdateEntry(ctx context.Context, userID string, date string, entryID string, patch domain.EntryPatch) (*domain.Entry, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if err := checkDate(date); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	bucket, err := s.readBucket(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	i := bucket.IndexOf(entryID)
	if i < 0 {
		return nil, fmt.Errorf("entry %s on %s: %w", entryID, date, apperrors.ErrNotFound)
	}

	merged := bucket.Entries[i]
	if patch.Type != nil {
		merged.Type = *patch.Type
	}
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.Note != nil {
		merged.Note = *patch.Note
	}
	merged.Amount, merged.Category, merged.Note, err = validateEntryFields(merged.Type, merged.Amount, merged.Category, merged.Note)
	if err != nil {
		return nil, err
	}

	bucket.Entries[i] = merged
	if err := s.writeBucket(ctx, userID, bucket); err != nil {
		s.LogError(ctx, err, "Failed to update entry", slog.String("date", date), slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Entry updated", slog.String("date", date), slog.String("entry_id", entryID))
	s.Notify(ctx, userID, date, domain.ChangeEntry)
	return &merged, nil
}

// DeleteEntry removes the entry from date.
func (s *LedgerService) DeleteEntry(ctx context.Context, userID string, date string, entryID string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	if err := checkDate(date); err != nil {
		return err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	bucket, err := s.readBucket(ctx, userID, date)
	if err != nil {
		return err
	}
	if !bucket.Remove(entryID) {
		return fmt.Errorf("entry %s on %s: %w", entryID, date, apperrors.ErrNotFound)
	}
	if err := s.writeBucket(ctx, userID, bucket); err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.String("date", date), slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Entry deleted", slog.String("date", date), slog.String("entry_id", entryID))
	s.Notify(ctx, userID, date, domain.ChangeEntry)
	return nil
}

// FindEntry searches every persisted day, most recent first, and returns the entry with its date.
func (s *LedgerService) FindEntry(ctx context.Context, userID string, entryID string) (*domain.Entry, string, error) {
	dates, err := s.GetHistoryDates(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	for _, date := range dates {
		bucket, err := s.readBucket(ctx, userID, date)
		if err != nil {
			return nil, "", err
		}
		if i := bucket.IndexOf(entryID); i >= 0 {
			entry := bucket.Entries[i]
			return &entry, date, nil
		}
	}
	return nil, "", fmt.Errorf("entry %s: %w", entryID, apperrors.ErrNotFound)
}

// GetHistoryDates lists the dates with a persisted bucket, most recent first.
func (s *LedgerService) GetHistoryDates(ctx context.Context, userID string) ([]string, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	prefix := dayPrefix(userID)
	keys, err := s.store.ListKeys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	dates := make([]string, 0, len(keys))
	for _, key := range keys {
		date := strings.TrimPrefix(key, prefix)
		if validation.IsDateKey(date) {
			dates = append(dates, date)
		}
	}
	// YYYY-MM-DD sorts lexically in date order
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// --- debts and borrows ---

func validateSettlement(req domain.NewDebt) (domain.NewDebt, error) {
	person := validation.ValidatePersonName(req.Person)
	if !person.IsValid {
		return req, validationErr("%s", person.Error)
	}
	amount := money.Round(req.Amount)
	if !amount.IsPositive() {
		return req, validationErr("amount must be greater than 0")
	}
	if amount.GreaterThan(validation.MaxAmount) {
		return req, validationErr("amount is too large")
	}
	note := validation.ValidateNote(req.Note)
	if !note.IsValid {
		return req, validationErr("%s", note.Error)
	}
	out := domain.NewDebt{Person: person.Value, Amount: amount, Note: note.Value}
	if strings.TrimSpace(req.DueDate) != "" {
		due := validation.ValidateDueDate(req.DueDate)
		if !due.IsValid {
			return req, validationErr("%s", due.Error)
		}
		out.DueDate = due.Value
	}
	return out, nil
}

// AddDebt records money owed to the user. New debts are unpaid and listed first.
func (s *LedgerService) AddDebt(ctx context.Context, userID string, req domain.NewDebt) (*domain.Debt, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	req, err := validateSettlement(req)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	debts, err := s.readDebts(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	debt := domain.Debt{
		ID:         s.newID(),
		Person:     req.Person,
		Amount:     req.Amount,
		Note:       req.Note,
		Status:     domain.Unpaid,
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	debts = append([]domain.Debt{debt}, debts...)
	if err := s.put(ctx, debtsKey(userID), mapping.ToModelDebts(debts)); err != nil {
		s.LogError(ctx, err, "Failed to add debt")
		return nil, err
	}

	s.LogInfo(ctx, "Debt added", slog.String("debt_id", debt.ID))
	s.Notify(ctx, userID, "", domain.ChangeDebt)
	return &debt, nil
}

// AddBorrow records money the user owes. New borrows are unpaid and listed first.
func (s *LedgerService) AddBorrow(ctx context.Context, userID string, req domain.NewDebt) (*domain.Borrow, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	req, err := validateSettlement(req)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	borrows, err := s.readBorrows(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	borrow := domain.Borrow{
		ID:         s.newID(),
		Person:     req.Person,
		Amount:     req.Amount,
		Note:       req.Note,
		DueDate:    req.DueDate,
		Status:     domain.Unpaid,
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	borrows = append([]domain.Borrow{borrow}, borrows...)
	if err := s.put(ctx, borrowsKey(userID), mapping.ToModelBorrows(borrows)); err != nil {
		s.LogError(ctx, err, "Failed to add borrow")
		return nil, err
	}

	s.LogInfo(ctx, "Borrow added", slog.String("borrow_id", borrow.ID))
	s.Notify(ctx, userID, "", domain.ChangeBorrow)
	return &borrow, nil
}

// ListDebts returns every debt of the user.
func (s *LedgerService) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	return s.readDebts(ctx, userID)
}

// ListBorrows returns every borrow of the user.
func (s *LedgerService) ListBorrows(ctx context.Context, userID string) ([]domain.Borrow, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	return s.readBorrows(ctx, userID)
}

// SetDebtStatus changes only the status of a debt. No balancing entry is created:
// the balance formula already accounts for unpaid debts.
func (s *LedgerService) SetDebtStatus(ctx context.Context, userID string, debtID string, status domain.SettlementStatus) (*domain.Debt, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, validationErr("status must be paid or unpaid")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	debts, err := s.readDebts(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range debts {
		if debts[i].ID != debtID {
			continue
		}
		debts[i].Status = status
		debts[i].UpdatedAt = s.now()
		if err := s.put(ctx, debtsKey(userID), mapping.ToModelDebts(debts)); err != nil {
			s.LogError(ctx, err, "Failed to update debt status", slog.String("debt_id", debtID))
			return nil, err
		}
		s.LogInfo(ctx, "Debt status changed", slog.String("debt_id", debtID), slog.String("status", string(status)))
		s.Notify(ctx, userID, "", domain.ChangeDebt)
		debt := debts[i]
		return &debt, nil
	}
	return nil, fmt.Errorf("debt %s: %w", debtID, apperrors.ErrNotFound)
}

// SetBorrowStatus changes only the status of a borrow.
func (s *LedgerService) SetBorrowStatus(ctx context.Context, userID string, borrowID string, status domain.SettlementStatus) (*domain.Borrow, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, validationErr("status must be paid or unpaid")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	borrows, err := s.readBorrows(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range borrows {
		if borrows[i].ID != borrowID {
			continue
		}
		borrows[i].Status = status
		borrows[i].UpdatedAt = s.now()
		if err := s.put(ctx, borrowsKey(userID), mapping.ToModelBorrows(borrows)); err != nil {
			s.LogError(ctx, err, "Failed to update borrow status", slog.String("borrow_id", borrowID))
			return nil, err
		}
		s.LogInfo(ctx, "Borrow status changed", slog.String("borrow_id", borrowID), slog.String("status", string(status)))
		s.Notify(ctx, userID, "", domain.ChangeBorrow)
		borrow := borrows[i]
		return &borrow, nil
	}
	return nil, fmt.Errorf("borrow %s: %w", borrowID, apperrors.ErrNotFound)
}

// MarkDebtPaid settles a debt.
func (s *LedgerService) MarkDebtPaid(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	return s.SetDebtStatus(ctx, userID, debtID, domain.Paid)
}

// MarkBorrowPaid settles a borrow.
func (s *LedgerService) MarkBorrowPaid(ctx context.Context, userID string, borrowID string) (*domain.Borrow, error) {
	return s.SetBorrowStatus(ctx, userID, borrowID, domain.Paid)
}

// --- totals and erase ---

// CalculateTotals applies the balance formula to bucket with every unpaid debt and borrow of the user.
func (s *LedgerService) CalculateTotals(ctx context.Context, userID string, bucket domain.DayBucket) (domain.Totals, error) {
	debts, err := s.ListDebts(ctx, userID)
	if err != nil {
		return domain.Totals{}, err
	}
	borrows, err := s.ListBorrows(ctx, userID)
	if err != nil {
		return domain.Totals{}, err
	}
	return domain.CalculateTotals(bucket, debts, borrows), nil
}

// EraseAllData deletes every key under the user's prefix.
func (s *LedgerService) EraseAllData(ctx context.Context, userID string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	erased, err := s.erasePrefix(ctx, userPrefix(userID))
	if err != nil {
		s.LogError(ctx, err, "Failed to erase user data")
		return err
	}

	s.LogInfo(ctx, "All user data erased", slog.Int64("keys", erased))
	s.Notify(ctx, userID, "", domain.ChangeErase)
	return nil
}

func (s *LedgerService) erasePrefix(ctx context.Context, prefix string) (int64, error) {
	if pd, ok := s.store.(portsrepo.PrefixDeleter); ok {
		n, err := pd.DeletePrefix(ctx, prefix)
		if err != nil {
			return 0, fmt.Errorf("failed to erase user data: %w", err)
		}
		return n, nil
	}

	keys, err := s.store.ListKeys(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list user data: %w", err)
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return 0, fmt.Errorf("failed to erase %s: %w", key, err)
		}
	}
	return int64(len(keys)), nil
}
