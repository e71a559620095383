package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/dailybalance/internal/adapters/database/inmemory"
	"github.com/SscSPs/dailybalance/internal/core/airetry"
	"github.com/SscSPs/dailybalance/internal/core/commands"
	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var reconcilerNow = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

// MockAnalytics is a mock type for the Analytics interface
type MockAnalytics struct {
	mock.Mock
}

func (m *MockAnalytics) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

// failingStore fails writes to keys containing failOn.
type failingStore struct {
	*inmemory.Store
	failOn string
	err    error
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	if f.failOn != "" && strings.Contains(key, f.failOn) {
		return f.err
	}
	return f.Store.Put(ctx, key, value)
}

type reconcilerFixture struct {
	ledger     *services.LedgerService
	reconciler *services.ReconcilerService
	parser     *commands.Parser
	session    *commands.Session
	store      *failingStore
}

func newReconcilerFixture(opts ...services.ReconcilerOption) *reconcilerFixture {
	store := &failingStore{Store: inmemory.NewStore()}
	clock := func() time.Time { return reconcilerNow }
	ledger := services.NewLedgerService(store, services.WithLedgerClock(clock), services.WithIDGenerator(sequentialIDs("r")))
	opts = append([]services.ReconcilerOption{services.WithReconcilerClock(clock)}, opts...)
	return &reconcilerFixture{
		ledger:     ledger,
		reconciler: services.NewReconcilerService(ledger, opts...),
		parser:     commands.NewParser(commands.WithClock(clock)),
		session:    commands.NewSession(),
		store:      store,
	}
}

func (f *reconcilerFixture) run(t *testing.T, text string) []string {
	t.Helper()
	outcomes := f.reconciler.Execute(context.Background(), "alice", f.parser.Parse(text, nil, f.session))
	var msgs []string
	for _, o := range outcomes {
		if o.Error != "" {
			msgs = append(msgs, "ERR "+o.Error)
		} else {
			msgs = append(msgs, o.Message)
		}
	}
	return msgs
}

func TestReconciler_AddDebtEndToEndThenDuplicate(t *testing.T) {
	f := newReconcilerFixture()
	ctx := context.Background()
	text := `Sure. __apply__ { "action": "add_debt", "person": "Alex", "amount": 25 } Done.`

	outcomes := f.reconciler.Execute(ctx, "alice", f.parser.Parse(text, nil, f.session))
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Applied)
	assert.Equal(t, commands.AddDebt, outcomes[0].Action)
	assert.Equal(t, "Recorded that Alex owes you 25.00.", outcomes[0].Message)

	again := f.reconciler.Execute(ctx, "alice", f.parser.Parse(text, nil, f.session))
	require.Len(t, again, 1)
	assert.True(t, again[0].Skipped)
	assert.False(t, again[0].Applied)

	debts, err := f.ledger.ListDebts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, domain.Unpaid, debts[0].Status)
	assert.Equal(t, "25.00", debts[0].Amount.StringFixed(2))
}

func TestReconciler_AddTransactionForcesToday(t *testing.T) {
	f := newReconcilerFixture()
	msgs := f.run(t, `__apply__ {"action":"add_transaction","type":"expense","amount":"9.5","category":"food","date":"2025-03-01"}`)
	assert.Equal(t, []string{"Added expense of 9.50 (Food)."}, msgs)

	dates, err := f.ledger.GetHistoryDates(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-14"}, dates)
}

func TestReconciler_EditAndDeleteLocateEntryOnAnyDay(t *testing.T) {
	f := newReconcilerFixture()
	ctx := context.Background()
	entry, err := f.ledger.AddEntry(ctx, "alice", "2025-03-02", domain.NewEntry{Type: domain.Expense, Amount: dec("40"), Category: "Bills"})
	require.NoError(t, err)

	msgs := f.run(t, `__apply__ {"action":"edit_transaction","entryId":"`+entry.ID+`","amount":45}`)
	assert.Equal(t, []string{"Updated expense on 2025-03-02: 45.00 (Bills)."}, msgs)

	msgs = f.run(t, `__apply__ {"action":"delete_transaction","entryId":"`+entry.ID+`"}`)
	assert.Equal(t, []string{"Deleted expense of 45.00 (Bills) from 2025-03-02."}, msgs)

	bucket, err := f.ledger.GetDayBucket(ctx, "alice", "2025-03-02")
	require.NoError(t, err)
	assert.Empty(t, bucket.Entries)
}

func TestReconciler_DeleteDebtAndBorrowSettleInstead(t *testing.T) {
	f := newReconcilerFixture()
	ctx := context.Background()
	debt, err := f.ledger.AddDebt(ctx, "alice", domain.NewDebt{Person: "Alex", Amount: dec("25")})
	require.NoError(t, err)
	borrow, err := f.ledger.AddBorrow(ctx, "alice", domain.NewDebt{Person: "Sam", Amount: dec("10")})
	require.NoError(t, err)

	msgs := f.run(t, `__apply__ {"action":"delete_debt","debtId":"`+debt.ID+`"} __apply__ {"action":"delete_borrow","borrowId":"`+borrow.ID+`"}`)
	assert.Equal(t, []string{
		"Marked Alex's debt of 25.00 as paid.",
		"Marked your borrow of 10.00 from Sam as paid.",
	}, msgs)

	debts, err := f.ledger.ListDebts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, domain.Paid, debts[0].Status)
}

func TestReconciler_FailuresDoNotStopBatch(t *testing.T) {
	f := newReconcilerFixture()
	msgs := f.run(t, `
		__apply__ {"action":"mark_debt_paid","debtId":"ghost"}
		__apply__ {"action":"add_debt","person":"A","amount":5}
		__apply__ {"action":"add_borrow","person":"Sam","amount":12,"dueDate":"2025-04-01"}
	`)
	require.Len(t, msgs, 3)
	assert.Equal(t, "ERR Failed to mark debt paid: record not found.", msgs[0])
	assert.True(t, strings.HasPrefix(msgs[1], "ERR Could not apply command: person:"))
	assert.Equal(t, "Recorded that you owe Sam 12.00, due 2025-04-01.", msgs[2])
}

func TestReconciler_StoreErrorIsClassified(t *testing.T) {
	f := newReconcilerFixture()
	f.store.failOn = "/debts"
	f.store.err = errors.New("dial tcp: connection refused")

	outcomes := f.reconciler.Execute(context.Background(), "alice",
		f.parser.Parse(`__apply__ {"action":"add_debt","person":"Alex","amount":5}`, nil, f.session))
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Applied)
	assert.Equal(t, airetry.Network, outcomes[0].Kind)
	assert.Contains(t, outcomes[0].Error, "Failed to add debt")
	assert.NotContains(t, outcomes[0].Error, "dial tcp")
}

func TestReconciler_EditWithoutChanges(t *testing.T) {
	f := newReconcilerFixture()
	msgs := f.run(t, `__apply__ {"action":"edit_transaction","entryId":"x"}`)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "no fields to change")
}

func TestReconciler_ReportsAnalytics(t *testing.T) {
	analytics := new(MockAnalytics)
	analytics.On("Enqueue", "alice", "ai_command_applied", map[string]any{"action": "add_debt"}).Return().Once()
	f := newReconcilerFixture(services.WithAnalytics(analytics))

	f.run(t, `__apply__ {"action":"add_debt","person":"Alex","amount":5}`)
	f.run(t, `__apply__ {"action":"add_debt","person":"Alex","amount":5}`)

	analytics.AssertExpectations(t)
}
