package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/dailybalance/internal/apperrors"
	"github.com/SscSPs/dailybalance/internal/core/airetry"
	"github.com/SscSPs/dailybalance/internal/core/commands"
	"github.com/SscSPs/dailybalance/internal/core/domain"
	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/dto"
	"github.com/SscSPs/dailybalance/internal/handlers"
	"github.com/SscSPs/dailybalance/internal/middleware"
	"github.com/SscSPs/dailybalance/internal/utils"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetDayBucket(ctx context.Context, userID string, date string) (domain.DayBucket, error) {
	args := m.Called(ctx, userID, date)
	return args.Get(0).(domain.DayBucket), args.Error(1)
}
func (m *MockLedgerService) FindEntry(ctx context.Context, userID string, entryID string) (*domain.Entry, string, error) {
	args := m.Called(ctx, userID, entryID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.Entry), args.String(1), args.Error(2)
}
func (m *MockLedgerService) GetHistoryDates(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockLedgerService) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}
func (m *MockLedgerService) ListBorrows(ctx context.Context, userID string) ([]domain.Borrow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Borrow), args.Error(1)
}
func (m *MockLedgerService) SaveDayBucket(ctx context.Context, userID string, bucket domain.DayBucket) error {
	return m.Called(ctx, userID, bucket).Error(0)
}
func (m *MockLedgerService) SetStartingBalance(ctx context.Context, userID string, date string, amount decimal.Decimal) (domain.DayBucket, error) {
	args := m.Called(ctx, userID, date, amount)
	return args.Get(0).(domain.DayBucket), args.Error(1)
}
func (m *MockLedgerService) AddEntry(ctx context.Context, userID string, date string, entry domain.NewEntry) (*domain.Entry, error) {
	args := m.Called(ctx, userID, date, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}
func (m *MockLedgerService) UpdateEntry(ctx context.Context, userID string, date string, entryID string, patch domain.EntryPatch) (*domain.Entry, error) {
	args := m.Called(ctx, userID, date, entryID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}
func (m *MockLedgerService) DeleteEntry(ctx context.Context, userID string, date string, entryID string) error {
	return m.Called(ctx, userID, date, entryID).Error(0)
}
func (m *MockLedgerService) AddDebt(ctx context.Context, userID string, debt domain.NewDebt) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockLedgerService) AddBorrow(ctx context.Context, userID string, borrow domain.NewDebt) (*domain.Borrow, error) {
	args := m.Called(ctx, userID, borrow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrow), args.Error(1)
}
func (m *MockLedgerService) SetDebtStatus(ctx context.Context, userID string, debtID string, status domain.SettlementStatus) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockLedgerService) SetBorrowStatus(ctx context.Context, userID string, borrowID string, status domain.SettlementStatus) (*domain.Borrow, error) {
	args := m.Called(ctx, userID, borrowID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrow), args.Error(1)
}
func (m *MockLedgerService) MarkDebtPaid(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockLedgerService) MarkBorrowPaid(ctx context.Context, userID string, borrowID string) (*domain.Borrow, error) {
	args := m.Called(ctx, userID, borrowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrow), args.Error(1)
}
func (m *MockLedgerService) EraseAllData(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockLedgerService) CalculateTotals(ctx context.Context, userID string, bucket domain.DayBucket) (domain.Totals, error) {
	args := m.Called(ctx, userID, bucket)
	return args.Get(0).(domain.Totals), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock ChatService ---
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) SendMessage(ctx context.Context, userID string, conversationID string, text string, onEvent func(portssvc.ChatEvent)) (string, error) {
	args := m.Called(ctx, userID, conversationID, text, onEvent)
	return args.String(0), args.Error(1)
}
func (m *MockChatService) Reset(userID string, conversationID string) {
	m.Called(userID, conversationID)
}

var _ portssvc.ChatSvc = (*MockChatService)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockLedger  *MockLedgerService
	mockChat    *MockChatService
	jwtSecret   string
	userID      string
	bearerToken string
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = "user-123"
	token, err := utils.GenerateJWT(suite.userID, suite.jwtSecret, time.Hour, "dailybalance-test")
	suite.Require().NoError(err)
	suite.bearerToken = "Bearer " + token

	suite.mockLedger = new(MockLedgerService)
	suite.mockChat = new(MockChatService)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, "dailybalance-test"))
	handlers.RegisterLedgerRoutes(v1, suite.mockLedger)
	handlers.RegisterSettlementRoutes(v1, suite.mockLedger)
	handlers.RegisterChatRoutes(v1, suite.mockChat, nil)
}

func (suite *HandlerTestSuite) do(method, url, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", suite.bearerToken)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- Ledger ---

func (suite *HandlerTestSuite) TestGetDay_ReturnsBucketAndTotals() {
	bucket := domain.DayBucket{
		Date:            "2025-03-14",
		StartingBalance: dec("100"),
		Entries: []domain.Entry{
			{ID: "e2", Type: domain.Expense, Amount: dec("40"), Category: "Food"},
			{ID: "e1", Type: domain.Income, Amount: dec("50"), Category: "Salary"},
		},
	}
	totals := domain.Totals{Income: dec("50"), Expenses: dec("40"), Remaining: dec("110")}
	suite.mockLedger.On("GetDayBucket", mock.Anything, suite.userID, "2025-03-14").Return(bucket, nil).Once()
	suite.mockLedger.On("CalculateTotals", mock.Anything, suite.userID, bucket).Return(totals, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/days/2025-03-14", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DayResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("100.00", resp.StartingBalance)
	suite.Equal("110.00", resp.Totals.Remaining)
	suite.Equal("40.00", resp.Totals.Expenses)
	suite.Require().Len(resp.Entries, 2)
	suite.Equal("e2", resp.Entries[0].ID)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestGetDay_InvalidDate() {
	suite.mockLedger.On("GetDayBucket", mock.Anything, suite.userID, "yesterday").
		Return(domain.DayBucket{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodGet, "/api/v1/days/yesterday", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "YYYY-MM-DD")
}

func (suite *HandlerTestSuite) TestRequiresAuth() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/days/2025-03-14", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "GetDayBucket")
}

func (suite *HandlerTestSuite) TestCreateEntry() {
	created := &domain.Entry{ID: "e1", Type: domain.Expense, Amount: dec("9.5"), Category: "Food", Note: "lunch"}
	suite.mockLedger.On("AddEntry", mock.Anything, suite.userID, "2025-03-14", mock.MatchedBy(func(e domain.NewEntry) bool {
		return e.Type == domain.Expense && e.Amount.Equal(dec("9.5")) && e.Category == "Food" && e.Note == "lunch"
	})).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/days/2025-03-14/entries", `{"type":"expense","amount":9.5,"category":"Food","note":"lunch"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("9.50", resp.Amount)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateEntry_BindingErrors() {
	bodies := []string{
		`{"type":"transfer","amount":1,"category":"Food"}`,
		`{"type":"expense","category":"Food"}`,
		`{"type":"expense","amount":1}`,
		`not json`,
	}
	for _, body := range bodies {
		w := suite.do(http.MethodPost, "/api/v1/days/2025-03-14/entries", body)
		suite.Equal(http.StatusBadRequest, w.Code, body)
	}
	suite.mockLedger.AssertNotCalled(suite.T(), "AddEntry")
}

func (suite *HandlerTestSuite) TestUpdateEntry() {
	updated := &domain.Entry{ID: "e1", Type: domain.Expense, Amount: dec("12"), Category: "Food"}
	suite.mockLedger.On("UpdateEntry", mock.Anything, suite.userID, "2025-03-14", "e1", mock.MatchedBy(func(p domain.EntryPatch) bool {
		return p.Amount != nil && p.Amount.Equal(dec("12")) && p.Type == nil && p.Category == nil && p.Note == nil
	})).Return(updated, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/days/2025-03-14/entries/e1", `{"amount":"12"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"amount":"12.00"`)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestUpdateEntry_EmptyPatch() {
	w := suite.do(http.MethodPatch, "/api/v1/days/2025-03-14/entries/e1", `{}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "UpdateEntry")
}

func (suite *HandlerTestSuite) TestDeleteEntry_NotFound() {
	suite.mockLedger.On("DeleteEntry", mock.Anything, suite.userID, "2025-03-14", "missing").
		Return(fmt.Errorf("entry missing: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/days/2025-03-14/entries/missing", "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestSetStartingBalance() {
	bucket := domain.DayBucket{Date: "2025-03-14", StartingBalance: dec("250"), Entries: []domain.Entry{}}
	suite.mockLedger.On("SetStartingBalance", mock.Anything, suite.userID, "2025-03-14", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("250"))
	})).Return(bucket, nil).Once()
	suite.mockLedger.On("GetDayBucket", mock.Anything, suite.userID, "2025-03-14").Return(bucket, nil).Once()
	suite.mockLedger.On("CalculateTotals", mock.Anything, suite.userID, bucket).
		Return(domain.Totals{Income: decimal.Zero, Expenses: decimal.Zero, Remaining: dec("250")}, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/days/2025-03-14/starting-balance", `{"amount":"250"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"startingBalance":"250.00"`)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListHistory_Paginates() {
	dates := []string{"2025-03-14", "2025-03-13", "2025-03-10"}
	suite.mockLedger.On("GetHistoryDates", mock.Anything, suite.userID).Return(dates, nil).Twice()

	w := suite.do(http.MethodGet, "/api/v1/history?limit=2", "")
	suite.Equal(http.StatusOK, w.Code)
	var first dto.HistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &first))
	suite.Equal([]string{"2025-03-14", "2025-03-13"}, first.Dates)
	suite.Require().NotNil(first.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/history?limit=2&nextToken="+*first.NextToken, "")
	suite.Equal(http.StatusOK, w.Code)
	var second dto.HistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &second))
	suite.Equal([]string{"2025-03-10"}, second.Dates)
	suite.Nil(second.NextToken)
}

func (suite *HandlerTestSuite) TestListHistory_BadToken() {
	suite.mockLedger.On("GetHistoryDates", mock.Anything, suite.userID).Return([]string{"2025-03-14"}, nil).Twice()
	w := suite.do(http.MethodGet, "/api/v1/history?nextToken=%21%21", "")
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/history?limit=0", "")
	suite.Equal(http.StatusOK, w.Code, "zero means default")
}

func (suite *HandlerTestSuite) TestEraseAllData() {
	suite.mockLedger.On("EraseAllData", mock.Anything, suite.userID).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/data", "")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestEraseAllData_StoreFailure() {
	suite.mockLedger.On("EraseAllData", mock.Anything, suite.userID).Return(fmt.Errorf("connection refused")).Once()

	w := suite.do(http.MethodDelete, "/api/v1/data", "")

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection refused")
}

// --- Debts and borrows ---

func (suite *HandlerTestSuite) TestListDebts_IncludesUnpaidTotal() {
	debts := []domain.Debt{
		{ID: "d2", Person: "Alex", Amount: dec("25"), Status: domain.Unpaid},
		{ID: "d1", Person: "Sam", Amount: dec("10"), Status: domain.Paid},
	}
	suite.mockLedger.On("ListDebts", mock.Anything, suite.userID).Return(debts, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/debts", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListDebtsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("25.00", resp.UnpaidTotal)
	suite.Len(resp.Debts, 2)
}

func (suite *HandlerTestSuite) TestCreateBorrow() {
	created := &domain.Borrow{ID: "b1", Person: "Sam", Amount: dec("12"), DueDate: "2025-04-01", Status: domain.Unpaid}
	suite.mockLedger.On("AddBorrow", mock.Anything, suite.userID, mock.MatchedBy(func(d domain.NewDebt) bool {
		return d.Person == "Sam" && d.Amount.Equal(dec("12")) && d.DueDate == "2025-04-01"
	})).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/borrows", `{"person":"Sam","amount":12,"dueDate":"2025-04-01"}`)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), `"dueDate":"2025-04-01"`)
}

func (suite *HandlerTestSuite) TestCreateBorrow_BadDueDate() {
	w := suite.do(http.MethodPost, "/api/v1/borrows", `{"person":"Sam","amount":12,"dueDate":"01/04/2025"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "AddBorrow")
}

func (suite *HandlerTestSuite) TestSetDebtStatus() {
	paid := &domain.Debt{ID: "d1", Person: "Alex", Amount: dec("25"), Status: domain.Paid}
	suite.mockLedger.On("SetDebtStatus", mock.Anything, suite.userID, "d1", domain.Paid).Return(paid, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/debts/d1/status", `{"status":"paid"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"paid"`)

	w = suite.do(http.MethodPut, "/api/v1/debts/d1/status", `{"status":"forgiven"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSetBorrowStatus_NotFound() {
	suite.mockLedger.On("SetBorrowStatus", mock.Anything, suite.userID, "nope", domain.Unpaid).
		Return(nil, fmt.Errorf("borrow nope: %w", apperrors.ErrNotFound)).Once()

	w := suite.do(http.MethodPut, "/api/v1/borrows/nope/status", `{"status":"unpaid"}`)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Chat ---

func (suite *HandlerTestSuite) TestSendMessage_StreamsEvents() {
	outcome := portssvc.Outcome{Action: commands.AddDebt, Applied: true, Message: "Recorded that Alex owes you 25.00."}
	suite.mockChat.On("SendMessage", mock.Anything, suite.userID, "conv-1", "Alex owes me 25", mock.Anything).
		Run(func(args mock.Arguments) {
			onEvent := args.Get(4).(func(portssvc.ChatEvent))
			onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventDelta, Text: "Noted."})
			onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventOutcome, Outcome: &outcome})
			onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventDone, Text: "Noted."})
		}).
		Return("Noted.", nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/chat/conv-1/messages", `{"message":"Alex owes me 25"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	suite.Contains(body, "event:delta")
	suite.Contains(body, "event:outcome")
	suite.Contains(body, "Recorded that Alex owes you 25.00.")
	suite.Contains(body, "event:done")
	suite.mockChat.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSendMessage_JSONMode() {
	outcome := portssvc.Outcome{Action: commands.AddTransaction, Applied: true, Message: "Added expense of 9.50 (Food)."}
	suite.mockChat.On("SendMessage", mock.Anything, suite.userID, "conv-1", "lunch 9.50", mock.Anything).
		Run(func(args mock.Arguments) {
			onEvent := args.Get(4).(func(portssvc.ChatEvent))
			onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventOutcome, Outcome: &outcome})
		}).
		Return("Added it.", nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/chat/conv-1/messages", `{"message":"lunch 9.50"}`, "Accept", "application/json")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ChatReplyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Added it.", resp.Reply)
	suite.Require().Len(resp.Outcomes, 1)
	suite.Equal(commands.AddTransaction, resp.Outcomes[0].Action)
}

func (suite *HandlerTestSuite) TestSendMessage_ProviderFailureInJSONMode() {
	aiErr := &airetry.AIError{Kind: airetry.Auth, Message: "Authentication failed", ShowRetry: false}
	suite.mockChat.On("SendMessage", mock.Anything, suite.userID, "conv-1", "hi", mock.Anything).Return("", aiErr).Once()

	w := suite.do(http.MethodPost, "/api/v1/chat/conv-1/messages", `{"message":"hi"}`, "Accept", "application/json")

	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "Authentication failed")
}

func (suite *HandlerTestSuite) TestSendMessage_ValidationBeforeStream() {
	suite.mockChat.On("SendMessage", mock.Anything, suite.userID, "conv-1", "hi", mock.Anything).
		Return("", fmt.Errorf("%w: invalid conversation id", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/chat/conv-1/messages", `{"message":"hi"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSendMessage_EmptyMessage() {
	w := suite.do(http.MethodPost, "/api/v1/chat/conv-1/messages", `{"message":""}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockChat.AssertNotCalled(suite.T(), "SendMessage")
}

func (suite *HandlerTestSuite) TestResetConversation() {
	suite.mockChat.On("Reset", suite.userID, "conv-1").Return().Once()

	w := suite.do(http.MethodDelete, "/api/v1/chat/conv-1", "")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockChat.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
