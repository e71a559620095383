package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/dailybalance/internal/apperrors"
	"github.com/SscSPs/dailybalance/internal/core/airetry"
	"github.com/SscSPs/dailybalance/internal/core/commands"
	"github.com/SscSPs/dailybalance/internal/core/ports/clients"
	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/utils/validation"
)

const (
	defaultHistoryLimit   = 20
	maxMessageLength      = 4000
	maxConversationIDSize = 64
)

// ChatService runs advisor conversations: it streams the model response, applies
// the commands embedded in it as they complete, and reports progress as events.
type ChatService struct {
	BaseService
	ledger        portssvc.LedgerSvcFacade
	reconciler    portssvc.ReconcilerSvc
	streamer      clients.ModelStreamer
	parser        *commands.Parser
	conversations *ConversationStore
	policy        airetry.Policy
	categories    []string
	historyLimit  int
	idleTTL       time.Duration
	maxPerUser    int
	now           func() time.Time
}

// ChatOption is a functional option for configuring the chat service
type ChatOption func(*ChatService)

// WithRetryPolicy overrides the retry policy around model streaming.
func WithRetryPolicy(p airetry.Policy) ChatOption {
	return func(s *ChatService) {
		s.policy = p
	}
}

// WithChatClock sets the clock used for "today" in prompts and date validation.
func WithChatClock(now func() time.Time) ChatOption {
	return func(s *ChatService) {
		s.now = now
	}
}

// WithChatCategories sets the categories advertised to the model.
func WithChatCategories(categories []string) ChatOption {
	return func(s *ChatService) {
		if len(categories) > 0 {
			s.categories = categories
		}
	}
}

// WithHistoryLimit caps how many past messages are sent with each request.
func WithHistoryLimit(n int) ChatOption {
	return func(s *ChatService) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithConversationLimits bounds the in-memory conversations: idle ones expire after
// idleTTL and each user keeps at most perUser of them.
func WithConversationLimits(idleTTL time.Duration, perUser int) ChatOption {
	return func(s *ChatService) {
		s.idleTTL = idleTTL
		s.maxPerUser = perUser
	}
}

// NewChatService creates a ChatService.
func NewChatService(ledger portssvc.LedgerSvcFacade, reconciler portssvc.ReconcilerSvc, streamer clients.ModelStreamer, options ...ChatOption) *ChatService {
	s := &ChatService{
		ledger:       ledger,
		reconciler:   reconciler,
		streamer:     streamer,
		policy:       airetry.DefaultPolicy,
		categories:   validation.DefaultCategories,
		historyLimit: defaultHistoryLimit,
		now:          time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.parser = commands.NewParser(commands.WithCategories(s.categories), commands.WithClock(s.now))
	s.conversations = NewConversationStore(s.idleTTL, s.maxPerUser, s.now)
	return s
}

var _ portssvc.ChatSvc = (*ChatService)(nil)

func checkConversationID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > maxConversationIDSize {
		return fmt.Errorf("%w: invalid conversation id", apperrors.ErrValidation)
	}
	return nil
}

// SendMessage runs one user turn.
func (s *ChatService) SendMessage(ctx context.Context, userID string, conversationID string, text string, onEvent func(portssvc.ChatEvent)) (string, error) {
	if err := checkConversationID(conversationID); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxMessageLength {
		return "", fmt.Errorf("%w: message must be between 1 and %d characters", apperrors.ErrValidation, maxMessageLength)
	}
	if onEvent == nil {
		onEvent = func(portssvc.ChatEvent) {}
	}

	// One turn at a time per conversation
	conv := s.conversations.Get(userID, conversationID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	// Build the request from the current ledger state and the history so far
	conv.Session.BeginTurn()
	req := clients.StreamRequest{
		SystemPrompt: buildSystemPrompt(s.snapshot(ctx, userID), s.categories),
		History:      append([]clients.ChatMessage(nil), conv.History...),
		Message:      text,
	}

	// apply runs every command block that completed since the last call
	var outcomes []portssvc.Outcome
	apply := func(buffer string) {
		results := s.parser.Feed(conv.Session, buffer, nil)
		if len(results) == 0 {
			return
		}
		for _, o := range s.reconciler.Execute(ctx, userID, results) {
			outcomes = append(outcomes, o)
			onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventOutcome, Outcome: &o})
		}
	}

	reply, err := airetry.WithPolicy(ctx, s.policy, "chat stream", func(ctx context.Context, attempt int) (string, error) {
		if attempt > 1 {
			onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventRetry, Attempt: attempt})
		}
		// a retried stream starts over; identities applied earlier in this turn stay recorded
		conv.Session.BeginResponse()
		var buffer strings.Builder
		full, err := s.streamer.Stream(ctx, req, func(delta string) error {
			buffer.WriteString(delta)
			onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventDelta, Text: delta})
			apply(buffer.String())
			return nil
		})
		if err != nil {
			return "", err
		}
		if full == "" {
			full = buffer.String()
		}
		apply(full)
		return full, nil
	})
	if err != nil {
		aiErr := airetry.Classify(err)
		onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventError, Text: aiErr.Message, Kind: aiErr.Kind, ShowRetry: aiErr.ShowRetry})
		return "", aiErr
	}

	// Record the turn without the command blocks, keeping only the newest messages
	cleaned := commands.StripCommands(reply)
	conv.History = append(conv.History,
		clients.ChatMessage{Role: clients.RoleUser, Text: text},
		clients.ChatMessage{Role: clients.RoleModel, Text: withOutcomeNotes(cleaned, outcomes)},
	)
	if over := len(conv.History) - s.historyLimit; over > 0 {
		conv.History = conv.History[over:]
	}

	s.LogInfo(ctx, "Chat turn completed",
		slog.String("conversation_id", conversationID),
		slog.Int("commands", len(outcomes)))
	onEvent(portssvc.ChatEvent{Type: portssvc.ChatEventDone, Text: cleaned})
	return cleaned, nil
}

// Reset clears the history and the applied-command set of a conversation.
func (s *ChatService) Reset(userID string, conversationID string) {
	conv, ok := s.conversations.Lookup(userID, conversationID)
	if !ok {
		return
	}
	conv.mu.Lock()
	conv.History = nil
	conv.Session.Reset()
	conv.mu.Unlock()
	s.conversations.Delete(userID, conversationID)
}

// History returns a copy of the conversation history.
func (s *ChatService) History(userID string, conversationID string) []clients.ChatMessage {
	conv, ok := s.conversations.Lookup(userID, conversationID)
	if !ok {
		return nil
	}
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return append([]clients.ChatMessage(nil), conv.History...)
}

// snapshot loads what the advisor should know. Failures are logged and the
// prompt is built without ledger data.
func (s *ChatService) snapshot(ctx context.Context, userID string) *ledgerSnapshot {
	today := validation.DateKey(s.now())
	bucket, err := s.ledger.GetDayBucket(ctx, userID, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for chat prompt")
		return nil
	}
	debts, err := s.ledger.ListDebts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load debts for chat prompt")
		return nil
	}
	borrows, err := s.ledger.ListBorrows(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load borrows for chat prompt")
		return nil
	}
	totals, err := s.ledger.CalculateTotals(ctx, userID, bucket)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute totals for chat prompt")
		return nil
	}
	return &ledgerSnapshot{Today: today, Bucket: bucket, Totals: totals, Debts: debts, Borrows: borrows}
}

// withOutcomeNotes appends what was applied so later turns know about it.
func withOutcomeNotes(reply string, outcomes []portssvc.Outcome) string {
	var notes []string
	for _, o := range outcomes {
		switch {
		case o.Applied:
			notes = append(notes, "[applied] "+o.Message)
		case o.Error != "":
			notes = append(notes, "[failed] "+o.Error)
		}
	}
	if len(notes) == 0 {
		return reply
	}
	return strings.TrimSpace(reply + "\n\n" + strings.Join(notes, "\n"))
}
