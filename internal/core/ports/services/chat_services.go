package services

import (
	"context"

	"github.com/SscSPs/dailybalance/internal/core/airetry"
	"github.com/SscSPs/dailybalance/internal/core/commands"
)

// Outcome reports what happened to one parsed command.
type Outcome struct {
	Action   commands.Action `json:"action,omitempty"`
	Identity string          `json:"identity,omitempty"`
	Applied  bool            `json:"applied"`
	Skipped  bool            `json:"skipped,omitempty"`
	Message  string          `json:"message,omitempty"`
	Error    string          `json:"error,omitempty"`
	Kind     airetry.Kind    `json:"kind,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// ReconcilerSvc applies parsed commands to the ledger.
type ReconcilerSvc interface {
	// Execute applies every successful, non-duplicate result in order. A failure
	// never stops the rest of the batch.
	Execute(ctx context.Context, userID string, results []commands.CommandResult) []Outcome
}

// ChatEventType names the kinds of events streamed back to a chat client.
type ChatEventType string

const (
	ChatEventDelta   ChatEventType = "delta"
	ChatEventOutcome ChatEventType = "outcome"
	ChatEventRetry   ChatEventType = "retry"
	ChatEventError   ChatEventType = "error"
	ChatEventDone    ChatEventType = "done"
)

// ChatEvent is one server-sent event of a chat turn.
type ChatEvent struct {
	Type      ChatEventType `json:"type"`
	Text      string        `json:"text,omitempty"`
	Outcome   *Outcome      `json:"outcome,omitempty"`
	Attempt   int           `json:"attempt,omitempty"`
	Kind      airetry.Kind  `json:"kind,omitempty"`
	ShowRetry bool          `json:"showRetry,omitempty"`
}

// ChatSvc runs advisor conversations.
type ChatSvc interface {
	// SendMessage streams the model's answer to text through onEvent and applies
	// the commands it contains. The returned string is the reply with command blocks removed.
	SendMessage(ctx context.Context, userID string, conversationID string, text string, onEvent func(ChatEvent)) (string, error)

	// Reset clears the history and the applied-command set of a conversation.
	Reset(userID string, conversationID string)
}
