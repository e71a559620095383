// Package clients declares the outbound collaborators of the core: the model provider,
// the data-changed signal and product analytics.
package clients

import (
	"context"

	"github.com/SscSPs/dailybalance/internal/core/domain"
)

// Roles used in conversation history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn of a conversation as sent to the model.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// StreamRequest is everything the model needs to answer one user message.
type StreamRequest struct {
	SystemPrompt string
	History      []ChatMessage
	Message      string
}

// ModelStreamer streams a model response as text deltas.
type ModelStreamer interface {
	// Stream calls onDelta for every text delta in order and returns the full
	// concatenated text. An error from onDelta aborts the stream and is returned.
	Stream(ctx context.Context, req StreamRequest, onDelta func(delta string) error) (string, error)
}

// ChangeNotifier receives a signal after every successful ledger mutation.
type ChangeNotifier interface {
	Notify(ctx context.Context, change domain.DataChanged)
}

// Analytics records product events.
type Analytics interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
