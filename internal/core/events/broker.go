// Package events fans data-changed notifications out to the subscribers of each user.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/dailybalance/internal/core/domain"
	"github.com/SscSPs/dailybalance/internal/middleware"
)

const defaultBuffer = 16

// Broker is an in-process publish/subscribe hub keyed by user id.
// Notify never blocks: a subscriber whose buffer is full misses the event.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscription]struct{}
	buffer      int
}

type subscription struct {
	ch chan domain.DataChanged
}

// NewBroker creates a Broker whose subscriber channels hold buffer events.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Broker{
		subscribers: make(map[string]map[*subscription]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers for the events of userID. The returned cancel function
// unregisters and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe(userID string) (<-chan domain.DataChanged, func()) {
	sub := &subscription{ch: make(chan domain.DataChanged, b.buffer)}

	b.mu.Lock()
	if b.subscribers[userID] == nil {
		b.subscribers[userID] = make(map[*subscription]struct{})
	}
	b.subscribers[userID][sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers[userID], sub)
			if len(b.subscribers[userID]) == 0 {
				delete(b.subscribers, userID)
			}
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Notify delivers change to every subscriber of change.UserID.
func (b *Broker) Notify(ctx context.Context, change domain.DataChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers[change.UserID] {
		select {
		case sub.ch <- change:
		default:
			middleware.GetLoggerFromCtx(ctx).Warn("Dropping data-changed event for slow subscriber",
				slog.String("user_id", change.UserID),
				slog.String("type", string(change.Type)))
		}
	}
}

// SubscriberCount returns the number of live subscriptions for userID.
func (b *Broker) SubscriberCount(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[userID])
}
