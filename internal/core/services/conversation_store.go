package services

import (
	"sync"
	"time"

	"github.com/SscSPs/dailybalance/internal/core/commands"
	"github.com/SscSPs/dailybalance/internal/core/ports/clients"
)

const (
	defaultConversationIdleTTL  = 24 * time.Hour
	defaultConversationsPerUser = 20
	conversationSweepInterval   = time.Minute
)

// Conversation is the state of one advisor chat. mu serializes turns so only one
// model response per conversation is in flight.
type Conversation struct {
	mu       sync.Mutex
	History  []clients.ChatMessage
	Session  *commands.Session
	lastUsed time.Time // guarded by the store mutex
}

// ConversationStore keeps conversations in memory, keyed by user and conversation id.
// Conversations idle for longer than idleTTL are dropped, and each user keeps at most
// maxPerUser of them; the least recently used one makes room for a new one.
type ConversationStore struct {
	mu         sync.Mutex
	byUser     map[string]map[string]*Conversation
	idleTTL    time.Duration
	maxPerUser int
	now        func() time.Time
	lastSweep  time.Time
}

// NewConversationStore creates an empty store. Zero limits fall back to the defaults.
func NewConversationStore(idleTTL time.Duration, maxPerUser int, now func() time.Time) *ConversationStore {
	if idleTTL <= 0 {
		idleTTL = defaultConversationIdleTTL
	}
	if maxPerUser <= 0 {
		maxPerUser = defaultConversationsPerUser
	}
	if now == nil {
		now = time.Now
	}
	return &ConversationStore{
		byUser:     make(map[string]map[string]*Conversation),
		idleTTL:    idleTTL,
		maxPerUser: maxPerUser,
		now:        now,
	}
}

// Get returns the conversation, creating it on first use.
func (s *ConversationStore) Get(userID, conversationID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	convs := s.byUser[userID]
	if conv, ok := convs[conversationID]; ok {
		conv.lastUsed = now
		return conv
	}

	if convs == nil {
		convs = make(map[string]*Conversation)
		s.byUser[userID] = convs
	}
	// Make room by dropping the user's least recently used conversation.
	for len(convs) >= s.maxPerUser {
		var oldestID string
		var oldest time.Time
		for id, c := range convs {
			if oldestID == "" || c.lastUsed.Before(oldest) {
				oldestID, oldest = id, c.lastUsed
			}
		}
		delete(convs, oldestID)
	}

	conv := &Conversation{Session: commands.NewSession(), lastUsed: now}
	convs[conversationID] = conv
	return conv
}

// Lookup returns an existing conversation without creating or touching it.
func (s *ConversationStore) Lookup(userID, conversationID string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.byUser[userID][conversationID]
	return conv, ok
}

// Delete forgets the conversation.
func (s *ConversationStore) Delete(userID, conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	convs := s.byUser[userID]
	delete(convs, conversationID)
	if len(convs) == 0 {
		delete(s.byUser, userID)
	}
}

// Len reports how many conversations are held.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, convs := range s.byUser {
		n += len(convs)
	}
	return n
}

func (s *ConversationStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < conversationSweepInterval {
		return
	}
	s.lastSweep = now
	for userID, convs := range s.byUser {
		for id, c := range convs {
			if now.Sub(c.lastUsed) > s.idleTTL {
				delete(convs, id)
			}
		}
		if len(convs) == 0 {
			delete(s.byUser, userID)
		}
	}
}
