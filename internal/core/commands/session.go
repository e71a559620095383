package commands

// Session carries the command state of one conversation: the identities already
// applied during the current turn and the scan position inside the response
// being streamed. A Session is not safe for concurrent use; the owner of the
// conversation serializes access.
type Session struct {
	processed IdentitySet
	cursor    int
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{processed: IdentitySet{}}
}

// BeginTurn starts a new user turn: previously applied identities are forgotten.
func (s *Session) BeginTurn() {
	s.processed = IdentitySet{}
	s.cursor = 0
}

// BeginResponse starts scanning a fresh response stream, e.g. after a retry.
// Identities applied earlier in the turn are kept, so re-streamed commands are
// classified as duplicates.
func (s *Session) BeginResponse() {
	s.cursor = 0
}

// Reset clears everything, as when the user resets the conversation.
func (s *Session) Reset() {
	s.BeginTurn()
}

// Seen reports whether the identity has already been applied in this turn.
func (s *Session) Seen(identity string) bool {
	return s.processed.Has(identity)
}

// ProcessedCount returns how many distinct commands were accepted this turn.
func (s *Session) ProcessedCount() int {
	return len(s.processed)
}
