package history

import "sync"

// Role tags a turn as user-authored or assistant-authored.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message exchanged in a conversation.
type Turn struct {
	Role    Role
	Content string
}

// Store keeps a bounded sliding window of turns per chat. State lives in
// memory only and is lost when the process exits.
type Store struct {
	mu       sync.RWMutex
	maxTurns int
	turns    map[int64][]Turn
}

// NewStore creates a store capping each chat at maxTurns turns.
func NewStore(maxTurns int) *Store {
	return &Store{
		maxTurns: maxTurns,
		turns:    make(map[int64][]Turn),
	}
}

// Get returns a copy of the chat's history, oldest first. A chat with no
// history yields an empty slice.
func (s *Store) Get(chatID int64) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.turns[chatID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Append records a turn for the chat, dropping the oldest turns once the
// window is full.
func (s *Store) Append(chatID int64, t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := append(s.turns[chatID], t)
	if s.maxTurns > 0 && len(turns) > s.maxTurns {
		trimmed := make([]Turn, s.maxTurns)
		copy(trimmed, turns[len(turns)-s.maxTurns:])
		turns = trimmed
	}
	s.turns[chatID] = turns
}

// Clear removes all history for the chat. Clearing a chat that has no
// history is a no-op.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, chatID)
}
