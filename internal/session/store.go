package session

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is a single conversation turn.
type Message struct {
	Role    string
	Content string
}

// Store holds per-session conversation history in memory. Sessions expire
// after the idle TTL; each read or append resets the clock so an active
// conversation is never evicted mid-exchange. Nothing survives a restart.
type Store struct {
	mu       sync.Mutex
	sessions *ttlcache.Cache[string, []Message]
}

func NewStore(ttl time.Duration) *Store {
	cache := ttlcache.New[string, []Message](
		ttlcache.WithTTL[string, []Message](ttl),
	)
	go cache.Start()
	return &Store{sessions: cache}
}

// Close stops the expiration loop.
func (s *Store) Close() {
	s.sessions.Stop()
}

// History returns a copy of the stored turns for the session, oldest first.
// Unknown sessions read as empty.
func (s *Store) History(sessionID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.sessions.Get(sessionID)
	if item == nil {
		return nil
	}
	history := item.Value()
	out := make([]Message, len(history))
	copy(out, history)
	return out
}

// AppendTurn records one completed user/model exchange.
func (s *Store) AppendTurn(sessionID, userInput, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []Message
	if item := s.sessions.Get(sessionID); item != nil {
		history = item.Value()
	}
	history = append(history,
		Message{Role: RoleUser, Content: userInput},
		Message{Role: RoleModel, Content: reply},
	)
	s.sessions.Set(sessionID, history, ttlcache.DefaultTTL)
}

// Trim drops the oldest entries so at most 2*maxTurns messages remain, the
// x2 accounting for paired user/model turns.
func (s *Store) Trim(sessionID string, maxTurns int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.sessions.Get(sessionID)
	if item == nil {
		return
	}
	history := item.Value()
	maxMessages := maxTurns * 2
	if len(history) <= maxMessages {
		return
	}
	trimmed := make([]Message, maxMessages)
	copy(trimmed, history[len(history)-maxMessages:])
	s.sessions.Set(sessionID, trimmed, ttlcache.DefaultTTL)
}

// Clear removes the session entirely. Safe to call for unknown sessions.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Delete(sessionID)
}

// Len reports the number of stored messages for the session.
func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.sessions.Get(sessionID)
	if item == nil {
		return 0
	}
	return len(item.Value())
}
