package store

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-route-bot/internal/conversation"
)

// MemoryStore is a concurrency-safe in-memory conversation store. Entries not
// touched for longer than maxAge are treated as abandoned.
type MemoryStore struct {
	mu sync.RWMutex

	// key: user id
	data map[string]conversation.State

	// maxAge <= 0 disables expiry.
	maxAge time.Duration
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore with an optional idle TTL.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]conversation.State),
		maxAge: maxAge,
		now:    time.Now,
	}
}

func (s *MemoryStore) expired(st conversation.State, now time.Time) bool {
	return s.maxAge > 0 && now.Sub(st.UpdatedAt) > s.maxAge
}

// Load returns the user's state, or conversation.ErrNoConversation when none
// exists or it has expired.
func (s *MemoryStore) Load(_ context.Context, userID string) (conversation.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.data[userID]
	if !ok || s.expired(st, s.now()) {
		return conversation.State{}, conversation.ErrNoConversation
	}
	return st, nil
}

func (s *MemoryStore) Save(_ context.Context, st conversation.State) error {
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[st.UserID] = st
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// EvictExpired drops abandoned conversations and returns how many were removed.
func (s *MemoryStore) EvictExpired(_ context.Context) (int, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, st := range s.data {
		if s.expired(st, now) {
			delete(s.data, userID)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored conversations, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ conversation.Store = (*MemoryStore)(nil)
