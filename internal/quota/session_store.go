package quota

import (
	"context"
	"sync"
	"time"

	"glow/internal/domain/repositories"
)

// SessionStore is the short-lived in-process guest counter. Entries expire
// lazily on read; the store is scoped to one server process, which is
// exactly why the Redis-backed cache store exists alongside it.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry

	// now is swappable in tests
	now func() time.Time
}

type sessionEntry struct {
	count     int
	expiresAt time.Time
}

var _ repositories.GuestCounterStore = (*SessionStore)(nil)

// NewSessionStore creates an empty in-process counter store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		entries: make(map[string]sessionEntry),
		now:     time.Now,
	}
}

// Get returns the stored count. Expired entries read as a miss.
func (s *SessionStore) Get(_ context.Context, guestID string) (int, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[guestID]
	s.mu.RUnlock()

	if !ok {
		return 0, false, nil
	}

	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := s.entries[guestID]; ok && s.now().After(cur.expiresAt) {
			delete(s.entries, guestID)
		}
		s.mu.Unlock()
		return 0, false, nil
	}

	return entry.count, true, nil
}

// Set writes the count with the given TTL, replacing any prior value.
func (s *SessionStore) Set(_ context.Context, guestID string, count int, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[guestID] = sessionEntry{
		count:     count,
		expiresAt: s.now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}
