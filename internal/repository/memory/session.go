package memory

import (
	"context"
	"sync"
	"time"

	"github.com/passkeyauth/passkey-server/internal/model"
)

var _ model.SessionStore = (*SessionStore)(nil)

type sessionEntry struct {
	session   model.Session
	expiresAt time.Time
}

// SessionStore is an in-memory session store with per-token TTL.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		entries: make(map[string]sessionEntry),
		now:     time.Now,
	}
}

func (s *SessionStore) Put(ctx context.Context, token string, session model.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = sessionEntry{
		session:   session,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[token]
	if !ok || s.now().After(entry.expiresAt) {
		return model.Session{}, model.ErrNotFound
	}
	return entry.session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, token)
	return nil
}
