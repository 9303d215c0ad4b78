package memory

import (
	"context"
	"sync"
	"time"

	"github.com/passkeyauth/passkey-server/internal/model"
)

var _ model.ChallengeStore = (*ChallengeStore)(nil)

type challengeEntry struct {
	state     []byte
	expiresAt time.Time
}

// ChallengeStore is an in-memory challenge store with the same semantics as
// the Redis-backed one: per-key TTL and atomic take. Intended for tests and
// single-node development.
type ChallengeStore struct {
	mu      sync.Mutex
	entries map[string]challengeEntry
	now     func() time.Time
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{
		entries: make(map[string]challengeEntry),
		now:     time.Now,
	}
}

func (s *ChallengeStore) Put(ctx context.Context, key string, state []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = challengeEntry{
		state:     state,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Take removes and returns the state under key. Expired, consumed and
// never-created keys are indistinguishable.
func (s *ChallengeStore) Take(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	delete(s.entries, key)

	if s.now().After(entry.expiresAt) {
		return nil, model.ErrNotFound
	}
	return entry.state, nil
}

// Len reports the number of live entries, expired ones included.
func (s *ChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
