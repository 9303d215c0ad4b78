package model

import (
	"context"
	"time"
)

// ChallengeStore holds opaque ceremony state under a random key for the
// duration of one registration or authentication attempt.
//
// Take must be atomic: of any number of concurrent callers racing on the
// same key exactly one receives the state, the rest get ErrNotFound. An
// expired, consumed or never-created key is indistinguishable from the
// caller's point of view. TTL expiry is enforced by the store itself.
type ChallengeStore interface {
	Put(ctx context.Context, key string, state []byte, ttl time.Duration) error
	Take(ctx context.Context, key string) ([]byte, error)
}
