package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/passkeyauth/passkey-server/internal/model"
)

const challengePrefix = "challenge:"

var _ model.ChallengeStore = (*ChallengeRepository)(nil)

// ChallengeRepository stores pending ceremony state in Redis. Expiry is
// handled by the per-key TTL; consumption is a single GETDEL so concurrent
// finishes racing on one key observe exactly one winner.
type ChallengeRepository struct {
	client *Connection
}

func NewChallengeRepository(client *Connection) *ChallengeRepository {
	return &ChallengeRepository{client: client}
}

func (r *ChallengeRepository) Put(ctx context.Context, key string, state []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, challengePrefix+key, state, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", errors.Join(model.ErrUnavailable, err))
	}
	return nil
}

func (r *ChallengeRepository) Take(ctx context.Context, key string) ([]byte, error) {
	state, err := r.client.GetDel(ctx, challengePrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to take challenge: %w", errors.Join(model.ErrUnavailable, err))
	}
	return state, nil
}
