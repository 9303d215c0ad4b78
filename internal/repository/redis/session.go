package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/passkeyauth/passkey-server/internal/model"
)

const sessionPrefix = "session:"

var _ model.SessionStore = (*SessionRepository)(nil)

// SessionRepository maps bearer tokens to identity in Redis with a TTL.
type SessionRepository struct {
	client *Connection
}

func NewSessionRepository(client *Connection) *SessionRepository {
	return &SessionRepository{client: client}
}

func (r *SessionRepository) Put(ctx context.Context, token string, session model.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionPrefix+token, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", errors.Join(model.ErrUnavailable, err))
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, token string) (model.Session, error) {
	payload, err := r.client.Get(ctx, sessionPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session: %w", errors.Join(model.ErrUnavailable, err))
	}

	var session model.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return model.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", errors.Join(model.ErrUnavailable, err))
	}
	return nil
}
