package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore maps opaque bearer tokens to authenticated identity.
// Tokens are generated by the caller, never by the store. Delete is
// idempotent.
type SessionStore interface {
	Put(ctx context.Context, token string, session Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// Session describes an authenticated bearer session.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Handle    string    `json:"handle"`
	ExpiresAt time.Time `json:"expires_at"`
}
