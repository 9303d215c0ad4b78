package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByHandle(ctx context.Context, handle string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	CreateIfAbsent(ctx context.Context, handle string) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a registered account identified by a unique handle.
// Users are created on first registration start and never mutated.
type User struct {
	ID        uuid.UUID
	Handle    string
	CreatedAt time.Time
}
