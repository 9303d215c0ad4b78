package context

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// userIDKey is the context key used to store and retrieve the
// authenticated user ID.
const userIDKey contextKey = "user_id"

// Manager sets and retrieves the authenticated user ID on request
// contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a child context carrying the user ID.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the user ID set by the authentication
// middleware. The boolean reports whether one was present.
func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}
