package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passkeyauth/passkey-server/internal/model"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	session := model.Session{UserID: uuid.New(), Handle: "alice"}
	require.NoError(t, store.Put(ctx, "token", session, time.Minute))

	got, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, "alice", got.Handle)

	require.NoError(t, store.Delete(ctx, "token"))
	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Delete is idempotent.
	require.NoError(t, store.Delete(ctx, "token"))
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	current := time.Now()
	store.now = func() time.Time { return current }

	require.NoError(t, store.Put(ctx, "token", model.Session{UserID: uuid.New()}, time.Minute))

	current = current.Add(2 * time.Minute)

	_, err := store.Get(ctx, "token")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
