//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/passkeyauth/passkey-server/internal/model"
	repo "github.com/passkeyauth/passkey-server/internal/repository/redis"
)

var addr string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	addr = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newConn(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConnection(context.Background(), addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestChallengeRepository_TakeOnce(t *testing.T) {
	ctx := context.Background()
	challenges := repo.NewChallengeRepository(newConn(t))

	require.NoError(t, challenges.Put(ctx, "key-once", []byte("state"), time.Minute))

	state, err := challenges.Take(ctx, "key-once")
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), state)

	_, err = challenges.Take(ctx, "key-once")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestChallengeRepository_TakeUnknown(t *testing.T) {
	ctx := context.Background()
	challenges := repo.NewChallengeRepository(newConn(t))

	_, err := challenges.Take(ctx, "never-created")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestChallengeRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	challenges := repo.NewChallengeRepository(newConn(t))

	require.NoError(t, challenges.Put(ctx, "key-expiry", []byte("state"), 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)

	_, err := challenges.Take(ctx, "key-expiry")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestChallengeRepository_ConcurrentTake_SingleWinner(t *testing.T) {
	ctx := context.Background()
	challenges := repo.NewChallengeRepository(newConn(t))

	require.NoError(t, challenges.Put(ctx, "key-race", []byte("state"), time.Minute))

	const callers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := challenges.Take(ctx, "key-race"); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	assert.Equal(t, 1, won)
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	sessions := repo.NewSessionRepository(newConn(t))

	session := model.Session{
		UserID:    uuid.New(),
		Handle:    "alice",
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, sessions.Put(ctx, "token-1", session, time.Minute))

	got, err := sessions.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, session.Handle, got.Handle)

	require.NoError(t, sessions.Delete(ctx, "token-1"))
	_, err = sessions.Get(ctx, "token-1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Delete is idempotent.
	require.NoError(t, sessions.Delete(ctx, "token-1"))
}

func TestSessionRepository_TTL(t *testing.T) {
	ctx := context.Background()
	sessions := repo.NewSessionRepository(newConn(t))

	session := model.Session{UserID: uuid.New(), Handle: "bob"}
	require.NoError(t, sessions.Put(ctx, "token-ttl", session, 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)

	_, err := sessions.Get(ctx, "token-ttl")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
