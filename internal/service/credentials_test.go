package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/passkeyauth/passkey-server/internal/mocks"
	"github.com/passkeyauth/passkey-server/internal/model"
	"github.com/passkeyauth/passkey-server/internal/testutil"
)

func TestCredentials_List(t *testing.T) {
	ctx := context.Background()
	store := &mocks.CredentialStore{}
	svc := NewCredentials(store, testutil.MakeNoopLogger())

	userID := uuid.New()
	created := time.Now().Add(-time.Hour)
	store.On("ListByUser", mock.Anything, userID).Return([]model.Credential{
		{ID: []byte("cred-1"), UserID: userID, PublicKey: []byte("pk"), CreatedAt: created},
	}, nil)

	views, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, base64.RawURLEncoding.EncodeToString([]byte("cred-1")), views[0].ID)
	assert.Equal(t, created, views[0].CreatedAt)
}

func TestCredentials_List_Empty(t *testing.T) {
	ctx := context.Background()
	store := &mocks.CredentialStore{}
	svc := NewCredentials(store, testutil.MakeNoopLogger())

	userID := uuid.New()
	store.On("ListByUser", mock.Anything, userID).Return([]model.Credential{}, nil)

	views, err := svc.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestCredentials_Delete(t *testing.T) {
	ctx := context.Background()
	store := &mocks.CredentialStore{}
	svc := NewCredentials(store, testutil.MakeNoopLogger())

	userID := uuid.New()
	id := base64.RawURLEncoding.EncodeToString([]byte("cred-1"))
	store.On("Delete", mock.Anything, []byte("cred-1"), userID).Return(nil)

	require.NoError(t, svc.Delete(ctx, userID, id))
	store.AssertExpectations(t)
}

func TestCredentials_Delete_NotOwned(t *testing.T) {
	ctx := context.Background()
	store := &mocks.CredentialStore{}
	svc := NewCredentials(store, testutil.MakeNoopLogger())

	userID := uuid.New()
	id := base64.RawURLEncoding.EncodeToString([]byte("cred-1"))
	store.On("Delete", mock.Anything, []byte("cred-1"), userID).Return(model.ErrNotFound)

	err := svc.Delete(ctx, userID, id)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCredentials_Delete_MalformedID(t *testing.T) {
	ctx := context.Background()
	store := &mocks.CredentialStore{}
	svc := NewCredentials(store, testutil.MakeNoopLogger())

	err := svc.Delete(ctx, uuid.New(), "%%% not base64 %%%")
	assert.ErrorIs(t, err, model.ErrNotFound)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
