package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/passkeyauth/passkey-server/internal/api/http/context"
	"github.com/passkeyauth/passkey-server/internal/api/http/mocks"
	"github.com/passkeyauth/passkey-server/internal/model"
	"github.com/passkeyauth/passkey-server/internal/service"
	"github.com/passkeyauth/passkey-server/internal/testutil"
)

func authedRequest(method, target string, userID uuid.UUID) *http.Request {
	cm := httpcontext.NewManager()
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(cm.SetUserIDToContext(req.Context(), userID))
}

func TestCredentials_List_Handler(t *testing.T) {
	manager := &mocks.CredentialManager{}
	h := NewCredentials(manager, httpcontext.NewManager(), testutil.MakeNoopLogger())

	userID := uuid.New()
	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	manager.On("List", mock.Anything, userID).Return([]service.CredentialView{
		{ID: "cred-1", CreatedAt: created},
	}, nil)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/webauthn/credentials", userID))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp listCredentialsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Credentials, 1)
	assert.Equal(t, "cred-1", resp.Credentials[0].ID)
	assert.True(t, created.Equal(resp.Credentials[0].CreatedAt))
}

func TestCredentials_List_NoIdentity(t *testing.T) {
	manager := &mocks.CredentialManager{}
	h := NewCredentials(manager, httpcontext.NewManager(), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/webauthn/credentials", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	manager.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCredentials_Delete_Handler(t *testing.T) {
	manager := &mocks.CredentialManager{}
	h := NewCredentials(manager, httpcontext.NewManager(), testutil.MakeNoopLogger())

	userID := uuid.New()
	manager.On("Delete", mock.Anything, userID, "cred-1").Return(nil)

	req := authedRequest(http.MethodDelete, "/webauthn/credentials/cred-1", userID)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "cred-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	manager.AssertExpectations(t)
}

func TestCredentials_Delete_NotFound(t *testing.T) {
	manager := &mocks.CredentialManager{}
	h := NewCredentials(manager, httpcontext.NewManager(), testutil.MakeNoopLogger())

	userID := uuid.New()
	manager.On("Delete", mock.Anything, userID, "missing").Return(model.ErrNotFound)

	req := authedRequest(http.MethodDelete, "/webauthn/credentials/missing", userID)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "missing")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
