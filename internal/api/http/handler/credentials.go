package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/model"
	"github.com/passkeyauth/passkey-server/internal/service"
)

// CredentialManager exposes session-scoped credential operations.
type CredentialManager interface {
	List(ctx context.Context, userID uuid.UUID) ([]service.CredentialView, error)
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}

// Credentials handles the credential management endpoints. All routes sit
// behind the authentication middleware.
type Credentials struct {
	credentials    CredentialManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewCredentials creates a new Credentials handler instance.
func NewCredentials(credentials CredentialManager, contextManager model.ContextManager, logger *logger.Logger) *Credentials {
	return &Credentials{
		credentials:    credentials,
		contextManager: contextManager,
		logger:         logger,
	}
}

// List handles GET /webauthn/credentials.
func (h *Credentials) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	views, err := h.credentials.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list credentials",
			"user_id", userID,
			"error", err.Error())
		writeCeremonyError(w, h.logger, err, http.StatusInternalServerError, msgInvalidRequest)
		return
	}

	credentials := make([]credentialView, len(views))
	for i, view := range views {
		credentials[i] = credentialView{ID: view.ID, CreatedAt: view.CreatedAt}
	}

	writeJSON(w, h.logger, http.StatusOK, listCredentialsResponse{Credentials: credentials})
}

// Delete handles DELETE /webauthn/credentials/{id}.
func (h *Credentials) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	err := h.credentials.Delete(r.Context(), userID, id)
	if errors.Is(err, model.ErrNotFound) {
		writeError(w, h.logger, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to delete credential",
			"user_id", userID,
			"error", err.Error())
		writeCeremonyError(w, h.logger, err, http.StatusInternalServerError, msgInvalidRequest)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]bool{"success": true})
}
