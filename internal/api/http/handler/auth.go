package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/service"
)

// Ceremony drives WebAuthn registration and authentication.
type Ceremony interface {
	StartRegistration(ctx context.Context, handle string) (service.StartResult, error)
	FinishRegistration(ctx context.Context, key string, response json.RawMessage) (service.RegistrationResult, error)
	StartLogin(ctx context.Context, handle string) (service.StartResult, error)
	FinishLogin(ctx context.Context, key string, response json.RawMessage) (service.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// Auth handles the ceremony endpoints.
type Auth struct {
	ceremony Ceremony
	logger   *logger.Logger
}

// NewAuth creates a new Auth handler instance.
func NewAuth(ceremony Ceremony, logger *logger.Logger) *Auth {
	return &Auth{ceremony: ceremony, logger: logger}
}

// StartRegistration handles POST /webauthn/register/start.
func (h *Auth) StartRegistration(w http.ResponseWriter, r *http.Request) {
	handle, ok := decodeHandle(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.ceremony.StartRegistration(r.Context(), handle)
	if err != nil {
		h.logger.Error("failed to start registration",
			"error", err.Error())
		writeCeremonyError(w, h.logger, err, http.StatusBadRequest, msgRegistrationFailed)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, startResponse{
		ChallengeKey: result.ChallengeKey,
		Options:      result.Options,
	})
}

// FinishRegistration handles POST /webauthn/register/finish.
func (h *Auth) FinishRegistration(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeFinish(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.ceremony.FinishRegistration(r.Context(), req.ChallengeKey, req.Credential)
	if err != nil {
		h.logger.Info("registration finish rejected",
			"error", err.Error())
		writeCeremonyError(w, h.logger, err, http.StatusBadRequest, msgRegistrationFailed)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, registerFinishResponse{
		Success:      true,
		CredentialID: result.CredentialID,
	})
}

// StartLogin handles POST /webauthn/auth/start.
func (h *Auth) StartLogin(w http.ResponseWriter, r *http.Request) {
	handle, ok := decodeHandle(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.ceremony.StartLogin(r.Context(), handle)
	if err != nil {
		h.logger.Error("failed to start login",
			"error", err.Error())
		writeCeremonyError(w, h.logger, err, http.StatusUnauthorized, msgAuthenticationFailed)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, startResponse{
		ChallengeKey: result.ChallengeKey,
		Options:      result.Options,
	})
}

// FinishLogin handles POST /webauthn/auth/finish.
func (h *Auth) FinishLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeFinish(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.ceremony.FinishLogin(r.Context(), req.ChallengeKey, req.Credential)
	if err != nil {
		h.logger.Info("login finish rejected",
			"error", err.Error())
		writeCeremonyError(w, h.logger, err, http.StatusUnauthorized, msgAuthenticationFailed)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, authFinishResponse{
		Success:      true,
		SessionToken: result.Token,
		ExpiresAt:    result.ExpiresAt,
	})
}

// Logout handles POST /webauthn/logout. The route sits behind the
// authentication middleware, so the token is known to be present.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)

	if err := h.ceremony.Logout(r.Context(), token); err != nil {
		h.logger.Error("failed to logout",
			"error", err.Error())
		writeError(w, h.logger, http.StatusServiceUnavailable, msgUnavailable)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BearerToken extracts the bearer token from the Authorization header,
// returning an empty string when absent or malformed.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

func decodeHandle(w http.ResponseWriter, r *http.Request, l *logger.Logger) (string, bool) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, l, http.StatusBadRequest, msgInvalidRequest)
		return "", false
	}

	handle := strings.TrimSpace(req.Handle)
	if handle == "" {
		writeError(w, l, http.StatusBadRequest, msgInvalidRequest)
		return "", false
	}

	return handle, true
}

func decodeFinish(w http.ResponseWriter, r *http.Request, l *logger.Logger) (finishRequest, bool) {
	var req finishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, l, http.StatusBadRequest, msgInvalidRequest)
		return finishRequest{}, false
	}

	if req.ChallengeKey == "" || len(req.Credential) == 0 {
		writeError(w, l, http.StatusBadRequest, msgInvalidRequest)
		return finishRequest{}, false
	}

	return req, true
}
