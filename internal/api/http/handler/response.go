package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/model"
)

// Generic failure messages. Every ceremony failure kind maps to the same
// message for its phase so responses reveal nothing about which check
// failed or whether an account exists.
const (
	msgRegistrationFailed   = "registration failed"
	msgAuthenticationFailed = "authentication failed"
	msgInvalidRequest       = "invalid request"
	msgUnavailable          = "service temporarily unavailable"
	msgNotFound             = "not found"
	msgUnauthorized         = "authentication required"
)

func writeJSON(w http.ResponseWriter, l *logger.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		l.Error("failed to encode response body",
			"error", err.Error())
	}
}

func writeError(w http.ResponseWriter, l *logger.Logger, status int, message string) {
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, l, status, errorResponse{Error: message})
}

// writeCeremonyError collapses any finish failure to one generic message
// per phase. Only store unavailability is surfaced distinctly, as a 503
// retry signal carrying no ceremony detail.
func writeCeremonyError(w http.ResponseWriter, l *logger.Logger, err error, status int, message string) {
	if errors.Is(err, model.ErrUnavailable) {
		writeError(w, l, http.StatusServiceUnavailable, msgUnavailable)
		return
	}
	writeError(w, l, status, message)
}
