package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/passkeyauth/passkey-server/internal/api/http/handler"
	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/model"
)

// SessionResolver resolves bearer tokens to sessions.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (model.Session, error)
}

// Authenticate validates bearer tokens and injects the user ID into the
// request context. Missing, unknown and expired tokens all produce the
// same 401.
type Authenticate struct {
	sessions       SessionResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		sessions:       sessions,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle wraps next with bearer-token authentication.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := handler.BearerToken(r)
		if token == "" {
			m.unauthorized(w)
			return
		}

		session, err := m.sessions.Authenticate(r.Context(), token)
		if errors.Is(err, model.ErrUnavailable) {
			m.logger.Error("session store unavailable",
				"error", err.Error())
			w.Header().Set("Retry-After", "1")
			m.respond(w, http.StatusServiceUnavailable, "service temporarily unavailable")
			return
		}
		if err != nil {
			m.unauthorized(w)
			return
		}

		ctx := m.contextManager.SetUserIDToContext(r.Context(), session.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Authenticate) unauthorized(w http.ResponseWriter) {
	m.respond(w, http.StatusUnauthorized, "authentication required")
}

func (m *Authenticate) respond(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		m.logger.Error("failed to encode response body",
			"error", err.Error())
	}
}
