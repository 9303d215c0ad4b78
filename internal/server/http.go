package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/model"
)

var _ model.Server = (*HTTP)(nil)

// HTTP wraps the standard HTTP server with graceful shutdown.
type HTTP struct {
	server *http.Server
	logger *logger.Logger
}

// NewHTTP creates a new HTTP server instance serving handler on addr.
func NewHTTP(handler http.Handler, addr string, logger *logger.Logger) *HTTP {
	return &HTTP{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until Stop is called. A regular shutdown is not an error.
func (s *HTTP) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop drains in-flight requests until ctx expires.
func (s *HTTP) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server",
		"address", s.server.Addr)
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *HTTP) Address() string {
	return s.server.Addr
}
