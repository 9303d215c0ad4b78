package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/metrics"
)

// Logging logs each request and feeds the metrics recorder. The route
// pattern (not the raw path) is used as the metrics label to keep the
// cardinality bounded.
type Logging struct {
	recorder metrics.Recorder
	logger   *logger.Logger
}

// NewLogging creates a new Logging middleware instance.
func NewLogging(recorder metrics.Recorder, logger *logger.Logger) *Logging {
	return &Logging{recorder: recorder, logger: logger}
}

// Handle wraps next with request logging and instrumentation.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		l.recorder.HTTPRequest(r.Method, route, ww.Status(), duration)
		l.logger.Info("HTTP request completed",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"duration_ms", duration.Milliseconds())
	})
}
