package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/passkeyauth/passkey-server/internal/api/http/handler"
	"github.com/passkeyauth/passkey-server/internal/api/http/middleware"
	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/metrics"
	"github.com/passkeyauth/passkey-server/internal/model"
)

// Router wires the ceremony and credential endpoints onto a chi mux.
type Router struct {
	ceremony       handler.Ceremony
	credentials    handler.CredentialManager
	sessions       middleware.SessionResolver
	contextManager model.ContextManager
	recorder       metrics.Recorder
	gatherer       prometheus.Gatherer
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	ceremony handler.Ceremony,
	credentials handler.CredentialManager,
	sessions middleware.SessionResolver,
	contextManager model.ContextManager,
	recorder metrics.Recorder,
	gatherer prometheus.Gatherer,
	logger *logger.Logger,
) *Router {
	return &Router{
		ceremony:       ceremony,
		credentials:    credentials,
		sessions:       sessions,
		contextManager: contextManager,
		recorder:       recorder,
		gatherer:       gatherer,
		logger:         logger,
	}
}

// Register builds the HTTP handler with all routes and middleware.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.recorder, r.logger)
	authenticate := middleware.NewAuthenticate(r.sessions, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.ceremony, r.logger)
	credentialsHandler := handler.NewCredentials(r.credentials, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)

	mux.Route("/webauthn", func(mux chi.Router) {
		mux.Post("/register/start", authHandler.StartRegistration)
		mux.Post("/register/finish", authHandler.FinishRegistration)
		mux.Post("/auth/start", authHandler.StartLogin)
		mux.Post("/auth/finish", authHandler.FinishLogin)

		mux.Group(func(mux chi.Router) {
			mux.Use(authenticate.Handle)
			mux.Get("/credentials", credentialsHandler.List)
			mux.Delete("/credentials/{id}", credentialsHandler.Delete)
			mux.Post("/logout", authHandler.Logout)
		})
	})

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if r.gatherer != nil {
		mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}
