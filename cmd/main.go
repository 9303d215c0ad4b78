package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	httpctx "github.com/passkeyauth/passkey-server/internal/api/http/context"
	"github.com/passkeyauth/passkey-server/internal/api/http/router"
	"github.com/passkeyauth/passkey-server/internal/config"
	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/metrics"
	"github.com/passkeyauth/passkey-server/internal/repository/postgres"
	redisrepo "github.com/passkeyauth/passkey-server/internal/repository/redis"
	"github.com/passkeyauth/passkey-server/internal/server"
	"github.com/passkeyauth/passkey-server/internal/service"
	"github.com/passkeyauth/passkey-server/internal/verifier"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.ConnectTries)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	kv, err := redisrepo.NewConnection(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("failed to initialize redis", "error", err)
	}
	defer kv.Close()

	userRepo := postgres.NewUserRepository(db)
	credentialRepo := postgres.NewCredentialRepository(db)
	challengeRepo := redisrepo.NewChallengeRepository(kv)
	sessionRepo := redisrepo.NewSessionRepository(kv)

	wa, err := verifier.New(verifier.Config{
		RPID:          cfg.WebAuthn.RPID,
		RPDisplayName: cfg.WebAuthn.RPDisplayName,
		RPOrigins:     cfg.WebAuthn.RPOrigins,
	})
	if err != nil {
		logger.Fatal("failed to initialize verifier", "error", err)
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheus(registry)

	ceremonyService := service.NewCeremony(
		userRepo, credentialRepo, challengeRepo, sessionRepo, wa,
		recorder, logger,
		service.CeremonyConfig{
			ChallengeTTL: cfg.Ceremony.ChallengeTTL,
			SessionTTL:   cfg.Ceremony.SessionTTL,
			DecoySecret:  decoySecret(cfg.Ceremony.DecoySecret, logger),
		},
	)
	credentialsService := service.NewCredentials(credentialRepo, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(ceremonyService, credentialsService, ceremonyService, ctxMgr, recorder, registry, logger)
	httpServer := server.NewHTTP(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// decoySecret returns the configured secret, or a process-local random one
// when none is set. Decoy credential IDs only need to be stable within one
// process; multi-node deployments should configure a shared secret so all
// nodes offer the same decoys.
func decoySecret(configured string, logger *logger.Logger) []byte {
	if configured != "" {
		return []byte(configured)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		logger.Fatal("failed to generate decoy secret", "error", err)
	}
	logger.Info("no decoy secret configured, generated a process-local one")
	return secret
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
