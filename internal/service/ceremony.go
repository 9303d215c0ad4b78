package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/metrics"
	"github.com/passkeyauth/passkey-server/internal/model"
)

const (
	registrationKeyPrefix = "reg:"
	loginKeyPrefix        = "login:"
)

// CeremonyConfig carries ceremony timing and the decoy secret.
type CeremonyConfig struct {
	ChallengeTTL time.Duration
	SessionTTL   time.Duration
	DecoySecret  []byte
}

// Ceremony orchestrates WebAuthn registration and authentication. It holds
// no locks and no mutable state; single-use challenge consumption and the
// replay gate are delegated to the stores, which makes every operation safe
// under arbitrary concurrency.
type Ceremony struct {
	users       model.UserStore
	credentials model.CredentialStore
	challenges  model.ChallengeStore
	sessions    model.SessionStore
	verifier    model.Verifier
	recorder    metrics.Recorder
	logger      *logger.Logger

	challengeTTL time.Duration
	sessionTTL   time.Duration
	decoySecret  []byte
}

func NewCeremony(
	users model.UserStore,
	credentials model.CredentialStore,
	challenges model.ChallengeStore,
	sessions model.SessionStore,
	verifier model.Verifier,
	recorder metrics.Recorder,
	logger *logger.Logger,
	config CeremonyConfig,
) *Ceremony {
	return &Ceremony{
		users:        users,
		credentials:  credentials,
		challenges:   challenges,
		sessions:     sessions,
		verifier:     verifier,
		recorder:     recorder,
		logger:       logger,
		challengeTTL: config.ChallengeTTL,
		sessionTTL:   config.SessionTTL,
		decoySecret:  config.DecoySecret,
	}
}

// StartResult is the public outcome of a ceremony start: the key the client
// must present at finish and the protocol options to feed the authenticator.
type StartResult struct {
	ChallengeKey string
	Options      json.RawMessage
}

// RegistrationResult confirms a completed registration.
type RegistrationResult struct {
	CredentialID string
}

// LoginResult carries a freshly issued bearer session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// ceremonyState is the envelope parked in the challenge store between start
// and finish. State is the opaque verifier blob.
type ceremonyState struct {
	UserID uuid.UUID       `json:"user_id"`
	Handle string          `json:"handle"`
	Decoy  bool            `json:"decoy,omitempty"`
	State  json.RawMessage `json:"state"`
}

func (c *Ceremony) StartRegistration(ctx context.Context, handle string) (StartResult, error) {
	c.logger.Debug("Ceremony service: starting registration",
		"handle", handle)

	user, err := c.users.CreateIfAbsent(ctx, handle)
	if err != nil {
		c.logger.Error("Ceremony service: failed to resolve user",
			"handle", handle,
			"error", err.Error())
		return StartResult{}, fmt.Errorf("failed to resolve user: %w", err)
	}

	existing, err := c.credentials.ListByUser(ctx, user.ID)
	if err != nil {
		return StartResult{}, fmt.Errorf("failed to list credentials: %w", err)
	}

	excludeIDs := make([][]byte, len(existing))
	for i, cred := range existing {
		excludeIDs[i] = cred.ID
	}

	options, state, err := c.verifier.BeginRegistration(ctx, user, excludeIDs)
	if err != nil {
		return StartResult{}, fmt.Errorf("failed to begin registration: %w", err)
	}

	key, err := c.storeState(ctx, registrationKeyPrefix, ceremonyState{
		UserID: user.ID,
		Handle: user.Handle,
		State:  state,
	})
	if err != nil {
		return StartResult{}, err
	}

	c.recorder.CeremonyStarted(metrics.CeremonyRegistration)
	c.logger.Info("Ceremony service: registration started",
		"handle", handle,
		"challenge_key", key)

	return StartResult{ChallengeKey: key, Options: options}, nil
}

func (c *Ceremony) FinishRegistration(ctx context.Context, key string, response json.RawMessage) (RegistrationResult, error) {
	c.logger.Debug("Ceremony service: finishing registration",
		"challenge_key", key)

	env, err := c.takeState(ctx, registrationKeyPrefix, key)
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyRegistration, finishOutcome(err))
		return RegistrationResult{}, err
	}

	registered, err := c.verifier.FinishRegistration(ctx, env.State, response)
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyRegistration, finishOutcome(err))
		c.logger.Info("Ceremony service: registration rejected",
			"handle", env.Handle,
			"error", err.Error())
		return RegistrationResult{}, fmt.Errorf("failed to verify attestation: %w", err)
	}

	credential := model.Credential{
		ID:        registered.ID,
		UserID:    env.UserID,
		PublicKey: registered.PublicKey,
		Counter:   registered.Counter,
		CreatedAt: time.Now(),
	}

	err = c.credentials.Create(ctx, credential)
	if errors.Is(err, model.ErrConflict) {
		c.recorder.CeremonyFinished(metrics.CeremonyRegistration, metrics.OutcomeRejected)
		return RegistrationResult{}, fmt.Errorf("%w: %v", model.ErrDuplicateCredential, err)
	}
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyRegistration, metrics.OutcomeError)
		c.logger.Error("Ceremony service: failed to store credential",
			"handle", env.Handle,
			"error", err.Error())
		return RegistrationResult{}, fmt.Errorf("failed to store credential: %w", err)
	}

	c.recorder.CeremonyFinished(metrics.CeremonyRegistration, metrics.OutcomeSuccess)
	c.logger.Info("Ceremony service: registration completed",
		"handle", env.Handle)

	return RegistrationResult{
		CredentialID: base64.RawURLEncoding.EncodeToString(registered.ID),
	}, nil
}

func (c *Ceremony) StartLogin(ctx context.Context, handle string) (StartResult, error) {
	c.logger.Debug("Ceremony service: starting login",
		"handle", handle)

	user, err := c.users.GetByHandle(ctx, handle)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return StartResult{}, fmt.Errorf("failed to get user by handle: %w", err)
	}

	var credentials []model.Credential
	if err == nil {
		credentials, err = c.credentials.ListByUser(ctx, user.ID)
		if err != nil {
			return StartResult{}, fmt.Errorf("failed to list credentials: %w", err)
		}
	}

	// Unknown handles and handles without registered credentials get a
	// structurally identical challenge scoped to a deterministic decoy
	// credential. The decoy state takes the same store round-trip as the
	// real one, so an observer cannot tell the paths apart by response
	// shape or latency, and no assertion against the decoy can ever
	// verify.
	decoy := len(credentials) == 0
	if decoy {
		user = c.decoyUser(handle)
		credentials = []model.Credential{{ID: c.decoyCredentialID(handle)}}
	}

	options, state, err := c.verifier.BeginLogin(ctx, user, credentials)
	if err != nil {
		return StartResult{}, fmt.Errorf("failed to begin login: %w", err)
	}

	key, err := c.storeState(ctx, loginKeyPrefix, ceremonyState{
		UserID: user.ID,
		Handle: handle,
		Decoy:  decoy,
		State:  state,
	})
	if err != nil {
		return StartResult{}, err
	}

	c.recorder.CeremonyStarted(metrics.CeremonyAuthentication)
	c.logger.Info("Ceremony service: login started",
		"handle", handle,
		"challenge_key", key)

	return StartResult{ChallengeKey: key, Options: options}, nil
}

func (c *Ceremony) FinishLogin(ctx context.Context, key string, response json.RawMessage) (LoginResult, error) {
	c.logger.Debug("Ceremony service: finishing login",
		"challenge_key", key)

	env, err := c.takeState(ctx, loginKeyPrefix, key)
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, finishOutcome(err))
		return LoginResult{}, err
	}

	credentialID, err := c.verifier.CredentialID(response)
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeRejected)
		return LoginResult{}, fmt.Errorf("failed to read credential id: %w", err)
	}

	// The decoy path falls through here naturally: its credential ID is
	// never persisted, so the lookup misses and the failure is identical
	// to presenting a foreign credential.
	credential, err := c.credentials.GetByID(ctx, credentialID)
	if errors.Is(err, model.ErrNotFound) {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeRejected)
		return LoginResult{}, fmt.Errorf("%w: unknown credential", model.ErrVerificationFailed)
	}
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeError)
		return LoginResult{}, fmt.Errorf("failed to get credential: %w", err)
	}

	if env.Decoy || credential.UserID != env.UserID {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeRejected)
		return LoginResult{}, fmt.Errorf("%w: credential does not belong to challenged user", model.ErrVerificationFailed)
	}

	assertion, err := c.verifier.FinishLogin(ctx, env.State, credential, response)
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, finishOutcome(err))
		c.logger.Info("Ceremony service: login rejected",
			"handle", env.Handle,
			"error", err.Error())
		return LoginResult{}, fmt.Errorf("failed to verify assertion: %w", err)
	}

	if assertion.Counter <= credential.Counter {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeReplay)
		c.logger.Error("Ceremony service: signature counter did not advance",
			"handle", env.Handle,
			"stored", credential.Counter,
			"reported", assertion.Counter)
		return LoginResult{}, fmt.Errorf("%w: counter %d not above %d", model.ErrReplayDetected, assertion.Counter, credential.Counter)
	}

	err = c.credentials.UpdateCounter(ctx, credential.ID, assertion.Counter)
	if errors.Is(err, model.ErrStaleCounter) {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeReplay)
		return LoginResult{}, fmt.Errorf("%w: lost counter race", model.ErrReplayDetected)
	}
	if errors.Is(err, model.ErrNotFound) {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeRejected)
		return LoginResult{}, fmt.Errorf("%w: credential no longer exists", model.ErrVerificationFailed)
	}
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeError)
		return LoginResult{}, fmt.Errorf("failed to update counter: %w", err)
	}

	result, err := c.issueSession(ctx, env.UserID, env.Handle)
	if err != nil {
		c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeError)
		return LoginResult{}, err
	}

	c.recorder.CeremonyFinished(metrics.CeremonyAuthentication, metrics.OutcomeSuccess)
	c.logger.Info("Ceremony service: login completed",
		"handle", env.Handle)

	return result, nil
}

// Authenticate resolves a bearer token to its session.
func (c *Ceremony) Authenticate(ctx context.Context, token string) (model.Session, error) {
	session, err := c.sessions.Get(ctx, token)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// Logout drops the session. Unknown tokens are not an error.
func (c *Ceremony) Logout(ctx context.Context, token string) error {
	if err := c.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (c *Ceremony) issueSession(ctx context.Context, userID uuid.UUID, handle string) (LoginResult, error) {
	token, err := newSessionToken()
	if err != nil {
		return LoginResult{}, err
	}

	expiresAt := time.Now().Add(c.sessionTTL)
	session := model.Session{
		UserID:    userID,
		Handle:    handle,
		ExpiresAt: expiresAt,
	}

	if err := c.sessions.Put(ctx, token, session, c.sessionTTL); err != nil {
		return LoginResult{}, fmt.Errorf("failed to store session: %w", err)
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

func (c *Ceremony) storeState(ctx context.Context, prefix string, env ceremonyState) (string, error) {
	key, err := newChallengeKey()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ceremony state: %w", err)
	}

	if err := c.challenges.Put(ctx, prefix+key, payload, c.challengeTTL); err != nil {
		return "", fmt.Errorf("failed to store challenge: %w", err)
	}

	return key, nil
}

func (c *Ceremony) takeState(ctx context.Context, prefix, key string) (ceremonyState, error) {
	payload, err := c.challenges.Take(ctx, prefix+key)
	if errors.Is(err, model.ErrNotFound) {
		return ceremonyState{}, fmt.Errorf("%w: %s", model.ErrChallengeExpired, key)
	}
	if err != nil {
		return ceremonyState{}, fmt.Errorf("failed to take challenge: %w", err)
	}

	var env ceremonyState
	if err := json.Unmarshal(payload, &env); err != nil {
		return ceremonyState{}, fmt.Errorf("failed to unmarshal ceremony state: %w", err)
	}

	return env, nil
}

// decoyCredentialID derives a stable fake credential ID for a handle.
// Determinism matters: repeated starts for the same unknown handle must
// offer the same credential, exactly as they would for a registered one.
func (c *Ceremony) decoyCredentialID(handle string) []byte {
	mac := hmac.New(sha256.New, c.decoySecret)
	mac.Write([]byte(handle))
	return mac.Sum(nil)
}

func (c *Ceremony) decoyUser(handle string) model.User {
	id := c.decoyCredentialID("user:" + handle)
	return model.User{
		ID:     uuid.Must(uuid.FromBytes(id[:16])),
		Handle: handle,
	}
}

func finishOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, model.ErrChallengeExpired):
		return metrics.OutcomeExpired
	case errors.Is(err, model.ErrReplayDetected):
		return metrics.OutcomeReplay
	case errors.Is(err, model.ErrVerificationFailed),
		errors.Is(err, model.ErrDuplicateCredential):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func newChallengeKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate challenge key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
