package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/passkeyauth/passkey-server/internal/metrics"
	"github.com/passkeyauth/passkey-server/internal/mocks"
	"github.com/passkeyauth/passkey-server/internal/model"
	"github.com/passkeyauth/passkey-server/internal/testutil"
)

type ceremonyFixture struct {
	users       *mocks.UserStore
	credentials *mocks.CredentialStore
	challenges  *mocks.ChallengeStore
	sessions    *mocks.SessionStore
	verifier    *mocks.Verifier
	ceremony    *Ceremony
}

func newCeremonyFixture(t *testing.T) *ceremonyFixture {
	t.Helper()

	f := &ceremonyFixture{
		users:       &mocks.UserStore{},
		credentials: &mocks.CredentialStore{},
		challenges:  &mocks.ChallengeStore{},
		sessions:    &mocks.SessionStore{},
		verifier:    &mocks.Verifier{},
	}
	f.ceremony = NewCeremony(
		f.users, f.credentials, f.challenges, f.sessions, f.verifier,
		metrics.NewNoop(), testutil.MakeNoopLogger(),
		CeremonyConfig{
			ChallengeTTL: 5 * time.Minute,
			SessionTTL:   time.Hour,
			DecoySecret:  []byte("test-decoy-secret"),
		},
	)
	return f
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestCeremony_StartRegistration_Success(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	user := model.User{ID: uuid.New(), Handle: "alice"}
	existing := []model.Credential{{ID: []byte("cred-1"), UserID: user.ID}}

	f.users.On("CreateIfAbsent", mock.Anything, "alice").Return(user, nil)
	f.credentials.On("ListByUser", mock.Anything, user.ID).Return(existing, nil)
	f.verifier.On("BeginRegistration", mock.Anything, user, [][]byte{[]byte("cred-1")}).
		Return(json.RawMessage(`{"publicKey":{}}`), []byte("state"), nil)
	f.challenges.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) == len(registrationKeyPrefix)+32 && key[:len(registrationKeyPrefix)] == registrationKeyPrefix
	}), mock.Anything, 5*time.Minute).Return(nil)

	result, err := f.ceremony.StartRegistration(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, result.ChallengeKey, 32)
	assert.JSONEq(t, `{"publicKey":{}}`, string(result.Options))
	f.challenges.AssertExpectations(t)
}

func TestCeremony_FinishRegistration_Success(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	userID := uuid.New()
	env := mustJSON(t, ceremonyState{UserID: userID, Handle: "alice", State: json.RawMessage(`"s"`)})
	registered := model.RegisteredCredential{ID: []byte("new-cred"), PublicKey: []byte("pk"), Counter: 0}

	f.challenges.On("Take", mock.Anything, "reg:key").Return(env, nil)
	f.verifier.On("FinishRegistration", mock.Anything, []byte(`"s"`), json.RawMessage(`{}`)).
		Return(registered, nil)
	f.credentials.On("Create", mock.Anything, mock.MatchedBy(func(c model.Credential) bool {
		return string(c.ID) == "new-cred" && c.UserID == userID &&
			string(c.PublicKey) == "pk" && !c.CreatedAt.IsZero()
	})).Return(nil)

	result, err := f.ceremony.FinishRegistration(ctx, "key", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, base64.RawURLEncoding.EncodeToString([]byte("new-cred")), result.CredentialID)
}

func TestCeremony_FinishRegistration_ChallengeExpired(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	f.challenges.On("Take", mock.Anything, "reg:gone").Return(nil, model.ErrNotFound)

	_, err := f.ceremony.FinishRegistration(ctx, "gone", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, model.ErrChallengeExpired)
	f.verifier.AssertNotCalled(t, "FinishRegistration", mock.Anything, mock.Anything, mock.Anything)
	f.credentials.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCeremony_FinishRegistration_VerificationFailure(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	env := mustJSON(t, ceremonyState{UserID: uuid.New(), Handle: "alice", State: json.RawMessage(`"s"`)})
	f.challenges.On("Take", mock.Anything, "reg:key").Return(env, nil)
	f.verifier.On("FinishRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(model.RegisteredCredential{}, model.ErrVerificationFailed)

	_, err := f.ceremony.FinishRegistration(ctx, "key", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, model.ErrVerificationFailed)
	f.credentials.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCeremony_FinishRegistration_DuplicateCredential(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	env := mustJSON(t, ceremonyState{UserID: uuid.New(), Handle: "alice", State: json.RawMessage(`"s"`)})
	f.challenges.On("Take", mock.Anything, "reg:key").Return(env, nil)
	f.verifier.On("FinishRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(model.RegisteredCredential{ID: []byte("dup")}, nil)
	f.credentials.On("Create", mock.Anything, mock.Anything).Return(model.ErrConflict)

	_, err := f.ceremony.FinishRegistration(ctx, "key", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, model.ErrDuplicateCredential)
}

func TestCeremony_StartLogin_KnownHandle(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	user := model.User{ID: uuid.New(), Handle: "alice"}
	credentials := []model.Credential{{ID: []byte("cred-1"), UserID: user.ID, PublicKey: []byte("pk")}}

	f.users.On("GetByHandle", mock.Anything, "alice").Return(user, nil)
	f.credentials.On("ListByUser", mock.Anything, user.ID).Return(credentials, nil)
	f.verifier.On("BeginLogin", mock.Anything, user, credentials).
		Return(json.RawMessage(`{"publicKey":{}}`), []byte("state"), nil)
	f.challenges.On("Put", mock.Anything, mock.Anything, mock.Anything, 5*time.Minute).Return(nil)

	result, err := f.ceremony.StartLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, result.ChallengeKey, 32)
	assert.NotEmpty(t, result.Options)
}

func TestCeremony_StartLogin_UnknownHandleLooksIdentical(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	var decoyCreds [][]model.Credential
	f.users.On("GetByHandle", mock.Anything, "ghost").Return(model.User{}, model.ErrNotFound)
	f.verifier.On("BeginLogin", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			decoyCreds = append(decoyCreds, args.Get(2).([]model.Credential))
		}).
		Return(json.RawMessage(`{"publicKey":{}}`), []byte("state"), nil)
	f.challenges.On("Put", mock.Anything, mock.Anything, mock.Anything, 5*time.Minute).Return(nil)

	first, err := f.ceremony.StartLogin(ctx, "ghost")
	require.NoError(t, err)
	second, err := f.ceremony.StartLogin(ctx, "ghost")
	require.NoError(t, err)

	// Same response shape as the known-handle path.
	assert.Len(t, first.ChallengeKey, 32)
	assert.NotEmpty(t, first.Options)
	assert.NotEqual(t, first.ChallengeKey, second.ChallengeKey)

	// Exactly one decoy credential, deterministic across starts, never
	// carrying key material.
	require.Len(t, decoyCreds, 2)
	require.Len(t, decoyCreds[0], 1)
	assert.NotEmpty(t, decoyCreds[0][0].ID)
	assert.Empty(t, decoyCreds[0][0].PublicKey)
	assert.Equal(t, decoyCreds[0][0].ID, decoyCreds[1][0].ID)

	// The decoy state is parked in the challenge store like a real one.
	f.challenges.AssertNumberOfCalls(t, "Put", 2)
}

func TestCeremony_FinishLogin_Success(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	userID := uuid.New()
	credential := model.Credential{ID: []byte("cred-1"), UserID: userID, PublicKey: []byte("pk"), Counter: 4}
	env := mustJSON(t, ceremonyState{UserID: userID, Handle: "alice", State: json.RawMessage(`"s"`)})

	f.challenges.On("Take", mock.Anything, "login:key").Return(env, nil)
	f.verifier.On("CredentialID", json.RawMessage(`{}`)).Return([]byte("cred-1"), nil)
	f.credentials.On("GetByID", mock.Anything, []byte("cred-1")).Return(credential, nil)
	f.verifier.On("FinishLogin", mock.Anything, []byte(`"s"`), credential, json.RawMessage(`{}`)).
		Return(model.Assertion{CredentialID: []byte("cred-1"), Counter: 5}, nil)
	f.credentials.On("UpdateCounter", mock.Anything, []byte("cred-1"), uint32(5)).Return(nil)
	f.sessions.On("Put", mock.Anything, mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		return s.UserID == userID && s.Handle == "alice"
	}), time.Hour).Return(nil)

	result, err := f.ceremony.FinishLogin(ctx, "key", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), result.ExpiresAt, time.Minute)
	f.sessions.AssertExpectations(t)
}

func TestCeremony_FinishLogin_ReplayedCounter(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	userID := uuid.New()
	credential := model.Credential{ID: []byte("cred-1"), UserID: userID, PublicKey: []byte("pk"), Counter: 7}
	env := mustJSON(t, ceremonyState{UserID: userID, Handle: "alice", State: json.RawMessage(`"s"`)})

	f.challenges.On("Take", mock.Anything, "login:key").Return(env, nil)
	f.verifier.On("CredentialID", mock.Anything).Return([]byte("cred-1"), nil)
	f.credentials.On("GetByID", mock.Anything, []byte("cred-1")).Return(credential, nil)
	f.verifier.On("FinishLogin", mock.Anything, mock.Anything, credential, mock.Anything).
		Return(model.Assertion{CredentialID: []byte("cred-1"), Counter: 7}, nil)

	_, err := f.ceremony.FinishLogin(ctx, "key", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, model.ErrReplayDetected)
	f.credentials.AssertNotCalled(t, "UpdateCounter", mock.Anything, mock.Anything, mock.Anything)
	f.sessions.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCeremony_FinishLogin_LostCounterRace(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	userID := uuid.New()
	credential := model.Credential{ID: []byte("cred-1"), UserID: userID, PublicKey: []byte("pk"), Counter: 4}
	env := mustJSON(t, ceremonyState{UserID: userID, Handle: "alice", State: json.RawMessage(`"s"`)})

	f.challenges.On("Take", mock.Anything, "login:key").Return(env, nil)
	f.verifier.On("CredentialID", mock.Anything).Return([]byte("cred-1"), nil)
	f.credentials.On("GetByID", mock.Anything, []byte("cred-1")).Return(credential, nil)
	f.verifier.On("FinishLogin", mock.Anything, mock.Anything, credential, mock.Anything).
		Return(model.Assertion{CredentialID: []byte("cred-1"), Counter: 5}, nil)
	f.credentials.On("UpdateCounter", mock.Anything, []byte("cred-1"), uint32(5)).
		Return(model.ErrStaleCounter)

	_, err := f.ceremony.FinishLogin(ctx, "key", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, model.ErrReplayDetected)
	f.sessions.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCeremony_FinishLogin_UnknownCredential(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	env := mustJSON(t, ceremonyState{UserID: uuid.New(), Handle: "ghost", Decoy: true, State: json.RawMessage(`"s"`)})

	f.challenges.On("Take", mock.Anything, "login:key").Return(env, nil)
	f.verifier.On("CredentialID", mock.Anything).Return([]byte("decoy-id"), nil)
	f.credentials.On("GetByID", mock.Anything, []byte("decoy-id")).
		Return(model.Credential{}, model.ErrNotFound)

	_, err := f.ceremony.FinishLogin(ctx, "key", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, model.ErrVerificationFailed)
	f.verifier.AssertNotCalled(t, "FinishLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCeremony_FinishLogin_ForeignCredential(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	credential := model.Credential{ID: []byte("cred-1"), UserID: uuid.New(), PublicKey: []byte("pk")}
	env := mustJSON(t, ceremonyState{UserID: uuid.New(), Handle: "alice", State: json.RawMessage(`"s"`)})

	f.challenges.On("Take", mock.Anything, "login:key").Return(env, nil)
	f.verifier.On("CredentialID", mock.Anything).Return([]byte("cred-1"), nil)
	f.credentials.On("GetByID", mock.Anything, []byte("cred-1")).Return(credential, nil)

	_, err := f.ceremony.FinishLogin(ctx, "key", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, model.ErrVerificationFailed)
	f.verifier.AssertNotCalled(t, "FinishLogin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCeremony_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	session := model.Session{UserID: uuid.New(), Handle: "alice", ExpiresAt: time.Now().Add(time.Hour)}
	f.sessions.On("Get", mock.Anything, "token-1").Return(session, nil)
	f.sessions.On("Get", mock.Anything, "token-2").Return(model.Session{}, model.ErrNotFound)

	got, err := f.ceremony.Authenticate(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, session, got)

	_, err = f.ceremony.Authenticate(ctx, "token-2")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCeremony_Logout(t *testing.T) {
	ctx := context.Background()
	f := newCeremonyFixture(t)

	f.sessions.On("Delete", mock.Anything, "token-1").Return(nil)

	require.NoError(t, f.ceremony.Logout(ctx, "token-1"))
}
