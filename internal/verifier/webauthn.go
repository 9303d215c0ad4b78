package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"

	"github.com/passkeyauth/passkey-server/internal/model"
)

// Config contains relying party identity parameters.
type Config struct {
	RPID          string
	RPDisplayName string
	RPOrigins     []string
}

var _ model.Verifier = (*WebAuthn)(nil)

// WebAuthn implements model.Verifier on top of the go-webauthn protocol
// library. The library performs all signature and attestation checks; this
// type only translates between the stored representation and the library's
// types. Ceremony state round-trips through an opaque JSON blob so the
// caller can park it in the challenge store between start and finish.
type WebAuthn struct {
	wa *webauthn.WebAuthn
}

func New(cfg Config) (*WebAuthn, error) {
	wa, err := webauthn.New(&webauthn.Config{
		RPID:          cfg.RPID,
		RPDisplayName: cfg.RPDisplayName,
		RPOrigins:     cfg.RPOrigins,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create webauthn instance: %w", err)
	}
	return &WebAuthn{wa: wa}, nil
}

func (v *WebAuthn) BeginRegistration(ctx context.Context, user model.User, excludeIDs [][]byte) (json.RawMessage, []byte, error) {
	exclusions := make([]protocol.CredentialDescriptor, len(excludeIDs))
	for i, id := range excludeIDs {
		exclusions[i] = protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: id,
		}
	}

	creation, session, err := v.wa.BeginRegistration(newCeremonyUser(user, nil), webauthn.WithExclusions(exclusions))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin registration: %w", err)
	}

	return marshalCeremony(creation, session)
}

func (v *WebAuthn) FinishRegistration(ctx context.Context, state []byte, response json.RawMessage) (model.RegisteredCredential, error) {
	var session webauthn.SessionData
	if err := json.Unmarshal(state, &session); err != nil {
		return model.RegisteredCredential{}, fmt.Errorf("failed to unmarshal ceremony state: %w", err)
	}

	parsed, err := protocol.ParseCredentialCreationResponseBody(bytes.NewReader(response))
	if err != nil {
		return model.RegisteredCredential{}, fmt.Errorf("%w: %v", model.ErrVerificationFailed, err)
	}

	cred, err := v.wa.CreateCredential(sessionUser{id: session.UserID}, session, parsed)
	if err != nil {
		return model.RegisteredCredential{}, fmt.Errorf("%w: %v", model.ErrVerificationFailed, err)
	}

	publicKey, err := json.Marshal(cred)
	if err != nil {
		return model.RegisteredCredential{}, fmt.Errorf("failed to marshal credential: %w", err)
	}

	return model.RegisteredCredential{
		ID:        cred.ID,
		PublicKey: publicKey,
		Counter:   cred.Authenticator.SignCount,
	}, nil
}

func (v *WebAuthn) BeginLogin(ctx context.Context, user model.User, credentials []model.Credential) (json.RawMessage, []byte, error) {
	creds := make([]webauthn.Credential, len(credentials))
	for i, c := range credentials {
		wc, err := toLibraryCredential(c)
		if err != nil {
			return nil, nil, err
		}
		creds[i] = wc
	}

	assertion, session, err := v.wa.BeginLogin(newCeremonyUser(user, creds))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin login: %w", err)
	}

	return marshalCeremony(assertion, session)
}

func (v *WebAuthn) FinishLogin(ctx context.Context, state []byte, credential model.Credential, response json.RawMessage) (model.Assertion, error) {
	var session webauthn.SessionData
	if err := json.Unmarshal(state, &session); err != nil {
		return model.Assertion{}, fmt.Errorf("failed to unmarshal ceremony state: %w", err)
	}

	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(response))
	if err != nil {
		return model.Assertion{}, fmt.Errorf("%w: %v", model.ErrVerificationFailed, err)
	}

	wc, err := toLibraryCredential(credential)
	if err != nil {
		return model.Assertion{}, err
	}

	result, err := v.wa.ValidateLogin(sessionUser{id: session.UserID, creds: []webauthn.Credential{wc}}, session, parsed)
	if err != nil {
		return model.Assertion{}, fmt.Errorf("%w: %v", model.ErrVerificationFailed, err)
	}

	return model.Assertion{
		CredentialID: result.ID,
		Counter:      result.Authenticator.SignCount,
	}, nil
}

func (v *WebAuthn) CredentialID(response json.RawMessage) ([]byte, error) {
	parsed, err := protocol.ParseCredentialRequestResponseBody(bytes.NewReader(response))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrVerificationFailed, err)
	}
	return parsed.RawID, nil
}

// marshalCeremony serializes the public options and the private session
// state of a started ceremony.
func marshalCeremony(options any, session *webauthn.SessionData) (json.RawMessage, []byte, error) {
	opts, err := json.Marshal(options)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal challenge options: %w", err)
	}
	state, err := json.Marshal(session)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal ceremony state: %w", err)
	}
	return opts, state, nil
}

// toLibraryCredential rebuilds the library credential from the stored
// public-key blob. A credential without key material (a decoy used on the
// anti-enumeration path) yields a bare descriptor carrying only the ID.
// The stored counter column is authoritative and overrides whatever the
// blob was serialized with.
func toLibraryCredential(c model.Credential) (webauthn.Credential, error) {
	if len(c.PublicKey) == 0 {
		return webauthn.Credential{ID: c.ID}, nil
	}

	var wc webauthn.Credential
	if err := json.Unmarshal(c.PublicKey, &wc); err != nil {
		return webauthn.Credential{}, fmt.Errorf("failed to unmarshal credential key material: %w", err)
	}
	wc.Authenticator.SignCount = c.Counter
	return wc, nil
}

// ceremonyUser adapts a stored user to the library's user interface for
// ceremony starts.
type ceremonyUser struct {
	id    []byte
	name  string
	creds []webauthn.Credential
}

func newCeremonyUser(user model.User, creds []webauthn.Credential) *ceremonyUser {
	return &ceremonyUser{
		id:    user.ID[:],
		name:  user.Handle,
		creds: creds,
	}
}

func (u *ceremonyUser) WebAuthnID() []byte                         { return u.id }
func (u *ceremonyUser) WebAuthnName() string                       { return u.name }
func (u *ceremonyUser) WebAuthnDisplayName() string                { return u.name }
func (u *ceremonyUser) WebAuthnCredentials() []webauthn.Credential { return u.creds }

// sessionUser carries the identity recorded in the ceremony state for
// finish calls, where only the user handle bytes and the candidate
// credentials matter.
type sessionUser struct {
	id    []byte
	creds []webauthn.Credential
}

func (u sessionUser) WebAuthnID() []byte                         { return u.id }
func (u sessionUser) WebAuthnName() string                       { return "" }
func (u sessionUser) WebAuthnDisplayName() string                { return "" }
func (u sessionUser) WebAuthnCredentials() []webauthn.Credential { return u.creds }
