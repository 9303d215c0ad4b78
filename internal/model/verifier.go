package model

import (
	"context"
	"encoding/json"
)

// Verifier performs the cryptographic half of a WebAuthn ceremony. The
// Begin operations produce public challenge options for the client plus an
// opaque state blob that must be presented back at Finish. Implementations
// never touch the stores; all persistence decisions remain with the caller.
type Verifier interface {
	// BeginRegistration produces creation options for a new credential,
	// excluding credential IDs already registered to the user.
	BeginRegistration(ctx context.Context, user User, excludeIDs [][]byte) (options json.RawMessage, state []byte, err error)

	// FinishRegistration verifies an attestation response against the state
	// blob from BeginRegistration and returns the verified credential.
	FinishRegistration(ctx context.Context, state []byte, response json.RawMessage) (RegisteredCredential, error)

	// BeginLogin produces assertion options scoped to the given credentials.
	BeginLogin(ctx context.Context, user User, credentials []Credential) (options json.RawMessage, state []byte, err error)

	// FinishLogin verifies an assertion response against the state blob and
	// the stored credential, reporting the signature counter the
	// authenticator claims.
	FinishLogin(ctx context.Context, state []byte, credential Credential, response json.RawMessage) (Assertion, error)

	// CredentialID extracts the credential identifier from a raw assertion
	// response without verifying it.
	CredentialID(response json.RawMessage) ([]byte, error)
}

// RegisteredCredential is the outcome of a successful registration finish.
// PublicKey is opaque verifier-specific key material.
type RegisteredCredential struct {
	ID        []byte
	PublicKey []byte
	Counter   uint32
}

// Assertion is the outcome of a successful authentication finish.
type Assertion struct {
	CredentialID []byte
	Counter      uint32
}
