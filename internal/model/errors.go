package model

import "errors"

var (
	// ErrNotFound indicates a store miss.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("already exists")
	// ErrIntegrity indicates a referential integrity violation.
	ErrIntegrity = errors.New("integrity constraint violated")
	// ErrStaleCounter is returned by the conditional counter update when
	// the new counter does not exceed the stored one.
	ErrStaleCounter = errors.New("stale signature counter")
	// ErrUnavailable indicates a transient store or verifier outage. It is
	// the only kind callers may retry.
	ErrUnavailable = errors.New("store unavailable")
)

// Ceremony failure kinds. At the external boundary all of them collapse to
// a single generic failure response; the distinction exists for internal
// diagnostics only.
var (
	ErrChallengeExpired    = errors.New("challenge expired or unknown")
	ErrVerificationFailed  = errors.New("verification failed")
	ErrDuplicateCredential = errors.New("credential already registered")
	ErrReplayDetected      = errors.New("signature counter replay detected")
)
