package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CredentialStore defines persistence operations for registered passkeys.
//
// UpdateCounter must be implemented as a single conditional write that
// accepts the new counter only if it exceeds the stored one. Callers rely
// on it as the final race-free gate against assertion replay.
type CredentialStore interface {
	Create(ctx context.Context, credential Credential) error
	GetByID(ctx context.Context, id []byte) (Credential, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Credential, error)
	UpdateCounter(ctx context.Context, id []byte, counter uint32) error
	Delete(ctx context.Context, id []byte, userID uuid.UUID) error
}

// Credential represents one public-key registration belonging to a user.
// A user may hold many credentials (one per device/authenticator).
type Credential struct {
	ID        []byte
	UserID    uuid.UUID
	PublicKey []byte
	Counter   uint32
	CreatedAt time.Time
}
