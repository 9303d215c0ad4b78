package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/passkeyauth/passkey-server/internal/logger"
	"github.com/passkeyauth/passkey-server/internal/model"
)

// Credentials exposes session-scoped credential management. Key material
// never leaves this layer; callers only see opaque identifiers.
type Credentials struct {
	credentials model.CredentialStore
	logger      *logger.Logger
}

func NewCredentials(credentials model.CredentialStore, logger *logger.Logger) *Credentials {
	return &Credentials{
		credentials: credentials,
		logger:      logger,
	}
}

// CredentialView is the sanitized public projection of a credential.
type CredentialView struct {
	ID        string
	CreatedAt time.Time
}

func (c *Credentials) List(ctx context.Context, userID uuid.UUID) ([]CredentialView, error) {
	credentials, err := c.credentials.ListByUser(ctx, userID)
	if err != nil {
		c.logger.Error("Credentials service: failed to list credentials",
			"user_id", userID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	views := make([]CredentialView, len(credentials))
	for i, credential := range credentials {
		views[i] = CredentialView{
			ID:        base64.RawURLEncoding.EncodeToString(credential.ID),
			CreatedAt: credential.CreatedAt,
		}
	}

	return views, nil
}

// Delete removes one of the caller's credentials. A credential owned by
// someone else is reported as not found, same as a missing one.
func (c *Credentials) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	credentialID, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return fmt.Errorf("%w: malformed credential id", model.ErrNotFound)
	}

	if err := c.credentials.Delete(ctx, credentialID, userID); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	c.logger.Info("Credentials service: credential deleted",
		"user_id", userID)

	return nil
}
