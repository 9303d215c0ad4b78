package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/passkeyauth/passkey-server/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

type CredentialRepository struct {
	db *Connection
}

func NewCredentialRepository(db *Connection) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Create(ctx context.Context, credential model.Credential) error {
	const query = `
        INSERT INTO credentials (id, user_id, public_key, counter, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	if _, err := r.db.Exec(ctx, query,
		credential.ID,
		credential.UserID,
		credential.PublicKey,
		int64(credential.Counter),
		credential.CreatedAt,
	); err != nil {
		if kind := classify(err); kind != nil {
			return fmt.Errorf("failed to create credential: %w", kind)
		}
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) GetByID(ctx context.Context, id []byte) (model.Credential, error) {
	const query = `
        SELECT id, user_id, public_key, counter, created_at
        FROM credentials
        WHERE id = $1
    `
	var cred model.Credential
	var counter int64
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&cred.ID,
		&cred.UserID,
		&cred.PublicKey,
		&counter,
		&cred.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		if kind := classify(err); kind != nil {
			return model.Credential{}, fmt.Errorf("failed to get credential by id: %w", kind)
		}
		return model.Credential{}, fmt.Errorf("failed to get credential by id: %w", err)
	}
	cred.Counter = uint32(counter)
	return cred, nil
}

func (r *CredentialRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Credential, error) {
	const query = `
        SELECT id, user_id, public_key, counter, created_at
        FROM credentials
        WHERE user_id = $1
        ORDER BY created_at, id
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		if kind := classify(err); kind != nil {
			return nil, fmt.Errorf("failed to list credentials: %w", kind)
		}
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	credentials := make([]model.Credential, 0)
	for rows.Next() {
		var cred model.Credential
		var counter int64
		if err := rows.Scan(&cred.ID, &cred.UserID, &cred.PublicKey, &counter, &cred.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		cred.Counter = uint32(counter)
		credentials = append(credentials, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	return credentials, nil
}

// UpdateCounter is the conditional write guarding against assertion replay.
// The counter advances only when the new value exceeds the stored one; the
// whole check-and-set happens inside a single UPDATE so concurrent
// authentications against the same credential cannot both win.
func (r *CredentialRepository) UpdateCounter(ctx context.Context, id []byte, counter uint32) error {
	const query = `
        UPDATE credentials
        SET counter = $2
        WHERE id = $1 AND counter < $2
    `
	tag, err := r.db.Exec(ctx, query, id, int64(counter))
	if err != nil {
		if kind := classify(err); kind != nil {
			return fmt.Errorf("failed to update counter: %w", kind)
		}
		return fmt.Errorf("failed to update counter: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM credentials WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to update counter: %w", err)
	}
	if !exists {
		return model.ErrNotFound
	}
	return model.ErrStaleCounter
}

// Delete removes a credential, but only when it belongs to userID. An
// ownership mismatch is indistinguishable from a missing credential.
func (r *CredentialRepository) Delete(ctx context.Context, id []byte, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM credentials WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if kind := classify(err); kind != nil {
			return fmt.Errorf("failed to delete credential: %w", kind)
		}
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
