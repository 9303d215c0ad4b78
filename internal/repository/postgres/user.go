package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/passkeyauth/passkey-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (model.User, error) {
	var user model.User
	query := `SELECT id, handle, created_at FROM users WHERE handle = $1`

	err := r.db.QueryRow(ctx, query, handle).Scan(&user.ID, &user.Handle, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if kind := classify(err); kind != nil {
			return model.User{}, fmt.Errorf("failed to get user by handle: %w", kind)
		}
		return model.User{}, fmt.Errorf("failed to get user by handle: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	query := `SELECT id, handle, created_at FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Handle, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if kind := classify(err); kind != nil {
			return model.User{}, fmt.Errorf("failed to get user by id: %w", kind)
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// CreateIfAbsent resolves the user for handle, inserting a new row when none
// exists. The no-op conflict update makes the statement return the existing
// row, so concurrent registration starts for the same handle race safely.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, handle string) (model.User, error) {
	query := `INSERT INTO users (id, handle, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (handle) DO UPDATE SET handle = EXCLUDED.handle
			  RETURNING id, handle, created_at`

	var user model.User
	err := r.db.QueryRow(ctx, query, uuid.New(), handle, time.Now()).Scan(
		&user.ID, &user.Handle, &user.CreatedAt,
	)
	if err != nil {
		if kind := classify(err); kind != nil {
			return model.User{}, fmt.Errorf("failed to create user: %w", kind)
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Delete removes the user row; credentials go with it via cascade.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if kind := classify(err); kind != nil {
			return fmt.Errorf("failed to delete user: %w", kind)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
