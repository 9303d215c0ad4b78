package postgres

import (
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/passkeyauth/passkey-server/internal/model"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// classify maps driver errors to the store error taxonomy. It returns nil
// when the error carries no recognized kind, leaving the caller to wrap the
// raw error.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return model.ErrConflict
		case codeForeignKeyViolation:
			return model.ErrIntegrity
		}
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return model.ErrUnavailable
	}

	return nil
}
