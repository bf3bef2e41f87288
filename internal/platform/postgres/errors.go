package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/storefront-api/internal/store"
)

// pgErrorKinds maps SQLSTATE codes to store errors.
var pgErrorKinds = map[string]struct {
	kind  error
	label string
}{
	"23505": {store.ErrDuplicate, "unique violation"},
	"23503": {store.ErrInvalidEntity, "foreign key violation"},
	"23514": {store.ErrInvalidEntity, "check constraint violation"},
	"23502": {store.ErrInvalidEntity, "not null violation"},
	"40001": {store.ErrTransactionFailed, "serialization failure"},
	"40P01": {store.ErrTransactionFailed, "deadlock detected"},
}

// MapError translates a database error into the matching store error. The
// original stays in the chain for logging. Unknown errors pass through.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	k, ok := pgErrorKinds[pgErr.Code]
	if !ok {
		return err
	}

	detail := pgErr.ConstraintName
	if detail == "" {
		detail = pgErr.ColumnName
	}
	if detail == "" {
		return fmt.Errorf("%w: %s: %w", k.kind, k.label, err)
	}
	return fmt.Errorf("%w: %s (%s): %w", k.kind, k.label, detail, err)
}
