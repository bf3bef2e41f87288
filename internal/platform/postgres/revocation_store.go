package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

// RevocationStore records revoked token IDs in the revoked_tokens table.
type RevocationStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewRevocationStore creates a RevocationStore over db.
func NewRevocationStore(db *sql.DB, logger *slog.Logger) *RevocationStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RevocationStore{
		db:     db,
		logger: logger.With(slog.String("component", "revocation_store")),
		now:    time.Now,
	}
}

// Revoke marks tokenID as revoked until expiresAt. Revoking twice extends
// the entry to the later expiry.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (token_id, expires_at, revoked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_id) DO UPDATE
		SET expires_at = GREATEST(revoked_tokens.expires_at, EXCLUDED.expires_at)
	`, tokenID, expiresAt.UTC(), s.now().UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to revoke token",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to revoke token: %w", MapError(err))
	}
	return nil
}

// IsRevoked reports whether tokenID has an unexpired revocation entry.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM revoked_tokens
		WHERE token_id = $1 AND expires_at > $2
	`, tokenID, s.now().UTC()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", MapError(err))
	}
	return true, nil
}

// PurgeExpired deletes entries whose tokens have expired anyway.
func (s *RevocationStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", MapError(err))
	}
	return res.RowsAffected()
}
