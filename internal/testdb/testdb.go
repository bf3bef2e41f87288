// Package testdb connects integration tests to a real PostgreSQL database.
//
// Tests using it are skipped unless STOREFRONT_TEST_DATABASE_URL is set.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// URLEnv names the variable holding the test database URL.
const URLEnv = "STOREFRONT_TEST_DATABASE_URL"

// TestTimeout bounds setup and cleanup queries.
const TestTimeout = 10 * time.Second

// DatabaseURL returns the test database URL, or "" when none is configured.
func DatabaseURL() string {
	return strings.TrimSpace(os.Getenv(URLEnv))
}

// Open connects to the test database, applies all migrations and closes the
// connection when the test ends. It skips t when no database is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := DatabaseURL()
	if dsn == "" {
		t.Skipf("%s not set", URLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, dsn, postgres.PoolOptions{MaxOpenConns: 4, MaxIdleConns: 2})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db, "up", nil), "failed to migrate test database")
	return db
}

// Subject returns an owner name unique to this test run.
func Subject(t *testing.T) string {
	t.Helper()
	return "it-" + uuid.NewString()
}

// DeleteWhere removes rows of table whose column equals value when the test
// ends. table and column must be trusted identifiers.
func DeleteWhere(t *testing.T, db *sql.DB, table, column string, value any) {
	t.Helper()
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, column)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		if _, err := db.ExecContext(ctx, query, value); err != nil {
			t.Logf("cleanup of %s failed: %v", table, err)
		}
	})
}
