package auth

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret is the signing secret used by DefaultJWTConfig.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestJWTSecret,
		TokenLifetimeMinutes: 60,
		ClockSkewSeconds:     0,
		RevocationBackend:    "memory",
	}
}

// NewTestJWTService creates a JWT service with default configuration for testing.
func NewTestJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err)
	return svc
}

// NewTestJWTServiceAt creates a JWT service whose clock is fixed by now.
func NewTestJWTServiceAt(t *testing.T, cfg config.AuthConfig, now func() time.Time) JWTService {
	t.Helper()
	svc, err := newHMACJWTService(cfg, now)
	require.NoError(t, err)
	return svc
}

// GenerateAuthHeader mints a token for subject and role and returns it as
// an Authorization header value.
func GenerateAuthHeader(t *testing.T, svc JWTService, subject string, role domain.Role) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), subject, role)
	require.NoError(t, err)
	return "Bearer " + token
}
