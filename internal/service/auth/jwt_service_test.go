package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	require.Error(t, err)

	cfg := DefaultJWTConfig()
	cfg.TokenLifetimeMinutes = 0
	svc, err := newHMACJWTService(cfg, clockAt(fixedNow))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.tokenLifetime)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := NewTestJWTServiceAt(t, DefaultJWTConfig(), clockAt(fixedNow))
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, "u1", domain.RoleUser)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.IssuedAt.Equal(fixedNow))
	assert.True(t, claims.ExpiresAt.Equal(fixedNow.Add(time.Hour)))

	other, err := svc.GenerateToken(ctx, "u1", domain.RoleUser)
	require.NoError(t, err)
	otherClaims, err := svc.ValidateToken(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID, "each token carries a distinct jti")
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	cfg := DefaultJWTConfig()
	cfg.ClockSkewSeconds = 30
	svc := NewTestJWTServiceAt(t, cfg, clockAt(fixedNow))
	key := []byte(TestJWTSecret)

	sign := func(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	claimsWith := func(sub string, iat, exp time.Time) jwtCustomClaims {
		c := jwtCustomClaims{UserID: sub, Role: "user"}
		c.Subject = sub
		c.IssuedAt = jwt.NewNumericDate(iat)
		if !exp.IsZero() {
			c.ExpiresAt = jwt.NewNumericDate(exp)
		}
		return c
	}
	withRole := func(c jwtCustomClaims, role string) jwtCustomClaims {
		c.Role = role
		return c
	}
	valid := sign(t, jwt.SigningMethodHS256, key, claimsWith("u1", fixedNow, fixedNow.Add(time.Hour)))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "expired beyond skew",
			token:   sign(t, jwt.SigningMethodHS256, key, claimsWith("u1", fixedNow.Add(-2*time.Hour), fixedNow.Add(-time.Minute))),
			wantErr: ErrExpiredToken,
		},
		{
			name:    "issued in the future",
			token:   sign(t, jwt.SigningMethodHS256, key, claimsWith("u1", fixedNow.Add(time.Hour), fixedNow.Add(2*time.Hour))),
			wantErr: ErrTokenNotYetValid,
		},
		{
			name:    "no expiry",
			token:   sign(t, jwt.SigningMethodHS256, key, claimsWith("u1", fixedNow, time.Time{})),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong secret",
			token:   sign(t, jwt.SigningMethodHS256, []byte("a-different-secret-of-32-characters!"), claimsWith("u1", fixedNow, fixedNow.Add(time.Hour))),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong algorithm",
			token:   sign(t, jwt.SigningMethodHS512, key, claimsWith("u1", fixedNow, fixedNow.Add(time.Hour))),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "alg none",
			token:   sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsWith("u1", fixedNow, fixedNow.Add(time.Hour))),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "tampered payload",
			token:   valid[:len(valid)-4] + "AAAA",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   "not.a.jwt",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "unknown role",
			token:   sign(t, jwt.SigningMethodHS256, key, withRole(claimsWith("u1", fixedNow, fixedNow.Add(time.Hour)), "superuser")),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty role",
			token:   sign(t, jwt.SigningMethodHS256, key, withRole(claimsWith("u1", fixedNow, fixedNow.Add(time.Hour)), "")),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "no subject",
			token:   sign(t, jwt.SigningMethodHS256, key, claimsWith("", fixedNow, fixedNow.Add(time.Hour))),
			wantErr: ErrMissingSubject,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			claims, err := svc.ValidateToken(context.Background(), tc.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateTokenClockSkew(t *testing.T) {
	t.Parallel()

	cfg := DefaultJWTConfig()
	cfg.ClockSkewSeconds = 30
	issuer := NewTestJWTServiceAt(t, cfg, clockAt(fixedNow))
	token, err := issuer.GenerateToken(context.Background(), "u2", domain.RoleUser)
	require.NoError(t, err)

	within := NewTestJWTServiceAt(t, cfg, clockAt(fixedNow.Add(time.Hour+20*time.Second)))
	_, err = within.ValidateToken(context.Background(), token)
	assert.NoError(t, err)

	beyond := NewTestJWTServiceAt(t, cfg, clockAt(fixedNow.Add(time.Hour+time.Minute)))
	_, err = beyond.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
