package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	userPrincipal  = domain.Principal{Subject: "u1", Role: domain.RoleUser}
	adminPrincipal = domain.Principal{Subject: "admin1", Role: domain.RoleAdmin}
)

func newVerifier() *mocks.MockTokenVerifier {
	return &mocks.MockTokenVerifier{
		Principals: map[string]domain.Principal{
			"Bearer user-token":  userPrincipal,
			"Bearer admin-token": adminPrincipal,
		},
	}
}

// capture records the principal the next handler saw.
func capture(seen **domain.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = shared.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		authHeader      string
		expectedStatus  int
		expectedSubject string
		expectedMessage string
	}{
		{"valid user token", "Bearer user-token", http.StatusOK, "u1", ""},
		{"valid admin token", "Bearer admin-token", http.StatusOK, "admin1", ""},
		{"missing header", "", http.StatusUnauthorized, "", "Access token required"},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, "", "Invalid or expired token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen *domain.Principal
			handler := NewAuthMiddleware(newVerifier()).Authenticate(capture(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, tt.expectedSubject, seen.Subject)
				return
			}
			assert.Nil(t, seen, "next handler must not run")
			assert.Contains(t, rr.Body.String(), tt.expectedMessage)
			assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAuthMiddleware_AuthenticateWithRealVerifier(t *testing.T) {
	t.Parallel()

	jwtSvc := auth.NewTestJWTService(t)
	revocations := &mocks.MockRevocationList{}
	verifier := auth.NewVerifier(jwtSvc, revocations, nil)

	var seen *domain.Principal
	handler := NewAuthMiddleware(verifier).Authenticate(capture(&seen))

	header := auth.GenerateAuthHeader(t, jwtSvc, "u2", domain.RoleUser)
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", header)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u2", seen.Subject)
	assert.Equal(t, domain.RoleUser, seen.Role)

	t.Run("revoked token is rejected", func(t *testing.T) {
		require.NotEmpty(t, seen.TokenID)
		require.NoError(t, revocations.Revoke(context.Background(), seen.TokenID, time.Now().Add(time.Hour)))

		seen = nil
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Nil(t, seen)
	})
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		authHeader string
		wantNil    bool
	}{
		{"no header", "", true},
		{"invalid token passes anonymously", "Bearer bogus", true},
		{"valid token attaches principal", "Bearer admin-token", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier := newVerifier()
			var seen *domain.Principal
			handler := NewAuthMiddleware(verifier).OptionalAuthenticate(capture(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/product_secret_endpoint", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			if tt.wantNil {
				assert.Nil(t, seen)
			} else {
				require.NotNil(t, seen)
				assert.Equal(t, "admin1", seen.Subject)
			}
			if tt.authHeader == "" {
				assert.Zero(t, verifier.CallCount(), "verifier is skipped without a header")
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		principal      *domain.Principal
		requirement    domain.Requirement
		expectedStatus int
	}{
		{"no principal", nil, domain.RequireAuthenticated, http.StatusUnauthorized},
		{"no principal for admin route", nil, domain.RequireAdmin, http.StatusUnauthorized},
		{"user on authenticated route", &userPrincipal, domain.RequireAuthenticated, http.StatusOK},
		{"user on admin route", &userPrincipal, domain.RequireAdmin, http.StatusForbidden},
		{"admin on admin route", &adminPrincipal, domain.RequireAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireRole(tt.requirement)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
			if tt.principal != nil {
				req = req.WithContext(shared.WithPrincipal(req.Context(), *tt.principal))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestRespondAuthError_UnexpectedError(t *testing.T) {
	t.Parallel()

	verifier := &mocks.MockTokenVerifier{
		VerifyFn: func(context.Context, string) (domain.Principal, error) {
			return domain.Principal{}, errors.New("postgres://admin:hunter2@db/revocations unreachable")
		},
	}
	var seen *domain.Principal
	handler := NewAuthMiddleware(verifier).Authenticate(capture(&seen))

	log, buf := logger.NewTestLogger(t)
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	req.Header.Set("Authorization", "Bearer x")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hunter2")
	assert.Contains(t, rr.Body.String(), "Authentication error")
	logger.AssertLogField(t, buf, "level", "ERROR")
	logger.AssertLogNotContains(t, buf, "hunter2")
}

func TestAuthMiddleware_VerifierFailures(t *testing.T) {
	t.Parallel()

	claims := &auth.Claims{
		UserID:    "u1",
		Role:      domain.RoleUser,
		ID:        "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tests := []struct {
		name        string
		jwt         *mocks.MockJWTService
		revocations *mocks.MockRevocationList
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "expired token",
			jwt:         &mocks.MockJWTService{ValidateErr: auth.ErrExpiredToken},
			revocations: &mocks.MockRevocationList{},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired token",
		},
		{
			name:        "revocation backend down",
			jwt:         &mocks.MockJWTService{Claims: claims},
			revocations: &mocks.MockRevocationList{IsRevokedErr: errors.New("redis: connection refused")},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid or expired token",
		},
		{
			name:        "valid claims",
			jwt:         &mocks.MockJWTService{Claims: claims},
			revocations: &mocks.MockRevocationList{},
			wantStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier := auth.NewVerifier(tt.jwt, tt.revocations, nil)
			var seen *domain.Principal
			handler := NewAuthMiddleware(verifier).Authenticate(capture(&seen))

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			req.Header.Set("Authorization", "Bearer opaque")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantMessage != "" {
				assert.Contains(t, rr.Body.String(), tt.wantMessage)
				assert.Nil(t, seen)
			} else {
				require.NotNil(t, seen)
				assert.Equal(t, "u1", seen.Subject)
			}
		})
	}
}
