package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// TokenVerifier turns an Authorization header value into a principal.
type TokenVerifier interface {
	Verify(ctx context.Context, header string) (domain.Principal, error)
}

// AuthMiddleware provides bearer token authentication for routes.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate verifies the Authorization header and stores the principal in
// the request context. Requests without a valid credential get a 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := m.verifier.Verify(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			respondAuthError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// OptionalAuthenticate attaches a principal when a valid credential is
// present and otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.verifier.Verify(r.Context(), header)
		if err != nil {
			logger.FromContextOrDefault(r.Context(), nil).Debug("ignoring invalid optional credential",
				slog.String("error", err.Error()))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// RequireRole rejects requests whose principal does not satisfy req. It
// must run after Authenticate or OptionalAuthenticate.
func RequireRole(req domain.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Authorize(shared.PrincipalFromContext(r.Context()), req); err != nil {
				respondAuthError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	ctx = shared.WithPrincipal(ctx, p)
	if l := logger.FromContext(ctx); l != nil {
		ctx = logger.WithLogger(ctx, l.With(slog.String("subject", p.Subject)))
	}
	return ctx
}

func respondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		w.Header().Set("WWW-Authenticate", "Bearer")
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Access token required", err)
	case errors.Is(err, domain.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid or expired token", err)
	case errors.Is(err, domain.ErrUnauthorized):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Authentication required", err)
	case errors.Is(err, domain.ErrForbidden):
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Admin access required", err,
			shared.WithElevatedLogLevel())
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
	}
}
