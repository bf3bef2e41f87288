package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

const bearerPrefix = "Bearer "

// Verifier turns an Authorization header into a Principal.
type Verifier struct {
	tokens      JWTService
	revocations RevocationList
	logger      *slog.Logger
}

// NewVerifier creates a Verifier. revocations may be nil to skip the
// revocation check.
func NewVerifier(tokens JWTService, revocations RevocationList, logger *slog.Logger) *Verifier {
	if tokens == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("tokens cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		tokens:      tokens,
		revocations: revocations,
		logger:      logger.With("component", "token_verifier"),
	}
}

// ParseBearer extracts the token from a "Bearer <token>" header value.
func ParseBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// Verify returns the principal for a valid bearer credential.
//
// A missing or malformed header yields domain.ErrMissingCredential without
// touching the token. Every later failure, including a revoked token or an
// unavailable revocation backend, yields domain.ErrInvalidCredential; the
// specific reason is only logged at debug level.
func (v *Verifier) Verify(ctx context.Context, header string) (domain.Principal, error) {
	log := logger.FromContextOrDefault(ctx, v.logger)

	token, ok := ParseBearer(header)
	if !ok {
		return domain.Principal{}, domain.ErrMissingCredential
	}

	claims, err := v.tokens.ValidateToken(ctx, token)
	if err != nil {
		log.Debug("credential rejected", slog.String("reason", err.Error()))
		return domain.Principal{}, domain.ErrInvalidCredential
	}

	if v.revocations != nil && claims.ID != "" {
		revoked, err := v.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Warn("revocation check failed, rejecting credential",
				slog.String("error", err.Error()))
			return domain.Principal{}, domain.ErrInvalidCredential
		}
		if revoked {
			log.Debug("credential rejected", slog.String("reason", ErrTokenRevoked.Error()))
			return domain.Principal{}, domain.ErrInvalidCredential
		}
	}

	return domain.Principal{
		Subject:   claims.UserID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}
