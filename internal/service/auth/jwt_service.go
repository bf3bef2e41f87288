package auth

import (
	"context"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// JWTService defines operations for minting and validating bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed token for subject with the given role.
	GenerateToken(ctx context.Context, subject string, role domain.Role) (string, error)

	// ValidateToken checks signature, structure and expiry of tokenString and
	// returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	// UserID is the subject the token was issued for. It is read from the
	// userId claim and falls back to sub.
	UserID string

	// Role is copied verbatim from the role claim.
	Role domain.Role

	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
