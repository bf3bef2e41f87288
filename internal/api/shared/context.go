package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

// ContextKey is the key type for request context values.
type ContextKey string

// PrincipalContextKey holds the verified *domain.Principal.
const PrincipalContextKey ContextKey = "principal"

// TraceIDLength is the number of random bytes in a trace ID.
const TraceIDLength = 16

// NewTraceID returns 32 hex characters from crypto/rand. If the system
// source fails it falls back to the bytes of a random UUID.
func NewTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate secure random trace ID", "error", err, "fallback", "uuid")
		id := uuid.New()
		return hex.EncodeToString(id[:])
	}
	return hex.EncodeToString(b)
}

// GetTraceID returns the request trace ID, or "" outside a traced request.
func GetTraceID(ctx context.Context) string {
	return logger.TraceIDFromContext(ctx)
}

// WithPrincipal stores the verified principal in ctx.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, &p)
}

// PrincipalFromContext returns the verified principal, or nil when the
// request is anonymous.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(PrincipalContextKey).(*domain.Principal)
	return p
}
