package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// AdminHandler serves administrative endpoints under /api/admin.
type AdminHandler struct {
	revocations   auth.RevocationList
	emitter       events.EventEmitter
	tokenLifetime time.Duration
	now           func() time.Time
}

// NewAdminHandler creates a new AdminHandler. emitter may be nil.
func NewAdminHandler(
	revocations auth.RevocationList,
	emitter events.EventEmitter,
	tokenLifetime time.Duration,
) *AdminHandler {
	return &AdminHandler{
		revocations:   revocations,
		emitter:       emitter,
		tokenLifetime: tokenLifetime,
		now:           time.Now,
	}
}

type tokenRevokedPayload struct {
	TokenID   string    `json:"tokenId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RevokeToken handles POST /api/admin/tokens/revoke
func (h *AdminHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req RevokeTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	expiresAt := h.now().Add(h.tokenLifetime)
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	if err := h.revocations.Revoke(r.Context(), req.TokenID, expiresAt); err != nil {
		HandleAPIError(w, r, err, "Failed to revoke token")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())
	log.Info("token revoked", slog.String("admin", principal.Subject), slog.String("token_id", req.TokenID))

	if h.emitter != nil {
		event, err := events.NewEvent(events.TypeTokenRevoked, principal.Subject,
			tokenRevokedPayload{TokenID: req.TokenID, ExpiresAt: expiresAt})
		if err == nil {
			err = h.emitter.EmitEvent(r.Context(), event)
		}
		if err != nil {
			log.Warn("failed to emit token revoked event", slog.String("error", err.Error()))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
