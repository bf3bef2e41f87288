package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

// AuditLogHandler writes one structured log line per event.
type AuditLogHandler struct {
	logger *slog.Logger
}

var _ EventHandler = (*AuditLogHandler)(nil)

// NewAuditLogHandler creates an AuditLogHandler.
func NewAuditLogHandler(log *slog.Logger) *AuditLogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuditLogHandler{logger: log.With("component", "audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *Event) error {
	logger.FromContextOrDefault(ctx, h.logger).Info("audit",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("subject", event.Subject),
		slog.String("payload", string(event.Payload)),
		slog.Time("created_at", event.CreatedAt))
	return nil
}
