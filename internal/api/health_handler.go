package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/storefront-api/internal/api/shared"
)

// HealthHandler handles GET /health.
func HealthHandler(now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "OK", Timestamp: now().UTC()})
	}
}

// NotFoundHandler answers routes that match nothing.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "Endpoint not found")
}
