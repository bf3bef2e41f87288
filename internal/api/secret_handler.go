package api

import (
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
)

// APIKeyHeader carries the alternate credential for the profit report.
const APIKeyHeader = "X-API-Key"

// ProfitReporter authorizes and builds the profit report.
type ProfitReporter interface {
	Authorize(principal *domain.Principal, apiKey string) (string, error)
	Report(accessMethod string) service.ProfitReport
}

// SecretHandler serves GET /api/product_secret_endpoint. It runs behind
// optional authentication so that API key callers get through.
type SecretHandler struct {
	reports ProfitReporter
}

// NewSecretHandler creates a new SecretHandler
func NewSecretHandler(reports ProfitReporter) *SecretHandler {
	return &SecretHandler{reports: reports}
}

// GetProfitReport handles GET /api/product_secret_endpoint
func (h *SecretHandler) GetProfitReport(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	method, err := h.reports.Authorize(principal, r.Header.Get(APIKeyHeader))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, GetSafeErrorMessage(err), err,
			shared.WithElevatedLogLevel(),
			shared.WithHints("Try using Authorization header", "Check for X-API-Key header"))
		return
	}

	report := h.reports.Report(method)

	w.Header().Set("X-Access-Method", report.AccessMethod)
	w.Header().Set("X-Profit-Hash", report.ProfitHash)
	w.Header().Set("X-Decode-Message", "Use ROT13 to decode the final puzzle")
	w.Header().Set("Cache-Control", "no-cache")
	shared.RespondWithJSON(w, r, http.StatusOK, profitReportToResponse(report))
}
