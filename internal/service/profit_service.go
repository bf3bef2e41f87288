package service

import (
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/shopspring/decimal"
)

// Access methods reported by the profit report.
const (
	AccessBearerToken = "bearer-token"
	AccessAPIKey      = "api-key"
)

const finalPuzzlePlain = "Congratulations! You found the secret product data. Final clues: CHECK_ADMIN_PANEL_2024"

// SecretProduct is a high-margin product only shown in the profit report.
type SecretProduct struct {
	ID             string
	Name           string
	ActualCost     decimal.Decimal
	SellingPrice   decimal.Decimal
	SecretCategory string
}

// Profit returns selling price minus cost.
func (p SecretProduct) Profit() decimal.Decimal {
	return p.SellingPrice.Sub(p.ActualCost)
}

// Margin returns the profit as a percentage of the selling price.
func (p SecretProduct) Margin() decimal.Decimal {
	if p.SellingPrice.IsZero() {
		return decimal.Zero
	}
	return p.Profit().Div(p.SellingPrice).Mul(decimal.NewFromInt(100))
}

var secretProducts = []SecretProduct{
	{
		ID:             "secret-1",
		Name:           "Premium Exclusive Item",
		ActualCost:     decimal.NewFromInt(50),
		SellingPrice:   decimal.NewFromInt(200),
		SecretCategory: "high-margin",
	},
	{
		ID:             "secret-2",
		Name:           "Limited Edition Product",
		ActualCost:     decimal.NewFromInt(80),
		SellingPrice:   decimal.NewFromInt(300),
		SecretCategory: "limited",
	},
}

// ProfitReport is the payload of the secret profit endpoint.
type ProfitReport struct {
	AccessMethod          string
	SecretProducts        []SecretProduct
	TotalProfit           decimal.Decimal
	AverageProfitMargin   decimal.Decimal
	TopPerformingCategory string
	AccessTimestamp       time.Time
	FinalPuzzle           string
	PuzzleHint            string
	ProfitHash            string
}

// ProfitReportService grants access to the profit report and builds it.
type ProfitReportService struct {
	apiKeyHash string
	secrets    auth.SecretVerifier
	now        func() time.Time
	logger     *slog.Logger
}

// NewProfitReportService creates a ProfitReportService. An empty apiKeyHash
// disables API key access.
func NewProfitReportService(apiKeyHash string, secrets auth.SecretVerifier, logger *slog.Logger) *ProfitReportService {
	if secrets == nil {
		secrets = auth.NewBcryptVerifier()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfitReportService{
		apiKeyHash: apiKeyHash,
		secrets:    secrets,
		now:        time.Now,
		logger:     logger.With("component", "profit_report"),
	}
}

// Authorize returns the access method for the caller. Admin principals win
// over API keys; anything else is domain.ErrSecretAccessDenied.
func (s *ProfitReportService) Authorize(principal *domain.Principal, apiKey string) (string, error) {
	if principal != nil && principal.IsAdmin() {
		return AccessBearerToken, nil
	}
	if apiKey != "" && s.apiKeyHash != "" {
		if err := s.secrets.Compare(s.apiKeyHash, apiKey); err == nil {
			return AccessAPIKey, nil
		}
		s.logger.Warn("rejected profit report api key")
	}
	return "", domain.ErrSecretAccessDenied
}

// Report builds the profit report for an authorized caller.
func (s *ProfitReportService) Report(accessMethod string) ProfitReport {
	now := s.now().UTC()

	products := make([]SecretProduct, len(secretProducts))
	copy(products, secretProducts)

	total := decimal.Zero
	marginSum := decimal.Zero
	var top SecretProduct
	for i, p := range products {
		total = total.Add(p.Profit())
		marginSum = marginSum.Add(p.Margin())
		if i == 0 || p.Margin().GreaterThan(top.Margin()) {
			top = p
		}
	}
	avg := decimal.Zero
	if len(products) > 0 {
		avg = marginSum.Div(decimal.NewFromInt(int64(len(products))))
	}

	return ProfitReport{
		AccessMethod:          accessMethod,
		SecretProducts:        products,
		TotalProfit:           total,
		AverageProfitMargin:   avg,
		TopPerformingCategory: top.SecretCategory,
		AccessTimestamp:       now,
		FinalPuzzle:           ROT13(finalPuzzlePlain),
		PuzzleHint:            "Decode this message using ROT13 cipher",
		ProfitHash:            ProfitHash(now),
	}
}

// ProfitHash returns the first 8 hex characters of the md5 of t's UTC date.
func ProfitHash(t time.Time) string {
	sum := md5.Sum([]byte(t.UTC().Format("2006-01-02")))
	return hex.EncodeToString(sum[:])[:8]
}

// ROT13 rotates ASCII letters by 13 places and leaves everything else alone.
func ROT13(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return 'a' + (r-'a'+13)%26
		case r >= 'A' && r <= 'Z':
			return 'A' + (r-'A'+13)%26
		default:
			return r
		}
	}, s)
}
