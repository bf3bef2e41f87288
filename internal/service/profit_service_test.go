package service

import (
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestProfitReportAuthorize(t *testing.T) {
	hash, err := auth.HashSecret("admin-api-key-2024", bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewProfitReportService(hash, nil, nil)
	admin := &domain.Principal{Subject: "admin1", Role: domain.RoleAdmin}
	user := &domain.Principal{Subject: "u1", Role: domain.RoleUser}

	tests := []struct {
		name       string
		principal  *domain.Principal
		apiKey     string
		wantMethod string
	}{
		{"admin token", admin, "", AccessBearerToken},
		{"admin token wins over key", admin, "admin-api-key-2024", AccessBearerToken},
		{"api key", nil, "admin-api-key-2024", AccessAPIKey},
		{"user with api key", user, "admin-api-key-2024", AccessAPIKey},
		{"wrong key", nil, "guess", ""},
		{"user only", user, "", ""},
		{"nothing", nil, "", ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			method, err := svc.Authorize(tc.principal, tc.apiKey)
			if tc.wantMethod == "" {
				assert.ErrorIs(t, err, domain.ErrSecretAccessDenied)
				assert.ErrorIs(t, err, domain.ErrForbidden)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMethod, method)
		})
	}

	noKeys := NewProfitReportService("", nil, nil)
	_, err = noKeys.Authorize(nil, "admin-api-key-2024")
	assert.ErrorIs(t, err, domain.ErrSecretAccessDenied)
}

func TestProfitReport(t *testing.T) {
	svc := NewProfitReportService("", nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC) }

	report := svc.Report(AccessAPIKey)

	assert.Equal(t, AccessAPIKey, report.AccessMethod)
	require.Len(t, report.SecretProducts, 2)
	assert.True(t, report.TotalProfit.Equal(decimal.NewFromInt(370)))
	assert.Equal(t, "74", report.AverageProfitMargin.Round(0).String())
	assert.Equal(t, "high-margin", report.TopPerformingCategory)
	assert.Equal(t, "Pbatenghyngvbaf! Lbh sbhaq gur frperg cebqhpg qngn. Svany pyhrf: PURPX_NQZVA_CNARY_2024", report.FinalPuzzle)
	assert.Equal(t, ProfitHash(svc.now()), report.ProfitHash)
	assert.Len(t, report.ProfitHash, 8)
}

func TestROT13(t *testing.T) {
	assert.Equal(t, "Uryyb, Jbeyq! 123", ROT13("Hello, World! 123"))
	assert.Equal(t, "round trip", ROT13(ROT13("round trip")))
}

func TestProfitHash(t *testing.T) {
	morning := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	nextDay := time.Date(2024, 1, 2, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, "f867f4b1", ProfitHash(morning))
	assert.Equal(t, ProfitHash(morning), ProfitHash(evening))
	assert.NotEqual(t, ProfitHash(morning), ProfitHash(nextDay))
}
