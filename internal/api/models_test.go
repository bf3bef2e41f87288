package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartToResponse(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cart := domain.NewCart("u1")
	require.NoError(t, cart.AddItem("1", 2, decimal.RequireFromString("19.99"), now))
	require.NoError(t, cart.AddItem("7", 1, decimal.RequireFromString("5.01"), now))

	resp := cartToResponse(cart)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "1", resp.Items[0].ProductID)
	assert.Equal(t, 19.99, resp.Items[0].Price)
	assert.Equal(t, 39.98, resp.Items[0].Subtotal)
	assert.Equal(t, 44.99, resp.Total)
}

func TestCartToResponse_EmptyCartHasEmptyItems(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(cartToResponse(domain.NewCart("u2")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(data))
}

func TestProductView(t *testing.T) {
	t.Parallel()

	p := &domain.Product{
		ID:            "3",
		Name:          "Desk Lamp",
		Price:         decimal.RequireFromString("24.50"),
		Category:      "Home",
		CostPrice:     decimal.RequireFromString("17.15"),
		Supplier:      "Acme",
		InternalNotes: "reorder in Q3",
		AdminOnly:     true,
	}

	t.Run("public view hides internal fields", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(productView(p, false))
		require.NoError(t, err)

		var fields map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &fields))
		for _, hidden := range []string{"costPrice", "supplier", "internalNotes", "adminOnly"} {
			assert.NotContains(t, fields, hidden)
		}
		assert.Equal(t, []interface{}{}, fields["tags"])
	})

	t.Run("internal view includes them", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(productView(p, true))
		require.NoError(t, err)

		var fields map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Equal(t, 17.15, fields["costPrice"])
		assert.Equal(t, "Acme", fields["supplier"])
		assert.Equal(t, true, fields["adminOnly"])
		assert.Equal(t, "Desk Lamp", fields["name"])
	})
}

func TestUpdateProductRequest_OnlyWhitelistedFields(t *testing.T) {
	t.Parallel()

	var req UpdateProductRequest
	body := `{"id":"999","createdAt":"2020-01-01T00:00:00Z","price":"12.50","stock":4}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	patch := req.toPatch()
	require.NotNil(t, patch.Price)
	assert.True(t, patch.Price.Equal(decimal.RequireFromString("12.5")))
	require.NotNil(t, patch.Stock)
	assert.Equal(t, 4, *patch.Stock)
	assert.Nil(t, patch.Name)
	assert.Nil(t, patch.Category)
}

func TestProfitReportToResponse(t *testing.T) {
	t.Parallel()

	report := service.NewProfitReportService("", nil, nil).Report(service.AccessBearerToken)
	resp := profitReportToResponse(report)

	require.Len(t, resp.SecretProducts, 2)
	assert.Equal(t, "75%", resp.SecretProducts[0].ProfitMargin)
	assert.Equal(t, "73%", resp.SecretProducts[1].ProfitMargin)
	assert.Equal(t, "74%", resp.Analytics.AverageProfitMargin)
	assert.Equal(t, "high-margin", resp.Analytics.TopPerformingCategory)
	assert.Equal(t, 370.0, resp.TotalProfit)
	assert.Equal(t, "bearer-token", resp.AccessMethod)
}
