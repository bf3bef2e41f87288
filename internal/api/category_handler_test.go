package api

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryRouter() http.Handler {
	h := NewCategoryHandler(service.NewCategoryService())
	r := chi.NewRouter()
	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/categories/{name}", h.GetCategory)
	return r
}

func TestCategoryHandler_List(t *testing.T) {
	t.Parallel()

	rr := doRequest(t, categoryRouter(), http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeJSON[CategoryListResponse](t, rr)
	assert.Equal(t, 6, body.Total)
	require.Len(t, body.Categories, 6)
	assert.Equal(t, "Electronics", body.Categories[0].Name)
	assert.Equal(t, "Devices and gadgets", body.Categories[0].Description)
}

func TestCategoryHandler_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedBody   string
	}{
		{"exact name", "/api/categories/Books", http.StatusOK, `"name":"Books"`},
		{"case insensitive", "/api/categories/sPoRtS", http.StatusOK, `"name":"Sports"`},
		{"unknown", "/api/categories/Garden", http.StatusNotFound, "Category not found"},
		{"blank", "/api/categories/%20", http.StatusBadRequest, "Category name required"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := doRequest(t, categoryRouter(), http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
		})
	}
}
