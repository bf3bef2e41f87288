package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/mocks"
	"github.com/phrazzld/storefront-api/internal/platform/memory"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartRouter(h *CartHandler, p *domain.Principal) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/cart", h.GetCart)
	r.Post("/api/cart", h.AddItem)
	r.Put("/api/cart", h.UpdateItem)
	r.Delete("/api/cart", h.RemoveItem)
	return asPrincipal(p, r)
}

func newCartHandler(t *testing.T) (*CartHandler, *recordingEmitter) {
	t.Helper()

	emitter := &recordingEmitter{}
	carts, err := service.NewCartService(memory.NewCartStore(nil), newTestCatalog(t), emitter, nil)
	require.NoError(t, err)
	return NewCartHandler(carts), emitter
}

func TestCartHandler_Flow(t *testing.T) {
	t.Parallel()

	h, emitter := newCartHandler(t)
	router := cartRouter(h, testUser)

	rr := doRequest(t, router, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-Cart-Items"))
	empty := decodeJSON[GetCartResponse](t, rr)
	assert.Empty(t, empty.Cart.Items)
	assert.Zero(t, empty.Cart.Total)

	rr = doRequest(t, router, http.MethodPost, "/api/cart", map[string]interface{}{"productId": "1", "quantity": 2})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	added := decodeJSON[CartMutationResponse](t, rr)
	assert.Equal(t, "Item added to cart", added.Message)
	assert.Equal(t, 200.0, added.Cart.Total)
	require.NotNil(t, added.AddedItem)
	assert.Equal(t, 2, added.AddedItem.Quantity)

	rr = doRequest(t, router, http.MethodPost, "/api/cart", map[string]interface{}{"productId": "2"})
	require.Equal(t, http.StatusOK, rr.Code)
	added = decodeJSON[CartMutationResponse](t, rr)
	assert.Equal(t, 400.0, added.Cart.Total)
	assert.Equal(t, 1, added.AddedItem.Quantity, "quantity defaults to 1")

	rr = doRequest(t, router, http.MethodPut, "/api/cart", map[string]interface{}{"productId": "1", "quantity": 1})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decodeJSON[CartMutationResponse](t, rr)
	assert.Equal(t, "Cart item updated", updated.Message)
	assert.Equal(t, 300.0, updated.Cart.Total)

	rr = doRequest(t, router, http.MethodDelete, "/api/cart?productId=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	removed := decodeJSON[CartMutationResponse](t, rr)
	assert.Equal(t, "Item removed from cart", removed.Message)
	require.NotNil(t, removed.RemovedItem)
	assert.Equal(t, "2", removed.RemovedItem.ProductID)
	assert.Equal(t, 100.0, removed.Cart.Total)

	rr = doRequest(t, router, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, "1", rr.Header().Get("X-Cart-Items"))
	final := decodeJSON[GetCartResponse](t, rr)
	assert.Equal(t, 1, final.Metadata.ItemCount)
	assert.Equal(t, 100.0, final.Cart.Total)

	types := make([]string, 0, len(emitter.events))
	for _, e := range emitter.events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{
		events.TypeCartItemAdded,
		events.TypeCartItemAdded,
		events.TypeCartItemUpdated,
		events.TypeCartItemRemoved,
	}, types)
}

func TestCartHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		target         string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{"unknown product", http.MethodPost, "/api/cart", map[string]interface{}{"productId": "99999"}, http.StatusNotFound, "Unknown product"},
		{"zero quantity", http.MethodPost, "/api/cart", map[string]interface{}{"productId": "1", "quantity": 0}, http.StatusBadRequest, "Quantity must be between 1 and 100"},
		{"over ceiling", http.MethodPost, "/api/cart", map[string]interface{}{"productId": "1", "quantity": 101}, http.StatusBadRequest, "Quantity must be between 1 and 100"},
		{"missing product id", http.MethodPost, "/api/cart", map[string]interface{}{"quantity": 1}, http.StatusBadRequest, "Invalid productId"},
		{"malformed product id", http.MethodPost, "/api/cart", map[string]interface{}{"productId": "../etc"}, http.StatusBadRequest, "Invalid product id"},
		{"malformed json", http.MethodPost, "/api/cart", `{"productId":`, http.StatusBadRequest, "Invalid request format"},
		{"empty body", http.MethodPut, "/api/cart", nil, http.StatusBadRequest, "Invalid request format"},
		{"update without quantity", http.MethodPut, "/api/cart", map[string]interface{}{"productId": "1"}, http.StatusBadRequest, "Invalid quantity"},
		{"update item not in cart", http.MethodPut, "/api/cart", map[string]interface{}{"productId": "3", "quantity": 2}, http.StatusNotFound, "Item not in cart"},
		{"remove without id", http.MethodDelete, "/api/cart", nil, http.StatusNotFound, "Item not in cart"},
		{"remove item not in cart", http.MethodDelete, "/api/cart?productId=3", nil, http.StatusNotFound, "Item not in cart"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _ := newCartHandler(t)
			rr := doRequest(t, cartRouter(h, testUser), tt.method, tt.target, tt.body)

			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), tt.expectedError)
		})
	}
}

func TestCartHandler_RequiresPrincipal(t *testing.T) {
	t.Parallel()

	carts := &mocks.MockCartService{}
	router := cartRouter(NewCartHandler(carts), nil)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		rr := doRequest(t, router, method, "/api/cart", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, method)
	}
	assert.Empty(t, carts.Subjects, "service must not be reached")
}

func TestCartHandler_StoreFailure(t *testing.T) {
	t.Parallel()

	carts := &mocks.MockCartService{
		Err: service.NewCartServiceError("get_cart", "failed to load cart", errors.New("redis: connection refused")),
	}
	rr := doRequest(t, cartRouter(NewCartHandler(carts), testUser), http.MethodGet, "/api/cart", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to load cart")
	assert.NotContains(t, rr.Body.String(), "redis")
	assert.Equal(t, []string{"u1"}, carts.Subjects)
}
