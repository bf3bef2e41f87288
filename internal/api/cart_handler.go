package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
)

// CartHandler serves the /api/cart endpoints for the authenticated principal.
type CartHandler struct {
	carts service.CartService
	now   func() time.Time
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts, now: time.Now}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(r.Context(), principal.Subject)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load cart")
		return
	}

	lastUpdated := cart.UpdatedAt
	if lastUpdated.IsZero() {
		lastUpdated = h.now().UTC()
	}

	w.Header().Set("X-Cart-Items", strconv.Itoa(cart.ItemCount()))
	shared.RespondWithJSON(w, r, http.StatusOK, GetCartResponse{
		Cart: cartToResponse(cart),
		Metadata: CartMetadata{
			LastUpdated: lastUpdated,
			ItemCount:   cart.ItemCount(),
		},
	})
}

// AddItem handles POST /api/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, _, err := h.carts.AddItem(r.Context(), principal.Subject, req.ProductID, quantity)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add item to cart")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CartMutationResponse{
		Message:   "Item added to cart",
		Cart:      cartToResponse(cart),
		AddedItem: &AddedItem{ProductID: req.ProductID, Quantity: quantity},
	})
}

// UpdateItem handles PUT /api/cart
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cart, err := h.carts.UpdateItem(r.Context(), principal.Subject, req.ProductID, *req.Quantity)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update cart item")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CartMutationResponse{
		Message: "Cart item updated",
		Cart:    cartToResponse(cart),
	})
}

// RemoveItem handles DELETE /api/cart?productId=
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	productID := r.URL.Query().Get("productId")
	cart, removed, err := h.carts.RemoveItem(r.Context(), principal.Subject, productID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to remove cart item")
		return
	}

	removedItem := cartItemToResponse(removed)
	shared.RespondWithJSON(w, r, http.StatusOK, CartMutationResponse{
		Message:     "Item removed from cart",
		Cart:        cartToResponse(cart),
		RemovedItem: &removedItem,
	})
}
