package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
)

// ProductHandler serves /api/products. Listing and reads accept anonymous
// callers; writes are mounted behind the admin gate.
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func isAdmin(r *http.Request) bool {
	p := shared.PrincipalFromContext(r.Context())
	return p != nil && p.IsAdmin()
}

// parseProductQuery reads listing parameters. Range checks happen in
// ProductQuery.Normalize.
func parseProductQuery(r *http.Request) (domain.ProductQuery, error) {
	var q domain.ProductQuery
	var err error
	if q.Page, err = queryInt(r, "page"); err != nil {
		return q, err
	}
	if r.URL.Query().Get("page") != "" && q.Page == 0 {
		return q, domain.NewValidationError("page", "must be at least 1", nil)
	}
	if q.Limit, err = queryInt(r, "limit"); err != nil {
		return q, err
	}
	if r.URL.Query().Get("limit") != "" && q.Limit == 0 {
		return q, domain.NewValidationError("limit", "must be between 1 and 100", nil)
	}

	values := r.URL.Query()
	q.Search = values.Get("search")
	q.Category = values.Get("category")
	q.SortBy = values.Get("sortBy")
	switch values.Get("sortOrder") {
	case "", "asc":
	case "desc":
		q.SortDesc = true
	default:
		return q, domain.NewValidationError("sortOrder", "must be asc or desc", nil)
	}
	q.AdminView = isAdmin(r)
	return q, nil
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.products.ListProducts(r.Context(), q)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list products")
		return
	}

	internal := q.AdminView && r.URL.Query().Get("internal") == "true"
	products := make([]interface{}, 0, len(page.Products))
	for _, p := range page.Products {
		products = append(products, productView(p, internal))
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(page.TotalItems))
	shared.RespondWithJSON(w, r, http.StatusOK, ProductListResponse{
		Products: products,
		Pagination: Pagination{
			CurrentPage:  page.Page,
			TotalPages:   page.TotalPages(),
			TotalItems:   page.TotalItems,
			ItemsPerPage: page.Limit,
		},
	})
}

// GetProduct handles GET /api/products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	admin := isAdmin(r)
	p, err := h.products.GetProduct(r.Context(), chi.URLParam(r, "productId"), admin)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get product")
		return
	}

	internal := admin && r.URL.Query().Get("internal") == "true"
	shared.RespondWithJSON(w, r, http.StatusOK, productView(p, internal))
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.products.CreateProduct(r.Context(), principal.Subject, req.toDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create product")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ProductMutationResponse{
		Message: "Product created successfully",
		Product: productView(created, true),
	})
}

// UpdateProduct handles PUT /api/products/{productId}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.products.UpdateProduct(r.Context(), principal.Subject, chi.URLParam(r, "productId"), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update product")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProductMutationResponse{
		Message: "Product updated successfully",
		Product: productView(updated, true),
	})
}

// DeleteProduct handles DELETE /api/products/{productId}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(r.Context(), principal.Subject, chi.URLParam(r, "productId")); err != nil {
		HandleAPIError(w, r, err, "Failed to delete product")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}
