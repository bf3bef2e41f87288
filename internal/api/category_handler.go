package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// CategoryLister is the read-only view of categories the handler needs.
type CategoryLister interface {
	ListCategories() []domain.Category
	GetCategory(name string) (domain.Category, error)
}

// CategoryHandler serves /api/categories.
type CategoryHandler struct {
	categories CategoryLister
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories CategoryLister) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list := h.categories.ListCategories()
	out := make([]CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, CategoryResponse{Name: c.Name, Description: c.Description})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CategoryListResponse{Total: len(out), Categories: out})
}

// GetCategory handles GET /api/categories/{name}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.GetCategory(chi.URLParam(r, "name"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CategoryResponse{Name: c.Name, Description: c.Description})
}
