package service

import (
	"strings"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// CategoryService serves the fixed category list.
type CategoryService struct{}

// NewCategoryService creates a CategoryService.
func NewCategoryService() *CategoryService {
	return &CategoryService{}
}

// ListCategories returns every category.
func (s *CategoryService) ListCategories() []domain.Category {
	return domain.Categories()
}

// GetCategory looks a category up by name, ignoring case.
func (s *CategoryService) GetCategory(name string) (domain.Category, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Category{}, domain.ErrCategoryRequired
	}
	c, ok := domain.FindCategory(strings.TrimSpace(name))
	if !ok {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return c, nil
}
