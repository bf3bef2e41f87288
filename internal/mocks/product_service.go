package mocks

import (
	"context"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// MockProductService implements service.ProductService for testing. Every
// method returns Err when its function field is nil.
type MockProductService struct {
	ListProductsFn  func(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
	GetProductFn    func(ctx context.Context, id string, adminView bool) (*domain.Product, error)
	CreateProductFn func(ctx context.Context, actor string, p *domain.Product) (*domain.Product, error)
	UpdateProductFn func(ctx context.Context, actor, id string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProductFn func(ctx context.Context, actor, id string) error

	Err error

	// LastQuery is the most recent query passed to ListProducts.
	LastQuery domain.ProductQuery
}

// ListProducts implements the service.ProductService interface
func (m *MockProductService) ListProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	m.LastQuery = q
	if m.ListProductsFn != nil {
		return m.ListProductsFn(ctx, q)
	}
	return domain.ProductPage{}, m.Err
}

// GetProduct implements the service.ProductService interface
func (m *MockProductService) GetProduct(ctx context.Context, id string, adminView bool) (*domain.Product, error) {
	if m.GetProductFn != nil {
		return m.GetProductFn(ctx, id, adminView)
	}
	return nil, m.Err
}

// CreateProduct implements the service.ProductService interface
func (m *MockProductService) CreateProduct(ctx context.Context, actor string, p *domain.Product) (*domain.Product, error) {
	if m.CreateProductFn != nil {
		return m.CreateProductFn(ctx, actor, p)
	}
	return nil, m.Err
}

// UpdateProduct implements the service.ProductService interface
func (m *MockProductService) UpdateProduct(
	ctx context.Context,
	actor, id string,
	patch domain.ProductPatch,
) (*domain.Product, error) {
	if m.UpdateProductFn != nil {
		return m.UpdateProductFn(ctx, actor, id, patch)
	}
	return nil, m.Err
}

// DeleteProduct implements the service.ProductService interface
func (m *MockProductService) DeleteProduct(ctx context.Context, actor, id string) error {
	if m.DeleteProductFn != nil {
		return m.DeleteProductFn(ctx, actor, id)
	}
	return m.Err
}
