package store

import (
	"context"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/shopspring/decimal"
)

// PriceCatalog resolves the current price of a product.
type PriceCatalog interface {
	Price(ctx context.Context, productID string) (decimal.Decimal, bool)
}

// ProductStore holds the product catalog. Returned products are copies.
type ProductStore interface {
	PriceCatalog

	// List returns the page of products matching q. q must be normalized.
	List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)

	// Get returns a product by ID or ErrProductNotFound.
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Create stores p, assigning the next free numeric ID.
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)

	// Update applies patch to the product with the given ID.
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}
