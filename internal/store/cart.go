package store

import (
	"context"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// CartStore persists one cart per subject.
//
// Implementations hand out copies: a cart returned by GetOrCreate may be
// mutated freely by the caller and has no effect until passed to Save.
type CartStore interface {
	// GetOrCreate returns the subject's cart, or a new empty cart when none
	// exists. The empty cart is not persisted.
	GetOrCreate(ctx context.Context, subject string) (*domain.Cart, error)

	// Save replaces the stored cart for cart.Owner with cart.
	Save(ctx context.Context, cart *domain.Cart) error
}
