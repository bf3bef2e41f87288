package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
)

// CartStore keeps carts in a map keyed by subject.
type CartStore struct {
	mu     sync.RWMutex
	carts  map[string]*domain.Cart
	logger *slog.Logger
}

var _ store.CartStore = (*CartStore)(nil)

// NewCartStore returns an empty CartStore.
func NewCartStore(logger *slog.Logger) *CartStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartStore{
		carts:  make(map[string]*domain.Cart),
		logger: logger.With("component", "memory_cart_store"),
	}
}

// GetOrCreate implements store.CartStore.
func (s *CartStore) GetOrCreate(ctx context.Context, subject string) (*domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	cart, ok := s.carts[subject]
	s.mu.RUnlock()

	if !ok {
		return domain.NewCart(subject), nil
	}
	return cart.Clone(), nil
}

// Save implements store.CartStore.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cart == nil || cart.Owner == "" {
		return store.NewStoreError("cart", "save", "cart has no owner", store.ErrInvalidEntity)
	}

	stored := cart.Clone()

	s.mu.Lock()
	s.carts[cart.Owner] = stored
	s.mu.Unlock()

	s.logger.Debug("cart saved",
		slog.String("owner", cart.Owner),
		slog.Int("items", stored.ItemCount()))
	return nil
}

// Len returns the number of persisted carts.
func (s *CartStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}
