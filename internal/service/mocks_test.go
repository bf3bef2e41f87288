package service

import (
	"context"
	"sync"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCartStore mocks store.CartStore
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) GetOrCreate(ctx context.Context, subject string) (*domain.Cart, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

// fixedCatalog is a PriceCatalog backed by a map.
type fixedCatalog map[string]decimal.Decimal

func (c fixedCatalog) Price(_ context.Context, productID string) (decimal.Decimal, bool) {
	p, ok := c[productID]
	return p, ok
}

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return e.err
}

func (e *recordingEmitter) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Type
	}
	return out
}
