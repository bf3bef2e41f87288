package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// MockCartService implements service.CartService for testing
type MockCartService struct {
	GetCartFn    func(ctx context.Context, subject string) (*domain.Cart, error)
	AddItemFn    func(ctx context.Context, subject, productID string, quantity int) (*domain.Cart, domain.CartLineItem, error)
	UpdateItemFn func(ctx context.Context, subject, productID string, quantity int) (*domain.Cart, error)
	RemoveItemFn func(ctx context.Context, subject, productID string) (*domain.Cart, domain.CartLineItem, error)

	// Default response values
	Cart *domain.Cart
	Line domain.CartLineItem
	Err  error

	mu       sync.Mutex
	Subjects []string
}

func (m *MockCartService) record(subject string) {
	m.mu.Lock()
	m.Subjects = append(m.Subjects, subject)
	m.mu.Unlock()
}

func (m *MockCartService) cart(subject string) *domain.Cart {
	if m.Cart != nil {
		return m.Cart
	}
	return domain.NewCart(subject)
}

// GetCart implements the service.CartService interface
func (m *MockCartService) GetCart(ctx context.Context, subject string) (*domain.Cart, error) {
	m.record(subject)
	if m.GetCartFn != nil {
		return m.GetCartFn(ctx, subject)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.cart(subject), nil
}

// AddItem implements the service.CartService interface
func (m *MockCartService) AddItem(
	ctx context.Context,
	subject, productID string,
	quantity int,
) (*domain.Cart, domain.CartLineItem, error) {
	m.record(subject)
	if m.AddItemFn != nil {
		return m.AddItemFn(ctx, subject, productID, quantity)
	}
	if m.Err != nil {
		return nil, domain.CartLineItem{}, m.Err
	}
	return m.cart(subject), m.Line, nil
}

// UpdateItem implements the service.CartService interface
func (m *MockCartService) UpdateItem(
	ctx context.Context,
	subject, productID string,
	quantity int,
) (*domain.Cart, error) {
	m.record(subject)
	if m.UpdateItemFn != nil {
		return m.UpdateItemFn(ctx, subject, productID, quantity)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.cart(subject), nil
}

// RemoveItem implements the service.CartService interface
func (m *MockCartService) RemoveItem(
	ctx context.Context,
	subject, productID string,
) (*domain.Cart, domain.CartLineItem, error) {
	m.record(subject)
	if m.RemoveItemFn != nil {
		return m.RemoveItemFn(ctx, subject, productID)
	}
	if m.Err != nil {
		return nil, domain.CartLineItem{}, m.Err
	}
	return m.cart(subject), m.Line, nil
}
