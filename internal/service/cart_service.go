package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// CartService manages the carts of authenticated subjects.
//
// Every mutation loads the subject's cart, applies the change to that private
// copy and saves it whole. A failed operation leaves the stored cart as it was.
type CartService interface {
	// GetCart returns the subject's cart; a new subject gets an empty cart.
	GetCart(ctx context.Context, subject string) (*domain.Cart, error)

	// AddItem adds quantity units of productID at its current catalog price
	// and returns the updated cart and the resulting line.
	AddItem(ctx context.Context, subject, productID string, quantity int) (*domain.Cart, domain.CartLineItem, error)

	// UpdateItem sets the quantity of an existing line; zero removes it.
	UpdateItem(ctx context.Context, subject, productID string, quantity int) (*domain.Cart, error)

	// RemoveItem deletes a line and returns the updated cart and the removed line.
	RemoveItem(ctx context.Context, subject, productID string) (*domain.Cart, domain.CartLineItem, error)
}

type cartServiceImpl struct {
	carts   store.CartStore
	catalog store.PriceCatalog
	emitter events.EventEmitter
	locks   *keyedMutex
	now     func() time.Time
	logger  *slog.Logger
}

var _ CartService = (*cartServiceImpl)(nil)

// NewCartService creates a CartService.
// It returns an error if any of the required dependencies are nil.
func NewCartService(
	carts store.CartStore,
	catalog store.PriceCatalog,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (CartService, error) {
	if carts == nil {
		return nil, &CartServiceError{Service: "cart", Operation: "create_service", Message: "carts cannot be nil"}
	}
	if catalog == nil {
		return nil, &CartServiceError{Service: "cart", Operation: "create_service", Message: "catalog cannot be nil"}
	}
	if emitter == nil {
		return nil, &CartServiceError{Service: "cart", Operation: "create_service", Message: "emitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cartServiceImpl{
		carts:   carts,
		catalog: catalog,
		emitter: emitter,
		locks:   newKeyedMutex(),
		now:     time.Now,
		logger:  logger.With("component", "cart_service"),
	}, nil
}

// GetCart implements CartService.
func (s *cartServiceImpl) GetCart(ctx context.Context, subject string) (*domain.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, subject)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load cart",
			"error", err,
			"subject", subject)
		return nil, NewCartServiceError("get_cart", "failed to load cart", err)
	}
	return cart, nil
}

// AddItem implements CartService.
func (s *cartServiceImpl) AddItem(
	ctx context.Context,
	subject, productID string,
	quantity int,
) (*domain.Cart, domain.CartLineItem, error) {
	if err := domain.ValidateProductID(productID); err != nil {
		return nil, domain.CartLineItem{}, err
	}
	if quantity < domain.MinQuantity || quantity > domain.MaxQuantity {
		return nil, domain.CartLineItem{}, domain.ErrQuantityOutOfRange
	}
	price, ok := s.catalog.Price(ctx, productID)
	if !ok {
		return nil, domain.CartLineItem{}, domain.ErrUnknownProduct
	}

	var line domain.CartLineItem
	cart, err := s.mutate(ctx, subject, "add_item", func(cart *domain.Cart, now time.Time) error {
		if err := cart.AddItem(productID, quantity, price, now); err != nil {
			return err
		}
		line, _ = cart.Item(productID)
		return nil
	})
	if err != nil {
		return nil, domain.CartLineItem{}, err
	}

	s.emit(ctx, events.TypeCartItemAdded, subject, cartEventPayload{
		ProductID: productID,
		Quantity:  quantity,
		Total:     cart.Total.String(),
	})
	return cart, line, nil
}

// UpdateItem implements CartService.
func (s *cartServiceImpl) UpdateItem(
	ctx context.Context,
	subject, productID string,
	quantity int,
) (*domain.Cart, error) {
	if err := domain.ValidateProductID(productID); err != nil {
		return nil, err
	}
	if _, ok := s.catalog.Price(ctx, productID); !ok {
		return nil, domain.ErrUnknownProduct
	}
	if quantity < 0 || quantity > domain.MaxQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}

	cart, err := s.mutate(ctx, subject, "update_item", func(cart *domain.Cart, now time.Time) error {
		return cart.UpdateItem(productID, quantity, now)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.TypeCartItemUpdated, subject, cartEventPayload{
		ProductID: productID,
		Quantity:  quantity,
		Total:     cart.Total.String(),
	})
	return cart, nil
}

// RemoveItem implements CartService.
func (s *cartServiceImpl) RemoveItem(
	ctx context.Context,
	subject, productID string,
) (*domain.Cart, domain.CartLineItem, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.CartLineItem{}, domain.ErrItemNotInCart
	}

	var removed domain.CartLineItem
	cart, err := s.mutate(ctx, subject, "remove_item", func(cart *domain.Cart, now time.Time) error {
		var err error
		removed, err = cart.RemoveItem(productID, now)
		return err
	})
	if err != nil {
		return nil, domain.CartLineItem{}, err
	}

	s.emit(ctx, events.TypeCartItemRemoved, subject, cartEventPayload{
		ProductID: productID,
		Quantity:  removed.Quantity,
		Total:     cart.Total.String(),
	})
	return cart, removed, nil
}

// mutate runs fn against a copy of the subject's cart under the subject's
// lock and saves the result. Nothing is saved when fn fails.
func (s *cartServiceImpl) mutate(
	ctx context.Context,
	subject, operation string,
	fn func(cart *domain.Cart, now time.Time) error,
) (*domain.Cart, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if subject == "" {
		return nil, domain.ErrAuthenticationRequired
	}

	unlock := s.locks.Lock(subject)
	defer unlock()

	cart, err := s.carts.GetOrCreate(ctx, subject)
	if err != nil {
		log.Error("failed to load cart",
			"error", err,
			"subject", subject,
			"operation", operation)
		return nil, NewCartServiceError(operation, "failed to load cart", err)
	}

	if err := fn(cart, s.now().UTC()); err != nil {
		log.Debug("cart mutation rejected",
			"error", err,
			"subject", subject,
			"operation", operation)
		return nil, err
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		log.Error("failed to save cart",
			"error", err,
			"subject", subject,
			"operation", operation)
		return nil, NewCartServiceError(operation, "failed to save cart", err)
	}

	log.Debug("cart updated",
		"subject", subject,
		"operation", operation,
		"item_count", cart.ItemCount(),
		"total", cart.Total.String())
	return cart, nil
}

type cartEventPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

// emit publishes an event for a change that has already been saved. Failures
// are logged and never undo the change.
func (s *cartServiceImpl) emit(ctx context.Context, eventType, subject string, payload interface{}) {
	emitEvent(ctx, logger.FromContextOrDefault(ctx, s.logger), s.emitter, eventType, subject, payload)
}

func emitEvent(
	ctx context.Context,
	log *slog.Logger,
	emitter events.EventEmitter,
	eventType, subject string,
	payload interface{},
) {
	event, err := events.NewEvent(eventType, subject, payload)
	if err == nil {
		err = emitter.EmitEvent(ctx, event)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("failed to emit event",
			"error", err,
			"event_type", eventType,
			"subject", subject)
	}
}
