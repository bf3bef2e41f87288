package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
)

// defaultCostRatio derives a cost price when a new product omits one.
var defaultCostRatio = decimal.RequireFromString("0.7")

// ProductService exposes the catalog with role-based visibility.
//
// Callers decide adminView from the verified principal. Without it, admin-only
// products behave as if they did not exist.
type ProductService interface {
	ListProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error)
	GetProduct(ctx context.Context, id string, adminView bool) (*domain.Product, error)
	CreateProduct(ctx context.Context, actor string, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor, id string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor, id string) error
}

// ProductCacheConfig sizes the listing cache. A zero Size disables caching.
type ProductCacheConfig struct {
	Size int
	TTL  time.Duration
}

type productServiceImpl struct {
	products store.ProductStore
	emitter  events.EventEmitter
	cache    *expirable.LRU[string, domain.ProductPage]
	logger   *slog.Logger

	// cacheMu orders cache fills against invalidation. generation counts
	// invalidations; a page read under an older generation is never cached.
	cacheMu    sync.Mutex
	generation uint64
}

var _ ProductService = (*productServiceImpl)(nil)

// NewProductService creates a ProductService.
func NewProductService(
	products store.ProductStore,
	emitter events.EventEmitter,
	cacheCfg ProductCacheConfig,
	logger *slog.Logger,
) (ProductService, error) {
	if products == nil {
		return nil, &ServiceError{Service: "product", Operation: "create_service", Message: "products cannot be nil"}
	}
	if emitter == nil {
		return nil, &ServiceError{Service: "product", Operation: "create_service", Message: "emitter cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &productServiceImpl{
		products: products,
		emitter:  emitter,
		logger:   logger.With("component", "product_service"),
	}
	if cacheCfg.Size > 0 && cacheCfg.TTL > 0 {
		s.cache = expirable.NewLRU[string, domain.ProductPage](cacheCfg.Size, nil, cacheCfg.TTL)
	}
	return s, nil
}

func cacheKey(q domain.ProductQuery) string {
	return fmt.Sprintf("%d|%d|%s|%s|%s|%t|%t", q.Page, q.Limit, q.Search, q.Category, q.SortBy, q.SortDesc, q.AdminView)
}

func clonePage(p domain.ProductPage) domain.ProductPage {
	out := p
	out.Products = make([]*domain.Product, len(p.Products))
	for i, prod := range p.Products {
		out.Products[i] = prod.Clone()
	}
	return out
}

// ListProducts implements ProductService.
func (s *productServiceImpl) ListProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := q.Normalize(); err != nil {
		return domain.ProductPage{}, err
	}

	key := cacheKey(q)
	var gen uint64
	if s.cache != nil {
		if page, ok := s.cache.Get(key); ok {
			log.Debug("product listing served from cache", "key", key)
			return clonePage(page), nil
		}
		gen = s.currentGeneration()
	}

	page, err := s.products.List(ctx, q)
	if err != nil {
		log.Error("failed to list products", "error", err)
		return domain.ProductPage{}, NewProductServiceError("list_products", "failed to list products", err)
	}

	if s.cache != nil {
		s.fill(key, page, gen)
	}
	return page, nil
}

// GetProduct implements ProductService.
func (s *productServiceImpl) GetProduct(ctx context.Context, id string, adminView bool) (*domain.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get product",
			"error", err,
			"product_id", id)
		return nil, NewProductServiceError("get_product", "failed to get product", err)
	}
	if p.AdminOnly && !adminView {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// canonicalCategory maps a category name to its canonical spelling.
func canonicalCategory(name string) (string, error) {
	c, ok := domain.FindCategory(name)
	if !ok {
		return "", domain.ErrCategoryNotFound
	}
	return c.Name, nil
}

// CreateProduct implements ProductService.
func (s *productServiceImpl) CreateProduct(
	ctx context.Context,
	actor string,
	p *domain.Product,
) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	candidate := p.Clone()
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	candidate.Category, _ = canonicalCategory(candidate.Category)
	if candidate.CostPrice.IsZero() {
		candidate.CostPrice = candidate.Price.Mul(defaultCostRatio).Round(2)
	}
	if candidate.Supplier == "" {
		candidate.Supplier = "Unknown"
	}

	created, err := s.products.Create(ctx, candidate)
	if err != nil {
		log.Error("failed to create product", "error", err, "actor", actor)
		return nil, NewProductServiceError("create_product", "failed to create product", err)
	}
	s.invalidate()

	log.Info("product created", "product_id", created.ID, "actor", actor)
	emitEvent(ctx, log, s.emitter, events.TypeProductCreated, actor, productEventPayload{ProductID: created.ID})
	return created, nil
}

// UpdateProduct implements ProductService.
func (s *productServiceImpl) UpdateProduct(
	ctx context.Context,
	actor, id string,
	patch domain.ProductPatch,
) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Category != nil {
		name, err := canonicalCategory(*patch.Category)
		if err != nil {
			return nil, err
		}
		patch.Category = &name
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		log.Error("failed to update product", "error", err, "product_id", id, "actor", actor)
		return nil, NewProductServiceError("update_product", "failed to update product", err)
	}
	s.invalidate()

	log.Info("product updated", "product_id", id, "actor", actor)
	emitEvent(ctx, log, s.emitter, events.TypeProductUpdated, actor, productEventPayload{ProductID: id})
	return updated, nil
}

// DeleteProduct implements ProductService.
func (s *productServiceImpl) DeleteProduct(ctx context.Context, actor, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return domain.ErrProductNotFound
		}
		log.Error("failed to delete product", "error", err, "product_id", id, "actor", actor)
		return NewProductServiceError("delete_product", "failed to delete product", err)
	}
	s.invalidate()

	log.Info("product deleted", "product_id", id, "actor", actor)
	emitEvent(ctx, log, s.emitter, events.TypeProductDeleted, actor, productEventPayload{ProductID: id})
	return nil
}

func (s *productServiceImpl) currentGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// fill caches page unless a write invalidated the cache after gen was read.
func (s *productServiceImpl) fill(key string, page domain.ProductPage, gen uint64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.generation != gen {
		return
	}
	s.cache.Add(key, clonePage(page))
}

func (s *productServiceImpl) invalidate() {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	s.cache.Purge()
}

type productEventPayload struct {
	ProductID string `json:"productId"`
}
