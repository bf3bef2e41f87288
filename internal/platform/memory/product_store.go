package memory

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
)

// Fixed prices of the first catalog entries. Carts created before the catalog
// was generated relied on these, so generation never randomizes them.
var anchorPrices = []int64{100, 200, 150, 75, 300}

var brands = []string{"BrandA", "BrandB", "BrandC", "BrandD", "BrandE"}

// catalogEpoch is the creation time of product 1; later products are spaced
// one minute apart.
var catalogEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ProductStore is an in-memory catalog guarded by a RWMutex.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
	nextID   int
	now      func() time.Time
	logger   *slog.Logger
}

var _ store.ProductStore = (*ProductStore)(nil)

// ProductStoreOption configures a ProductStore.
type ProductStoreOption func(*ProductStore)

// WithClock overrides the time source used for UpdatedAt and CreatedAt.
func WithClock(now func() time.Time) ProductStoreOption {
	return func(s *ProductStore) { s.now = now }
}

// NewProductStore generates count products from seed. The same seed always
// yields the same catalog.
func NewProductStore(count int, seed int64, logger *slog.Logger, opts ...ProductStoreOption) *ProductStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ProductStore{
		products: make(map[string]*domain.Product, count),
		order:    make([]string, 0, count),
		now:      time.Now,
		logger:   logger.With("component", "memory_product_store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range GenerateProducts(count, seed) {
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}
	s.nextID = count + 1

	s.logger.Info("product catalog generated",
		slog.Int("count", count),
		slog.Int64("seed", seed))
	return s
}

// GenerateProducts builds a deterministic catalog of count products with
// numeric IDs starting at 1.
func GenerateProducts(count int, seed int64) []*domain.Product {
	rng := rand.New(rand.NewSource(seed))
	cats := domain.Categories()
	out := make([]*domain.Product, 0, count)

	for i := 1; i <= count; i++ {
		price := decimal.NewFromInt(int64(rng.Intn(1000) + 10))
		adminOnly := rng.Float64() > 0.9
		if i <= len(anchorPrices) {
			price = decimal.NewFromInt(anchorPrices[i-1])
			adminOnly = false
		}
		cost := price.Mul(decimal.NewFromFloat(0.3 + rng.Float64()*0.4)).Round(2)

		out = append(out, &domain.Product{
			ID:            strconv.Itoa(i),
			Name:          fmt.Sprintf("Product %d", i),
			Description:   fmt.Sprintf("This is product number %d with amazing features", i),
			Price:         price,
			Category:      cats[rng.Intn(len(cats))].Name,
			Brand:         brands[rng.Intn(len(brands))],
			Stock:         rng.Intn(100),
			Rating:        float64(rng.Intn(51)) / 10,
			Tags:          []string{fmt.Sprintf("tag%d", i), fmt.Sprintf("feature%d", i%10)},
			CreatedAt:     catalogEpoch.Add(time.Duration(i-1) * time.Minute),
			CostPrice:     cost,
			Supplier:      fmt.Sprintf("Supplier %d", i%20),
			InternalNotes: fmt.Sprintf("Internal notes for product %d", i),
			AdminOnly:     adminOnly,
		})
	}
	return out
}

// Price implements store.PriceCatalog.
func (s *ProductStore) Price(_ context.Context, productID string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[productID]
	if !ok {
		return decimal.Decimal{}, false
	}
	return p.Price, true
}

// List implements store.ProductStore.
func (s *ProductStore) List(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProductPage{}, err
	}

	s.mu.RLock()
	matched := make([]*domain.Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.products[id]
		if p.AdminOnly && !q.AdminView {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Search != "" &&
			!strings.Contains(strings.ToLower(p.Name), q.Search) &&
			!strings.Contains(strings.ToLower(p.Description), q.Search) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.RUnlock()

	sortProducts(matched, q.SortBy, q.SortDesc)

	page := domain.ProductPage{Page: q.Page, Limit: q.Limit, TotalItems: len(matched)}
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		page.Products = []*domain.Product{}
		return page, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	// Products are copied after the lock is released; the pointers stay valid
	// because writers replace entries rather than mutating them.
	page.Products = make([]*domain.Product, 0, end-start)
	for _, p := range matched[start:end] {
		page.Products = append(page.Products, p.Clone())
	}
	return page, nil
}

func sortProducts(ps []*domain.Product, by string, desc bool) {
	less := func(a, b *domain.Product) int {
		switch by {
		case domain.SortByPrice:
			return a.Price.Cmp(b.Price)
		case domain.SortByRating:
			return compareFloat(a.Rating, b.Rating)
		case domain.SortByStock:
			return a.Stock - b.Stock
		case domain.SortByCreatedAt:
			return a.CreatedAt.Compare(b.CreatedAt)
		default:
			return strings.Compare(a.Name, b.Name)
		}
	}
	sort.SliceStable(ps, func(i, j int) bool {
		c := less(ps[i], ps[j])
		if c == 0 {
			return idLess(ps[i].ID, ps[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// idLess orders numeric IDs numerically and everything else lexically.
func idLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	return a < b
}

// Get implements store.ProductStore.
func (s *ProductStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return p.Clone(), nil
}

// Create implements store.ProductStore.
func (s *ProductStore) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, store.NewStoreError("product", "create", "validation failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := p.Clone()
	created.ID = strconv.Itoa(s.nextID)
	created.CreatedAt = s.now().UTC()
	created.UpdatedAt = nil
	if _, exists := s.products[created.ID]; exists {
		return nil, store.ErrProductExists
	}
	s.nextID++

	s.products[created.ID] = created
	s.order = append(s.order, created.ID)
	return created.Clone(), nil
}

// Update implements store.ProductStore.
func (s *ProductStore) Update(
	ctx context.Context,
	id string,
	patch domain.ProductPatch,
) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}

	updated := current.Clone()
	patch.Apply(updated)
	if err := updated.Validate(); err != nil {
		return nil, store.NewStoreError("product", "update", "validation failed", err)
	}
	now := s.now().UTC()
	updated.UpdatedAt = &now

	s.products[id] = updated
	return updated.Clone(), nil
}

// Delete implements store.ProductStore.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return store.ErrProductNotFound
	}
	delete(s.products, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
