package api

import (
	"time"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest is the body of POST /api/cart. Quantity defaults to 1.
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

// UpdateCartItemRequest is the body of PUT /api/cart.
type UpdateCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity"  validate:"required"`
}

// CartItemResponse is one cart line.
type CartItemResponse struct {
	ProductID string     `json:"productId"`
	Quantity  int        `json:"quantity"`
	Price     float64    `json:"price"`
	Subtotal  float64    `json:"subtotal"`
	AddedAt   time.Time  `json:"addedAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CartResponse is the client view of a cart.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

// CartMetadata accompanies GET /api/cart.
type CartMetadata struct {
	LastUpdated time.Time `json:"lastUpdated"`
	ItemCount   int       `json:"itemCount"`
}

// GetCartResponse is the body of GET /api/cart.
type GetCartResponse struct {
	Cart     CartResponse `json:"cart"`
	Metadata CartMetadata `json:"metadata"`
}

// AddedItem echoes what POST /api/cart added.
type AddedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartMutationResponse is the body of the cart write endpoints.
type CartMutationResponse struct {
	Message     string            `json:"message"`
	Cart        CartResponse      `json:"cart"`
	AddedItem   *AddedItem        `json:"addedItem,omitempty"`
	RemovedItem *CartItemResponse `json:"removedItem,omitempty"`
}

func cartItemToResponse(item domain.CartLineItem) CartItemResponse {
	return CartItemResponse{
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Price:     item.UnitPriceSnapshot.InexactFloat64(),
		Subtotal:  item.Subtotal().InexactFloat64(),
		AddedAt:   item.AddedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func cartToResponse(cart *domain.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemToResponse(item))
	}
	return CartResponse{Items: items, Total: cart.Total.InexactFloat64()}
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Brand       string     `json:"brand"`
	Stock       int        `json:"stock"`
	Rating      float64    `json:"rating"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// AdminProductResponse adds the internal fields shown to admins.
type AdminProductResponse struct {
	ProductResponse
	CostPrice     float64 `json:"costPrice"`
	Supplier      string  `json:"supplier"`
	InternalNotes string  `json:"internalNotes"`
	AdminOnly     bool    `json:"adminOnly"`
}

func productToResponse(p *domain.Product) ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		Brand:       p.Brand,
		Stock:       p.Stock,
		Rating:      p.Rating,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// productView renders p with internal fields only when internal is set.
func productView(p *domain.Product, internal bool) interface{} {
	if !internal {
		return productToResponse(p)
	}
	return AdminProductResponse{
		ProductResponse: productToResponse(p),
		CostPrice:       p.CostPrice.InexactFloat64(),
		Supplier:        p.Supplier,
		InternalNotes:   p.InternalNotes,
		AdminOnly:       p.AdminOnly,
	}
}

// Pagination describes a product listing page.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// ProductListResponse is the body of GET /api/products.
type ProductListResponse struct {
	Products   []interface{} `json:"products"`
	Pagination Pagination    `json:"pagination"`
}

// CreateProductRequest is the body of POST /api/products.
type CreateProductRequest struct {
	Name          string           `json:"name"          validate:"required,max=200"`
	Description   string           `json:"description"   validate:"max=2000"`
	Price         decimal.Decimal  `json:"price"`
	Category      string           `json:"category"      validate:"required"`
	Brand         string           `json:"brand"         validate:"max=100"`
	Stock         int              `json:"stock"         validate:"gte=0"`
	Tags          []string         `json:"tags"          validate:"max=20,dive,max=50"`
	CostPrice     *decimal.Decimal `json:"costPrice"`
	Supplier      string           `json:"supplier"      validate:"max=100"`
	InternalNotes string           `json:"internalNotes" validate:"max=2000"`
	AdminOnly     bool             `json:"adminOnly"`
}

func (req CreateProductRequest) toDomain() *domain.Product {
	p := &domain.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		Brand:         req.Brand,
		Stock:         req.Stock,
		Tags:          req.Tags,
		Supplier:      req.Supplier,
		InternalNotes: req.InternalNotes,
		AdminOnly:     req.AdminOnly,
	}
	if req.CostPrice != nil {
		p.CostPrice = *req.CostPrice
	}
	return p
}

// UpdateProductRequest is the body of PUT /api/products/{productId}. Only
// these fields can change; anything else in the body is ignored.
type UpdateProductRequest struct {
	Name          *string          `json:"name"          validate:"omitempty,max=200"`
	Description   *string          `json:"description"   validate:"omitempty,max=2000"`
	Price         *decimal.Decimal `json:"price"`
	Category      *string          `json:"category"`
	Brand         *string          `json:"brand"         validate:"omitempty,max=100"`
	Stock         *int             `json:"stock"         validate:"omitempty,gte=0"`
	Tags          []string         `json:"tags"          validate:"omitempty,max=20,dive,max=50"`
	CostPrice     *decimal.Decimal `json:"costPrice"`
	Supplier      *string          `json:"supplier"      validate:"omitempty,max=100"`
	InternalNotes *string          `json:"internalNotes" validate:"omitempty,max=2000"`
	AdminOnly     *bool            `json:"adminOnly"`
}

func (req UpdateProductRequest) toPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		Brand:         req.Brand,
		Stock:         req.Stock,
		Tags:          req.Tags,
		CostPrice:     req.CostPrice,
		Supplier:      req.Supplier,
		InternalNotes: req.InternalNotes,
		AdminOnly:     req.AdminOnly,
	}
}

// ProductMutationResponse is the body of product create and update.
type ProductMutationResponse struct {
	Message string      `json:"message"`
	Product interface{} `json:"product"`
}

// MessageResponse carries only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// CategoryResponse is one category.
type CategoryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryListResponse is the body of GET /api/categories.
type CategoryListResponse struct {
	Total      int                `json:"total"`
	Categories []CategoryResponse `json:"categories"`
}

// SecretProductResponse is one entry of the profit report.
type SecretProductResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ActualCost     float64 `json:"actualCost"`
	SellingPrice   float64 `json:"sellingPrice"`
	ProfitMargin   string  `json:"profitMargin"`
	SecretCategory string  `json:"secretCategory"`
}

// ProfitAnalytics summarizes the profit report.
type ProfitAnalytics struct {
	AverageProfitMargin   string    `json:"averageProfitMargin"`
	TopPerformingCategory string    `json:"topPerformingCategory"`
	AccessTimestamp       time.Time `json:"accessTimestamp"`
}

// ProfitReportResponse is the body of GET /api/product_secret_endpoint.
type ProfitReportResponse struct {
	Message        string                  `json:"message"`
	AccessMethod   string                  `json:"accessMethod"`
	SecretProducts []SecretProductResponse `json:"secretProducts"`
	TotalProfit    float64                 `json:"totalProfit"`
	Analytics      ProfitAnalytics         `json:"analytics"`
	FinalPuzzle    string                  `json:"finalPuzzle"`
	PuzzleHint     string                  `json:"puzzleHint"`
}

func percent(d decimal.Decimal) string {
	return d.Round(0).String() + "%"
}

func profitReportToResponse(r service.ProfitReport) ProfitReportResponse {
	products := make([]SecretProductResponse, 0, len(r.SecretProducts))
	for _, p := range r.SecretProducts {
		products = append(products, SecretProductResponse{
			ID:             p.ID,
			Name:           p.Name,
			ActualCost:     p.ActualCost.InexactFloat64(),
			SellingPrice:   p.SellingPrice.InexactFloat64(),
			ProfitMargin:   percent(p.Margin()),
			SecretCategory: p.SecretCategory,
		})
	}
	return ProfitReportResponse{
		Message:        "Secret product profit data accessed",
		AccessMethod:   r.AccessMethod,
		SecretProducts: products,
		TotalProfit:    r.TotalProfit.InexactFloat64(),
		Analytics: ProfitAnalytics{
			AverageProfitMargin:   percent(r.AverageProfitMargin),
			TopPerformingCategory: r.TopPerformingCategory,
			AccessTimestamp:       r.AccessTimestamp,
		},
		FinalPuzzle: r.FinalPuzzle,
		PuzzleHint:  r.PuzzleHint,
	}
}

// RevokeTokenRequest is the body of POST /api/admin/tokens/revoke.
// ExpiresAt defaults to now plus the token lifetime.
type RevokeTokenRequest struct {
	TokenID   string     `json:"tokenId"   validate:"required,max=128"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
