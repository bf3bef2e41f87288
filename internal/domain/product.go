package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The internal fields are only exposed to admins.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Brand       string
	Stock       int
	Rating      float64
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	CostPrice     decimal.Decimal
	Supplier      string
	InternalNotes string
	AdminOnly     bool
}

// Product validation errors.
var (
	ErrProductNameEmpty     = NewValidationError("name", "cannot be empty", nil)
	ErrProductPriceInvalid  = NewValidationError("price", "must be greater than zero", nil)
	ErrProductStockNegative = NewValidationError("stock", "cannot be negative", nil)
)

// Validate checks the fields a product must carry to be stored.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrProductNameEmpty
	}
	if !p.Price.IsPositive() {
		return ErrProductPriceInvalid
	}
	if p.Stock < 0 {
		return ErrProductStockNegative
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrCategoryRequired
	}
	if _, ok := FindCategory(p.Category); !ok {
		return ErrCategoryNotFound
	}
	return nil
}

// Clone returns a copy that shares no mutable state with p.
func (p *Product) Clone() *Product {
	c := *p
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// ProductPatch lists the fields an admin may change on an existing product.
// Nil fields are left untouched.
type ProductPatch struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Category      *string
	Brand         *string
	Stock         *int
	Tags          []string
	CostPrice     *decimal.Decimal
	Supplier      *string
	InternalNotes *string
	AdminOnly     *bool
}

// Apply copies the set fields of patch onto p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Tags != nil {
		p.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.CostPrice != nil {
		p.CostPrice = *patch.CostPrice
	}
	if patch.Supplier != nil {
		p.Supplier = *patch.Supplier
	}
	if patch.InternalNotes != nil {
		p.InternalNotes = *patch.InternalNotes
	}
	if patch.AdminOnly != nil {
		p.AdminOnly = *patch.AdminOnly
	}
}

// Sort keys accepted by product listings.
const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByRating    = "rating"
	SortByStock     = "stock"
	SortByCreatedAt = "createdAt"
)

// Listing limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProductQuery describes a filtered, sorted page of the catalog.
type ProductQuery struct {
	Page      int
	Limit     int
	Search    string
	Category  string
	SortBy    string
	SortDesc  bool
	AdminView bool
}

// Normalize fills defaults and rejects out-of-range values.
func (q *ProductQuery) Normalize() error {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Page < 1 {
		return NewValidationError("page", "must be at least 1", nil)
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit < 1 || q.Limit > MaxPageSize {
		return NewValidationError("limit", "must be between 1 and 100", nil)
	}
	if q.SortBy == "" {
		q.SortBy = SortByName
	}
	switch q.SortBy {
	case SortByName, SortByPrice, SortByRating, SortByStock, SortByCreatedAt:
	default:
		return NewValidationError("sortBy", "is not a sortable field", nil)
	}
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	q.Category = strings.TrimSpace(q.Category)
	return nil
}

// ProductPage is one page of a listing.
type ProductPage struct {
	Products   []*Product
	Page       int
	Limit      int
	TotalItems int
}

// TotalPages returns the number of pages for the listing.
func (p ProductPage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.TotalItems + p.Limit - 1) / p.Limit
}
