package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductValidate(t *testing.T) {
	t.Parallel()

	valid := Product{
		ID:       "1",
		Name:     "Widget",
		Price:    decimal.NewFromInt(10),
		Category: "electronics",
		Stock:    3,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr error
	}{
		{"blank name", func(p *Product) { p.Name = "  " }, ErrProductNameEmpty},
		{"zero price", func(p *Product) { p.Price = decimal.Zero }, ErrProductPriceInvalid},
		{"negative stock", func(p *Product) { p.Stock = -1 }, ErrProductStockNegative},
		{"missing category", func(p *Product) { p.Category = "" }, ErrCategoryRequired},
		{"unknown category", func(p *Product) { p.Category = "Garden" }, ErrCategoryNotFound},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := valid
			tc.mutate(&p)
			assert.ErrorIs(t, p.Validate(), tc.wantErr)
		})
	}
}

func TestProductPatchApply(t *testing.T) {
	t.Parallel()

	p := &Product{ID: "7", Name: "Old", Price: decimal.NewFromInt(5), Tags: []string{"a"}}
	name := "New"
	newPrice := decimal.NewFromInt(8)
	adminOnly := true

	ProductPatch{Name: &name, Price: &newPrice, AdminOnly: &adminOnly}.Apply(p)

	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "New", p.Name)
	assert.True(t, p.Price.Equal(newPrice))
	assert.True(t, p.AdminOnly)
	assert.Equal(t, []string{"a"}, p.Tags)
}

func TestProductQueryNormalize(t *testing.T) {
	t.Parallel()

	q := ProductQuery{Search: "  WiDGet "}
	require.NoError(t, q.Normalize())
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.Limit)
	assert.Equal(t, SortByName, q.SortBy)
	assert.Equal(t, "widget", q.Search)

	for _, bad := range []ProductQuery{
		{Page: -1},
		{Limit: MaxPageSize + 1},
		{Limit: -5},
		{SortBy: "costPrice"},
	} {
		bad := bad
		assert.ErrorIs(t, bad.Normalize(), ErrInvalidArgument, "%+v", bad)
	}
}

func TestProductPageTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50, ProductPage{TotalItems: 1000, Limit: 20}.TotalPages())
	assert.Equal(t, 51, ProductPage{TotalItems: 1001, Limit: 20}.TotalPages())
	assert.Equal(t, 0, ProductPage{TotalItems: 0, Limit: 20}.TotalPages())
}

func TestFindCategory(t *testing.T) {
	t.Parallel()

	c, ok := FindCategory("bOoKs")
	require.True(t, ok)
	assert.Equal(t, "Books", c.Name)
	assert.Equal(t, "Study and reading books", c.Description)

	_, ok = FindCategory("Garden")
	assert.False(t, ok)

	all := Categories()
	require.Len(t, all, 6)
	all[0].Name = "mutated"
	assert.Equal(t, "Electronics", Categories()[0].Name)
}
