package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 100
)

var productIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateProductID checks that id is a well-formed product identifier.
func ValidateProductID(id string) error {
	if !productIDPattern.MatchString(id) {
		return ErrInvalidProductID
	}
	return nil
}

// CartLineItem is one product entry in a cart. The unit price is a snapshot
// taken when the line was created and never follows later catalog changes.
type CartLineItem struct {
	ProductID         string
	Quantity          int
	UnitPriceSnapshot decimal.Decimal
	AddedAt           time.Time
	UpdatedAt         *time.Time
}

// Subtotal returns the line's contribution to the cart total.
func (i CartLineItem) Subtotal() decimal.Decimal {
	return i.UnitPriceSnapshot.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds the line items of a single owner and their running total.
//
// Total is maintained incrementally by AddItem, UpdateItem and RemoveItem;
// it is never recomputed from the items on these paths.
type Cart struct {
	Owner     string
	Items     []CartLineItem
	Total     decimal.Decimal
	UpdatedAt time.Time
}

// NewCart returns an empty cart for owner.
func NewCart(owner string) *Cart {
	return &Cart{
		Owner: owner,
		Items: []CartLineItem{},
		Total: decimal.Zero,
	}
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	clone := &Cart{
		Owner:     c.Owner,
		Items:     make([]CartLineItem, len(c.Items)),
		Total:     c.Total,
		UpdatedAt: c.UpdatedAt,
	}
	for i, item := range c.Items {
		if item.UpdatedAt != nil {
			t := *item.UpdatedAt
			item.UpdatedAt = &t
		}
		clone.Items[i] = item
	}
	return clone
}

// ItemCount returns the number of distinct line items.
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// Item returns the line for productID, if any.
func (c *Cart) Item(productID string) (CartLineItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return CartLineItem{}, false
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds quantity units of productID priced at unitPrice. An existing
// line is incremented and keeps its original snapshot; otherwise a new line is
// appended. The combined line quantity may not exceed MaxQuantity.
func (c *Cart) AddItem(productID string, quantity int, unitPrice decimal.Decimal, now time.Time) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return ErrQuantityOutOfRange
	}

	if i := c.indexOf(productID); i >= 0 {
		item := &c.Items[i]
		if item.Quantity+quantity > MaxQuantity {
			return ErrQuantityOutOfRange
		}
		item.Quantity += quantity
		item.UpdatedAt = &now
		c.Total = c.Total.Add(item.UnitPriceSnapshot.Mul(decimal.NewFromInt(int64(quantity))))
		c.UpdatedAt = now
		return nil
	}

	c.Items = append(c.Items, CartLineItem{
		ProductID:         productID,
		Quantity:          quantity,
		UnitPriceSnapshot: unitPrice,
		AddedAt:           now,
	})
	c.Total = c.Total.Add(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
	c.UpdatedAt = now
	return nil
}

// UpdateItem sets the quantity of an existing line. Zero removes the line.
// The stored snapshot price is used for the total adjustment.
func (c *Cart) UpdateItem(productID string, newQuantity int, now time.Time) error {
	if newQuantity < 0 || newQuantity > MaxQuantity {
		return ErrQuantityOutOfRange
	}

	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotInCart
	}

	if newQuantity == 0 {
		c.removeAt(i)
		c.UpdatedAt = now
		return nil
	}

	item := &c.Items[i]
	delta := decimal.NewFromInt(int64(newQuantity - item.Quantity))
	c.Total = c.Total.Add(delta.Mul(item.UnitPriceSnapshot))
	item.Quantity = newQuantity
	item.UpdatedAt = &now
	c.UpdatedAt = now
	return nil
}

// RemoveItem removes the line for productID and returns it.
func (c *Cart) RemoveItem(productID string, now time.Time) (CartLineItem, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return CartLineItem{}, ErrItemNotInCart
	}
	removed := c.removeAt(i)
	c.UpdatedAt = now
	return removed, nil
}

// removeAt decrements the total by the line's subtotal, then drops the line
// while preserving insertion order of the remaining items.
func (c *Cart) removeAt(i int) CartLineItem {
	removed := c.Items[i]
	c.Total = c.Total.Sub(removed.Subtotal())
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return removed
}

// Validate checks the stored invariants: every line has a quantity within
// bounds and Total equals the sum of the line subtotals. Stores call it on
// data loaded from outside the process.
func (c *Cart) Validate() error {
	if c.Owner == "" {
		return NewValidationError("owner", "cannot be empty", nil)
	}
	sum := decimal.Zero
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.Quantity < MinQuantity || item.Quantity > MaxQuantity {
			return NewValidationError("quantity", "out of range for "+item.ProductID, ErrQuantityOutOfRange)
		}
		if _, dup := seen[item.ProductID]; dup {
			return NewValidationError("items", "duplicate product "+item.ProductID, nil)
		}
		seen[item.ProductID] = struct{}{}
		sum = sum.Add(item.Subtotal())
	}
	if !sum.Equal(c.Total) {
		return NewValidationError("total", "does not match line items", nil)
	}
	return nil
}
