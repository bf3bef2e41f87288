package domain

import "strings"

// Category groups products in the catalog.
type Category struct {
	Name        string
	Description string
}

var categories = []Category{
	{Name: "Electronics", Description: "Devices and gadgets"},
	{Name: "Clothing", Description: "Wearable items"},
	{Name: "Books", Description: "Study and reading books"},
	{Name: "Home", Description: "Home usage items"},
	{Name: "Sports", Description: "Sports materials"},
	{Name: "Beauty", Description: "Beauty and care products"},
}

// Categories returns the fixed category list in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// FindCategory looks a category up by name, ignoring case.
func FindCategory(name string) (Category, bool) {
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}
