// Package domain contains the core business entities of the storefront:
// principals, carts, products and categories, together with the error kinds
// every other layer classifies failures by. It has no knowledge of HTTP or
// storage.
package domain
