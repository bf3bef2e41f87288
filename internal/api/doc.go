// Package api holds the HTTP handlers of the storefront: carts, the product
// catalog, categories, the profit report and token administration.
//
// Handlers translate requests into service calls and map domain error kinds
// to status codes through HandleAPIError. Authentication and role checks run
// in the middleware subpackage before a handler sees the request.
package api
