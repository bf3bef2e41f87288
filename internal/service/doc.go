// Package service contains the application use cases of the storefront.
//
// CartService serializes mutations per subject and keeps cart totals
// consistent. ProductService applies visibility rules and caches listings.
// CategoryService and ProfitReportService serve read-only data.
//
// Services depend on the store interfaces in internal/store, never on a
// concrete backend. Domain errors pass through unchanged; infrastructure
// failures are wrapped in *ServiceError with the failing operation.
package service
