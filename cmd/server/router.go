package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/storefront-api/internal/api"
	apiMiddleware "github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if app.config.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.CORS(app.config.Server.AllowedOrigin))
	r.Use(apiMiddleware.APIHeaders)
	if app.limiter != nil {
		r.Use(apiMiddleware.RateLimit(app.limiter, apiMiddleware.RateLimitConfig{
			Limit:      app.config.RateLimit.Requests,
			Window:     app.config.RateLimit.Window(),
			FailClosed: app.config.RateLimit.FailClosed,
		}))
	}

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.verifier)

	cartHandler := api.NewCartHandler(app.cartService)
	productHandler := api.NewProductHandler(app.productService)
	categoryHandler := api.NewCategoryHandler(app.categoryService)
	secretHandler := api.NewSecretHandler(app.profitReports)
	adminHandler := api.NewAdminHandler(app.revocations, app.eventEmitter, app.config.Auth.TokenLifetime())

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Get("/categories", categoryHandler.ListCategories)
		r.Get("/categories/{name}", categoryHandler.GetCategory)

		// Anonymous callers allowed; admins see more
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticate)
			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/{productId}", productHandler.GetProduct)
			r.Get("/product_secret_endpoint", secretHandler.GetProfitReport)
		})

		// Any authenticated principal
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(apiMiddleware.RequireRole(domain.RequireAuthenticated))
			r.Get("/cart", cartHandler.GetCart)
			r.Post("/cart", cartHandler.AddItem)
			r.Put("/cart", cartHandler.UpdateItem)
			r.Delete("/cart", cartHandler.RemoveItem)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(apiMiddleware.RequireRole(domain.RequireAdmin))
			r.Post("/products", productHandler.CreateProduct)
			r.Put("/products/{productId}", productHandler.UpdateProduct)
			r.Delete("/products/{productId}", productHandler.DeleteProduct)
			r.Post("/admin/tokens/revoke", adminHandler.RevokeToken)
		})
	})

	r.Get("/health", api.HealthHandler(nil))

	r.NotFound(api.NotFoundHandler)
	r.MethodNotAllowed(api.NotFoundHandler)

	return r
}
