package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/memory"
	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/phrazzld/storefront-api/internal/platform/ratelimit"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// revocationPurgeInterval is how often expired rows leave revoked_tokens.
const revocationPurgeInterval = 10 * time.Minute

// redisKeyPrefix namespaces every key this service writes to Redis.
const redisKeyPrefix = "storefront:"

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Optional backends, nil unless selected in config
	db    *sql.DB
	redis *redis.Client

	// Stores
	cartStore    store.CartStore
	productStore *memory.ProductStore

	// Auth
	jwtService  auth.JWTService
	revocations auth.RevocationList
	verifier    *auth.Verifier

	// revocationStore is set when revocations live in postgres and need purging.
	revocationStore *postgres.RevocationStore

	// Services
	cartService     service.CartService
	productService  service.ProductService
	categoryService *service.CategoryService
	profitReports   *service.ProfitReportService

	limiter      ratelimit.Limiter
	eventEmitter *events.InMemoryEventEmitter

	// stopBackground ends background loops started by newApplication.
	stopBackground context.CancelFunc
}

// newApplication creates a new application instance with all dependencies
// initialized. External connections are only opened for the backends the
// configuration selects.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	if cfg.UsesPostgres() {
		if app.db, err = setupAppDatabase(ctx, cfg, logger); err != nil {
			return nil, err
		}
	}
	if cfg.Auth.RevocationBackend == "redis" || (cfg.RateLimit.Enabled && cfg.RateLimit.Backend == "redis") {
		if app.redis, err = setupAppRedis(ctx, cfg, logger); err != nil {
			app.cleanup()
			return nil, err
		}
	}

	if err := app.initComponents(); err != nil {
		app.cleanup()
		return nil, err
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	app.stopBackground = cancel
	if app.revocationStore != nil {
		go app.purgeRevocations(bgCtx, app.revocationStore, revocationPurgeInterval)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// initComponents builds stores, services and auth from the already opened
// backends.
func (app *application) initComponents() error {
	cfg := app.config
	logger := app.logger

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	var revocations auth.RevocationList
	switch cfg.Auth.RevocationBackend {
	case "redis":
		revocations = auth.NewRedisRevocationList(app.redis, redisKeyPrefix+"revoked:", nil)
	case "postgres":
		app.revocationStore = postgres.NewRevocationStore(app.db, logger)
		revocations = app.revocationStore
	default:
		revocations = auth.NewMemoryRevocationList(nil)
	}
	// Validation accepts tokens for ClockSkew past exp, so revocations must
	// outlive exp by the same amount.
	app.revocations = auth.WithGrace(revocations, cfg.Auth.ClockSkew())
	app.verifier = auth.NewVerifier(app.jwtService, app.revocations, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.Subscribe(events.NewAuditLogHandler(logger))

	app.productStore = memory.NewProductStore(cfg.Catalog.ProductCount, cfg.Catalog.Seed, logger)
	switch cfg.Store.Backend {
	case "postgres":
		app.cartStore = postgres.NewCartStore(app.db, logger)
	default:
		app.cartStore = memory.NewCartStore(logger)
	}

	app.cartService, err = service.NewCartService(app.cartStore, app.productStore, app.eventEmitter, logger)
	if err != nil {
		return fmt.Errorf("failed to create cart service: %w", err)
	}

	app.productService, err = service.NewProductService(app.productStore, app.eventEmitter, service.ProductCacheConfig{
		Size: cfg.Catalog.CacheSize,
		TTL:  cfg.Catalog.CacheTTL(),
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create product service: %w", err)
	}

	app.categoryService = service.NewCategoryService()
	app.profitReports = service.NewProfitReportService(cfg.Secret.APIKeyHash, auth.NewBcryptVerifier(), logger)

	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case "redis":
			app.limiter, err = ratelimit.NewRedisLimiter(app.redis, redisKeyPrefix+"ratelimit:", nil)
		default:
			app.limiter, err = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{MaxKeys: cfg.RateLimit.MaxKeys})
		}
		if err != nil {
			return fmt.Errorf("failed to create rate limiter: %w", err)
		}
	}
	return nil
}

// purgeRevocations deletes expired revocation rows every interval until ctx
// is done.
func (app *application) purgeRevocations(ctx context.Context, purger *postgres.RevocationStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purger.PurgeExpired(ctx)
			if err != nil {
				app.logger.Warn("failed to purge expired revocations", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Debug("purged expired revocations", "count", n)
			}
		}
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.stopBackground != nil {
		app.stopBackground()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
