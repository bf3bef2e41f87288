package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Store     StoreConfig     `mapstructure:"store" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Catalog   CatalogConfig   `mapstructure:"catalog" validate:"required"`
	Secret    SecretConfig    `mapstructure:"secret"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AllowedOrigin          string `mapstructure:"allowed_origin" validate:"required"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0,lte=1440"`
	ClockSkewSeconds     int    `mapstructure:"clock_skew_seconds" validate:"gte=0,lte=300"`
	RevocationBackend    string `mapstructure:"revocation_backend" validate:"required,oneof=memory redis postgres"`
}

// TokenLifetime returns the lifetime of minted tokens.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// ClockSkew returns the leeway applied to time-based claims.
func (c AuthConfig) ClockSkew() time.Duration {
	return time.Duration(c.ClockSkewSeconds) * time.Second
}

// StoreConfig selects the cart store backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory postgres"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is only required when a postgres backend is selected for carts or
// token revocation.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"omitempty,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// RedisConfig is shared by the redis rate limiter and revocation list.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// RateLimitConfig controls per-client request limiting.
type RateLimitConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Requests      int    `mapstructure:"requests" validate:"gt=0"`
	WindowSeconds int    `mapstructure:"window_seconds" validate:"gt=0"`
	Backend       string `mapstructure:"backend" validate:"required,oneof=memory redis"`
	FailClosed    bool   `mapstructure:"fail_closed"`
	MaxKeys       int    `mapstructure:"max_keys" validate:"gt=0"`
}

// Window returns the limiting window.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// CatalogConfig controls the generated product catalog and its query cache.
type CatalogConfig struct {
	ProductCount    int   `mapstructure:"product_count" validate:"gte=5,lte=100000"`
	Seed            int64 `mapstructure:"seed"`
	CacheSize       int   `mapstructure:"cache_size" validate:"gte=0"`
	CacheTTLSeconds int   `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// CacheTTL returns how long listing results stay cached.
func (c CatalogConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SecretConfig configures alternate access to the profit report.
// An empty APIKeyHash disables API key access.
type SecretConfig struct {
	APIKeyHash string `mapstructure:"api_key_hash"`
}
