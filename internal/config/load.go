package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "STOREFRONT"

// legacyEnv maps unprefixed variables still honoured for compatibility.
var legacyEnv = map[string]string{
	"auth.jwt_secret": "JWT_SECRET",
	"server.port":     "PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3002)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.trust_proxy", false)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.clock_skew_seconds", 30)
	v.SetDefault("auth.revocation_backend", "memory")

	v.SetDefault("store.backend", "memory")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window_seconds", 60)
	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.fail_closed", false)
	v.SetDefault("rate_limit.max_keys", 10000)

	v.SetDefault("catalog.product_count", 1000)
	v.SetDefault("catalog.seed", 42)
	v.SetDefault("catalog.cache_size", 256)
	v.SetDefault("catalog.cache_ttl_seconds", 30)

	v.SetDefault("secret.api_key_hash", "")
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Prefixed variables win over the legacy names.
	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), legacy); err != nil {
			return nil, fmt.Errorf("error binding env var %s: %w", legacy, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.UsesPostgres() && c.Database.URL == "" {
		return errors.New("config validation failed: database.url is required when a postgres backend is selected")
	}
	needsRedis := c.Auth.RevocationBackend == "redis" || (c.RateLimit.Enabled && c.RateLimit.Backend == "redis")
	if needsRedis && c.Redis.Addr == "" {
		return errors.New("config validation failed: redis.addr is required when a redis backend is selected")
	}
	return nil
}

// UsesPostgres reports whether any component is backed by PostgreSQL.
func (c *Config) UsesPostgres() bool {
	return c.Store.Backend == "postgres" || c.Auth.RevocationBackend == "postgres"
}
