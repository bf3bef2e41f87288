package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/config"
)

// loadAppConfig reads config.yaml (if present) and STOREFRONT_* variables.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"trust_proxy", cfg.Server.TrustProxy,
		"store_backend", cfg.Store.Backend,
		"revocation_backend", cfg.Auth.RevocationBackend,
		"rate_limit_enabled", cfg.RateLimit.Enabled,
		"rate_limit_backend", cfg.RateLimit.Backend,
		"catalog_size", cfg.Catalog.ProductCount,
		"api_key_access", cfg.Secret.APIKeyHash != "")
	return cfg, nil
}
