package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
)

// setupAppLogger installs the JSON logger at the configured level and tags
// it with the service name.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	l = l.With("service", "storefront-api")
	slog.SetDefault(l)
	return l, nil
}
