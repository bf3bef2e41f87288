// Package main implements the entry point for the storefront API server,
// which serves the product catalog, carts and the admin endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// main is the entry point for the storefront-api server.
func main() {
	migrate := flag.String("migrate", "", "run a migration command (up, down, reset, status, version) and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrate); err != nil {
		log.Printf("storefront-api: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and either runs a migration
// command or serves HTTP until ctx is done.
func run(ctx context.Context, migrateCommand string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if migrateCommand != "" {
		return runMigrations(ctx, cfg, logger, migrateCommand)
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
