// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

// Package main is the entry point for the Pitwall server.
//
// Pitwall is a self-hosted Formula 1 telemetry dashboard: it fetches season
// schedules, race results, and per-lap timing from the Jolpica/Ergast API
// and re-serves them as JSON to an embedded browser dashboard that renders
// position-over-lap and lap-time-over-lap charts.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config files (Koanf v2)
//  2. BadgerDB: the disk tier of the two-tier session cache
//  3. Ergast client: rate-limited upstream client behind a circuit breaker
//  4. Session loader: memory tier + disk tier + upstream loading
//  5. HTTP server: Chi router with the API, metrics, and dashboard
//  6. Supervisor tree: suture-managed lifecycle with graceful shutdown
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (config.yaml),
// built-in defaults. Commonly tuned settings:
//
//	HTTP_PORT       listen port (default 5000)
//	ERGAST_URL      upstream base URL (default https://api.jolpi.ca/ergast/f1)
//	CACHE_DIR       BadgerDB directory (default /data/pitwall)
//	LOG_LEVEL       zerolog level (default info)
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, drains in-flight requests (10s timeout), and
// closes the cache database.
//
// # Example Usage
//
//	export CACHE_DIR=./data
//	./pitwall
//
// Docker:
//
//	docker run -d -v pitwall-data:/data/pitwall -p 5000:5000 \
//	  ghcr.io/tomtom215/pitwall
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/pitwall/internal/api"
	"github.com/tomtom215/pitwall/internal/cache"
	"github.com/tomtom215/pitwall/internal/config"
	"github.com/tomtom215/pitwall/internal/ergast"
	"github.com/tomtom215/pitwall/internal/logging"
	"github.com/tomtom215/pitwall/internal/metrics"
	"github.com/tomtom215/pitwall/internal/session"
	"github.com/tomtom215/pitwall/internal/supervisor"
	"github.com/tomtom215/pitwall/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("ergast_url", cfg.Ergast.BaseURL).
		Str("cache_dir", cfg.Cache.Dir).
		Str("addr", cfg.Server.Addr()).
		Msg("Configuration loaded")

	metrics.AppInfo.WithLabelValues(api.Version, runtime.Version()).Set(1)

	// Disk tier of the session cache. Badger's own logger is noisy at
	// startup and bypasses zerolog, so it stays off.
	opts := badger.DefaultOptions(cfg.Cache.Dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Cache.Dir).Msg("Failed to open cache database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache database")
		}
	}()
	logging.Info().Str("dir", cfg.Cache.Dir).Msg("Cache database opened")

	// Upstream client with politeness rate limiting and a circuit breaker.
	// The breaker prevents hammering the provider while it is down; cached
	// sessions keep the dashboard alive in the meantime.
	client := ergast.NewCircuitBreakerClient(&cfg.Ergast)
	if err := client.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Upstream provider unreachable at startup (will retry on demand)")
	} else {
		logging.Info().Msg("Connected to upstream provider")
	}

	mem := cache.New(cfg.Cache.MemoryTTL)
	defer mem.Close()
	store := session.NewStore(db)
	loader := session.NewLoader(client, mem, store, cfg.Cache.LiveTTL)

	handler := api.NewHandler(loader, mem, store)
	router := api.NewRouter(handler, &cfg.Security)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStorageService(services.NewBadgerGCService(db, 0))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
