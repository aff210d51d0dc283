// Copyright (c) 2026 Spotline. All rights reserved.
// Author: quang.dng.vn@gmail.com

// Command api is the entry point for the Spotline HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/quangdng/spotline/internal/affiliate"
	"github.com/quangdng/spotline/internal/api"
	"github.com/quangdng/spotline/internal/core/creator"
	"github.com/quangdng/spotline/internal/core/episode"
	"github.com/quangdng/spotline/internal/core/link"
	"github.com/quangdng/spotline/internal/core/place"
	"github.com/quangdng/spotline/internal/core/product"
	"github.com/quangdng/spotline/internal/correction"
	"github.com/quangdng/spotline/internal/ingest"
	"github.com/quangdng/spotline/internal/integrity"
	"github.com/quangdng/spotline/internal/platform/config"
	"github.com/quangdng/spotline/internal/platform/constants"
	"github.com/quangdng/spotline/internal/platform/migration"
	pgstore "github.com/quangdng/spotline/internal/platform/postgres"
	redisstore "github.com/quangdng/spotline/internal/platform/redis"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "spotline"))
	slog.SetDefault(log)

	log.Info("[Spotline] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "spotline"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	creatorRepository := creator.NewPostgresRepository(pool)
	episodeRepository := episode.NewPostgresRepository(pool)
	placeRepository := place.NewPostgresRepository(pool)
	productRepository := product.NewPostgresRepository(pool)
	linkRepository := link.NewPostgresRepository(pool)

	creatorService := creator.NewService(creatorRepository, log)
	episodeService := episode.NewService(episodeRepository, log)
	placeService := place.NewService(placeRepository, log)
	productService := product.NewService(productRepository, log)
	linkService := link.NewService(linkRepository,
		episodeRepository, placeRepository, productRepository, log)

	// One pacing budget shared by ingest and affiliate reverification, so
	// the two provider-facing paths cannot exceed the rate limit together.
	providerLimiter := rate.NewLimiter(rate.Limit(cfg.IngestRPS), 1)
	fetcher := affiliate.NewPacedFetcher(providerLimiter)

	affiliateService := affiliate.NewService(placeRepository, fetcher, cfg.AffiliateDomain, log)

	integrityStore := integrity.NewPostgresStore(pool)
	validator := integrity.NewValidator(integrityStore, linkService, fetcher, cfg.AffiliateDomain, log)
	reportCache := integrity.NewReportCache(rdb, cfg.IntegrityReportTTL)

	auditStore := correction.NewPostgresStore(pool)
	correctionService := correction.NewService(auditStore, placeService, productService, validator, log)

	pipeline := ingest.NewPipeline(
		creatorService, episodeService, placeService, productService,
		linkService, affiliateService, providerLimiter, cfg.IngestConcurrency, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Creator:    creator.NewHandler(creatorService),
		Episode:    episode.NewHandler(episodeService),
		Place:      place.NewHandler(placeService),
		Product:    product.NewHandler(productService),
		Link:       link.NewHandler(linkService),
		Affiliate:  affiliate.NewHandler(affiliateService),
		Correction: correction.NewHandler(correctionService),
		Integrity:  integrity.NewHandler(validator, reportCache),
		Ingest:     ingest.NewHandler(pipeline),
	}

	server := api.NewServer(startupCtx, cfg, log, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
