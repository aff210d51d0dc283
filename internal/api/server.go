// Copyright (c) 2026 Spotline. All rights reserved.
// Author: quang.dng.vn@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/quangdng/spotline/internal/affiliate"
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
	"github.com/quangdng/spotline/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Creator serves the public-figure catalogue.
	Creator *creator.Handler

	// Episode serves the episode catalogue.
	Episode *episode.Handler

	// Place serves locations and the monetization projection.
	Place *place.Handler

	// Product serves featured items.
	Product *product.Handler

	// Link manages episode-to-place and episode-to-product associations.
	Link *link.Handler

	// Affiliate drives the linkswitch lifecycle transitions.
	Affiliate *affiliate.Handler

	// Correction applies audited field-level fixes.
	Correction *correction.Handler

	// Integrity runs the batch validator and serves its reports.
	Integrity *integrity.Handler

	// Ingest accepts provider batches.
	Ingest *ingest.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	// Cross-domain projections register on the owning subrouter before it
	// is mounted, so no route tree ends up with conflicting patterns.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/creators", h.Creator.Routes())

		episodes := h.Episode.Routes()
		episodes.Get("/{id}/places", h.Place.ListByEpisode)
		episodes.Get("/{id}/products", h.Product.ListByEpisode)
		episodes.Get("/{id}/links", h.Link.ListByEpisode)
		api.Mount("/episodes", episodes)

		places := h.Place.Routes()
		places.Get("/monetized", h.Place.ListActiveByCreator)
		places.Mount("/{id}/affiliate", h.Affiliate.Routes())
		api.Mount("/places", places)

		api.Mount("/products", h.Product.Routes())
		api.Mount("/links", h.Link.Routes())

		api.Mount("/corrections", h.Correction.Routes())
		api.Mount("/integrity", h.Integrity.Routes())
		api.Mount("/ingest", h.Ingest.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
