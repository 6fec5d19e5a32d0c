// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package api

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/pitwall/internal/config"
	"github.com/tomtom215/pitwall/internal/middleware"
	"github.com/tomtom215/pitwall/web"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
// This allows our middleware package to work with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router sets up HTTP routes using Chi.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	staticFS      fs.FS
}

// NewRouter creates a new router with all routes configured.
func NewRouter(handler *Handler, sec *config.SecurityConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddlewareFromConfig(sec),
		staticFS:      web.Static(),
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(chiMiddleware(middleware.RequestID)) // X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)                // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)             // Recover from panics
	r.Use(router.chiMiddleware.CORS())         // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health Endpoint
	// ========================
	// Permissive rate limiting (1000/min) allows frequent monitoring checks
	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Race Data Endpoints
	// ========================
	// Gzip matters here: a full race payload carries over a thousand lap
	// records and compresses roughly 10x.
	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/races/{year}", router.handler.Races)
		r.Get("/race/{year}/{round}", router.handler.RaceData)
		r.Get("/drivers/{year}/{round}", router.handler.Drivers)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Dashboard
	// ========================
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(chiMiddleware(middleware.Compression))
		r.Get("/", router.serveDashboard)
		r.Get("/*", router.serveDashboard)
	})

	// ========================
	// Service Status
	// ========================
	r.Get("/", router.handler.Home)

	return r
}

// serveDashboard serves the embedded frontend. Unknown paths fall back to
// index.html so the dashboard survives reloads on any path under /dashboard/.
func (router *Router) serveDashboard(w http.ResponseWriter, r *http.Request) {
	// Relative asset URLs in index.html need the trailing slash
	if r.URL.Path == "/dashboard" {
		http.Redirect(w, r, "/dashboard/", http.StatusMovedPermanently)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/dashboard/")
	if name == "" {
		name = "index.html"
	}

	if _, err := fs.Stat(router.staticFS, name); err != nil {
		name = "index.html"
	}

	http.ServeFileFS(w, r, router.staticFS, name)
}
