// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trendline/detector/internal/auth"
	"github.com/trendline/detector/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler, so the project's existing
// http.HandlerFunc-style middleware works with Chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router sets up HTTP routes using Chi router (ADR-0016).
type Router struct {
	handler       *DetectionHandler
	authMW        *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter wires a Router over the given detection handler,
// authentication middleware, and Chi middleware factory.
func NewRouter(handler *DetectionHandler, authMW *auth.Middleware, chiMW *ChiMiddleware) *Router {
	return &Router{
		handler:       handler,
		authMW:        authMW,
		chiMiddleware: chiMW,
	}
}

// SetupChi configures every route the service exposes: liveness,
// Prometheus scraping, and the single detection invocation endpoint.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(E2EDebugLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.Route("/healthz", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/", healthHandler)
	})

	r.Route("/metrics", func(r chi.Router) {
		r.Handle("/", promhttp.Handler())
	})

	r.Route("/api/v1/detect", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(router.authMW.Authenticate))
		r.Use(chiMiddleware(middleware.Compression))
		r.Post("/", router.handler.Detect)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
