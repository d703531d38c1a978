// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

/*
Package middleware provides the ambient HTTP middleware layered onto
the detection endpoint, independent of the Chi-native middleware
already wired in internal/api (CORS, rate limiting, recovery).

Key Components:

  - RequestID: stamps every call with a request ID and a fresh
    correlation ID so a run's log lines can be tied back to the HTTP
    call that triggered it
  - Compression: gzip for the detection endpoint's JSON response
  - PrometheusMetrics: records path/status/latency for every request

Middleware Stack:

internal/api/chi_router.go wires these on top of Chi's own middleware:

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Route("/api/v1/detect", func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.Use(router.chiMiddleware.RateLimit())
	    r.Use(chiMiddleware(router.authMW.Authenticate))
	    r.Use(chiMiddleware(middleware.Compression))
	    r.Post("/", router.handler.Detect)
	})

Each component here is an http.HandlerFunc middleware rather than
Chi's func(http.Handler) http.Handler; chiMiddleware in
internal/api/chi_router.go adapts between the two.

Compression Details:

The compression middleware:
  - Only activates when the client sends Accept-Encoding: gzip
  - Skips WebSocket upgrade requests
  - Pools gzip.Writer values to avoid a per-request allocation

Thread Safety:

All three middleware functions are safe for concurrent use: Compression
allocates a fresh response wrapper per request (the pooled gzip.Writer
is returned before the handler returns), RequestID touches only the
per-request context, and PrometheusMetrics delegates to internal/metrics'
already-concurrent-safe counters and histograms.

See Also:

  - internal/auth: authentication middleware, wired separately
  - internal/api: the Chi router and detection HTTP handler
  - internal/metrics: Prometheus metric definitions
*/
package middleware
