// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

/*
Package config provides centralized configuration management for the
trend detection service.

# Configuration Sources

Load() layers configuration from, in increasing priority:

  - Built-in defaults (defaultConfig)
  - An optional YAML config file (path from CONFIG_PATH, or the first
    of DefaultConfigPaths found on disk)
  - Environment variables

# Configuration Structure

  - DatabaseConfig: DuckDB-compatible store DSN
  - ServerConfig: HTTP listener host/port and graceful shutdown timeout
  - SecurityConfig: cron secret / admin bearer token, CORS origins,
    and detection-endpoint rate limit
  - PipelineConfig: the detector's window, per-source caps, prior-event
    index size, timeout budget, and similarity thresholds
  - LoggingConfig: level/format/caller, mirroring internal/logging.Config

# Environment Variables

	CRON_SECRET           shared secret compared to X-Cron-Secret
	ADMIN_BEARER_TOKEN    bearer token compared to Authorization
	ALLOWED_ORIGINS       comma-separated CORS origins
	RATE_LIMIT_REQUESTS   requests allowed per RATE_LIMIT_WINDOW
	RATE_LIMIT_WINDOW     rate limit window (Go duration syntax)
	DATABASE_DSN          DuckDB store path/DSN
	HTTP_HOST, HTTP_PORT  listener bind address
	SHUTDOWN_TIMEOUT      graceful shutdown deadline
	TREND_WINDOW          mention lookback window
	ARTICLE_CAP, AGGREGATOR_CAP, SOCIAL_CAP  per-source mention caps
	MAX_PRIOR_EVENTS      prior-event embedding index size
	TIMEOUT_BUDGET        per-run wall-clock budget
	TEXT_SIMILARITY_FLOOR, EMBEDDING_SIMILARITY_FLOOR  similarity floors; validated
	                      but not passed to the engine, whose clusterer uses
	                      fixed thresholds
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER  logging knobs

At least one of CRON_SECRET or ADMIN_BEARER_TOKEN must be set; Load
fails validation otherwise.
*/
package config
