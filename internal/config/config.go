// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

// Package config holds all application configuration loaded from
// environment variables and an optional config file, layered
// defaults -> file -> env (highest priority), .
package config

import (
	"time"
)

// Config holds the full set of tunables the detection service needs:
// data-store location, the invocation contract's auth secrets, CORS
// origins, and the pipeline window/cap/batch/timeout/similarity
// tunables named .
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig describes the DuckDB-compatible store the engine
// reads and writes (internal/trend.Store's backing implementation).
type DatabaseConfig struct {
	// DSN is the path or connection string passed to
	// duckdb-go/v2's sql.Open.
	DSN string `koanf:"dsn" validate:"required"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port int    `koanf:"port" validate:"min=1,max=65535"`
	Host string `koanf:"host"`
	// ShutdownTimeout bounds how long graceful shutdown waits for an
	// in-flight detection run to finish draining.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
}

// SecurityConfig holds the invocation contract's auth and CORS/rate
// limit settings.
type SecurityConfig struct {
	// CronSecret is compared against the X-Cron-Secret request header.
	CronSecret string `koanf:"cron_secret"`
	// AdminBearerToken is compared against a "Bearer <token>"
	// Authorization header. At least one of CronSecret or
	// AdminBearerToken must be set, enforced in Validate.
	AdminBearerToken string `koanf:"admin_bearer_token"`
	// AllowedOrigins configures CORS; empty by default since the
	// invocation contract is machine-to-machine, not browser-facing.
	AllowedOrigins []string `koanf:"allowed_origins"`
	// RateLimitRequests and RateLimitWindow bound the detection
	// endpoint, e.g. 10 requests per minute.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"min=0"`
}

// PipelineConfig exposes the pipeline's tunables: window, per-source
// caps, embedding index size, batch size, timeout budget, similarity
// thresholds.
type PipelineConfig struct {
	Window              time.Duration `koanf:"window" validate:"min=0"`
	ArticleCap          int           `koanf:"article_cap" validate:"min=1"`
	AggregatorCap       int           `koanf:"aggregator_cap" validate:"min=1"`
	SocialCap           int           `koanf:"social_cap" validate:"min=1"`
	MaxPriorEvents      int           `koanf:"max_prior_events" validate:"min=0"`
	TimeoutBudget       time.Duration `koanf:"timeout_budget" validate:"min=0"`
	TextSimilarityFloor float64       `koanf:"text_similarity_floor" validate:"min=0,max=1"`
	EmbeddingSimFloor   float64       `koanf:"embedding_similarity_floor" validate:"min=0,max=1"`
}

// LoggingConfig mirrors internal/logging.Config's knobs so they can be
// sourced the same layered way as everything else.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns sensible defaults, overridden by config file
// then environment variables in Load.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN: "/data/trend.duckdb",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins:    []string{},
			RateLimitRequests: 10,
			RateLimitWindow:   time.Minute,
		},
		Pipeline: PipelineConfig{
			Window:              24 * time.Hour,
			ArticleCap:          1000,
			AggregatorCap:       800,
			SocialCap:           2000,
			MaxPriorEvents:      300,
			TimeoutBudget:       45 * time.Second,
			TextSimilarityFloor: 0.6,
			EmbeddingSimFloor:   0.82,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
