// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the searched config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths lists the paths searched for a config file, in
// order of priority; the first one found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/trend-detector/config.yaml",
	"/etc/trend-detector/config.yml",
}

// Load builds a Config by layering built-in defaults, an optional YAML
// file, and environment variables (highest priority), then validates
// the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processOriginsField(k); err != nil {
		return nil, fmt.Errorf("failed to process ALLOWED_ORIGINS: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// processOriginsField turns a comma-separated ALLOWED_ORIGINS env
// value into a slice; a YAML-sourced list is left untouched.
func processOriginsField(k *koanf.Koanf) error {
	val := k.Get("security.allowed_origins")
	if val == nil {
		return nil
	}
	if _, ok := val.([]interface{}); ok {
		return nil
	}
	if _, ok := val.([]string); ok {
		return nil
	}
	strVal, ok := val.(string)
	if !ok || strVal == "" {
		return nil
	}
	parts := strings.Split(strVal, ",")
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return k.Set("security.allowed_origins", trimmed)
}

// envTransformFunc maps the service's environment variable names to
// koanf dotted paths. Unmapped variables are skipped so unrelated
// process environment does not leak into the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	mappings := map[string]string{
		"database_dsn": "database.dsn",

		"http_port":        "server.port",
		"http_host":        "server.host",
		"shutdown_timeout": "server.shutdown_timeout",

		"cron_secret":         "security.cron_secret",
		"admin_bearer_token":  "security.admin_bearer_token",
		"allowed_origins":     "security.allowed_origins",
		"rate_limit_requests": "security.rate_limit_requests",
		"rate_limit_window":   "security.rate_limit_window",

		"trend_window":               "pipeline.window",
		"article_cap":                "pipeline.article_cap",
		"aggregator_cap":             "pipeline.aggregator_cap",
		"social_cap":                 "pipeline.social_cap",
		"max_prior_events":           "pipeline.max_prior_events",
		"timeout_budget":             "pipeline.timeout_budget",
		"text_similarity_floor":      "pipeline.text_similarity_floor",
		"embedding_similarity_floor": "pipeline.embedding_similarity_floor",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := mappings[key]; ok {
		return mapped
	}
	return ""
}
