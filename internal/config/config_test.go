// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, "/data/trend.duckdb", cfg.Database.DSN)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Pipeline.Window)
	assert.Equal(t, 1000, cfg.Pipeline.ArticleCap)
	assert.Equal(t, 800, cfg.Pipeline.AggregatorCap)
	assert.Equal(t, 2000, cfg.Pipeline.SocialCap)
	assert.Equal(t, 300, cfg.Pipeline.MaxPriorEvents)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.TimeoutBudget)
	assert.Equal(t, 10, cfg.Security.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.Security.RateLimitWindow)
	assert.Empty(t, cfg.Security.AllowedOrigins)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateRequiresOneAuthPath(t *testing.T) {
	cfg := defaultConfig()
	err := cfg.Validate()
	require.Error(t, err, "no cron secret or bearer token set")

	cfg.Security.CronSecret = "s3cr3t"
	require.NoError(t, cfg.Validate())

	cfg.Security.CronSecret = ""
	cfg.Security.AdminBearerToken = "t0k3n"
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.CronSecret = "s3cr3t"
	cfg.Server.Port = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.CronSecret = "s3cr3t"
	cfg.Logging.Level = "not-a-level"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsCapsBelowOne(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.CronSecret = "s3cr3t"
	cfg.Pipeline.ArticleCap = 0
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsSimilarityFloorOutOfRange(t *testing.T) {
	cfg := defaultConfig()
	cfg.Security.CronSecret = "s3cr3t"
	cfg.Pipeline.TextSimilarityFloor = 1.5
	require.Error(t, cfg.Validate())
}
