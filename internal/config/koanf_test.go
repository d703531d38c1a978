// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadEnvOverridesDefaults(t *testing.T) {
	os.Clearenv()
	t.Setenv("CRON_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ARTICLE_CAP", "500")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "s3cr3t", cfg.Security.CronSecret)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 500, cfg.Pipeline.ArticleCap)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)

	// Unset fields keep their defaults.
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 800, cfg.Pipeline.AggregatorCap)
}

func TestLoadFailsValidationWithoutAuthSecret(t *testing.T) {
	os.Clearenv()
	_, err := Load()
	require.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	os.Clearenv()
	dir := t.TempDir()
	path := dir + "/config.yaml"
	contents := "security:\n  cron_secret: from-file\npipeline:\n  article_cap: 250\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.Security.CronSecret)
	require.Equal(t, 250, cfg.Pipeline.ArticleCap)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	os.Clearenv()
	dir := t.TempDir()
	path := dir + "/config.yaml"
	contents := "security:\n  cron_secret: from-file\npipeline:\n  article_cap: 250\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("ARTICLE_CAP", "999")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.Security.CronSecret)
	require.Equal(t, 999, cfg.Pipeline.ArticleCap)
}

func TestEnvTransformFuncSkipsUnknownKeys(t *testing.T) {
	require.Equal(t, "", envTransformFunc("SOME_RANDOM_HOST_VAR"))
	require.Equal(t, "pipeline.timeout_budget", envTransformFunc("TIMEOUT_BUDGET"))
}

func TestDefaultConfigPipelineDurations(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, 45*time.Second, cfg.Pipeline.TimeoutBudget)
}
