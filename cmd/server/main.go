// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/trendline/detector/internal/api"
	"github.com/trendline/detector/internal/auth"
	"github.com/trendline/detector/internal/config"
	"github.com/trendline/detector/internal/logging"
	"github.com/trendline/detector/internal/trend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	db, err := sql.Open("duckdb", cfg.Database.DSN)
	if err != nil {
		logging.Fatal().Err(err).Str("dsn", cfg.Database.DSN).Msg("failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("failed to close database")
		}
	}()

	initCtx, initCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := trend.InitSchema(initCtx, db); err != nil {
		initCancel()
		logging.Fatal().Err(err).Msg("failed to initialize schema")
	}
	initCancel()

	store := trend.NewDuckDBStore(db)
	engineCfg := engineConfigFromPipeline(cfg.Pipeline)
	handler := api.NewDetectionHandler(store, engineCfg)

	authenticators := []auth.Authenticator{}
	if cfg.Security.CronSecret != "" {
		authenticators = append(authenticators, auth.NewCronSecretAuthenticator(cfg.Security.CronSecret))
	}
	if cfg.Security.AdminBearerToken != "" {
		authenticators = append(authenticators, auth.NewBearerTokenAuthenticator(cfg.Security.AdminBearerToken))
	}
	authMW := auth.NewMiddleware(auth.NewMultiAuthenticator(authenticators...))

	chiMWCfg := api.DefaultChiMiddlewareConfig()
	chiMWCfg.CORSAllowedOrigins = cfg.Security.AllowedOrigins
	chiMWCfg.RateLimitRequests = cfg.Security.RateLimitRequests
	chiMWCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	chiMW := api.NewChiMiddleware(chiMWCfg)

	router := api.NewRouter(handler, authMW, chiMW)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Pipeline.TimeoutBudget + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("starting detection server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		logging.Error().Err(err).Msg("server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}

	logging.Info().Msg("detection server stopped gracefully")
}

func engineConfigFromPipeline(p config.PipelineConfig) trend.EngineConfig {
	cfg := trend.DefaultEngineConfig()
	cfg.Loader.Window = p.Window
	cfg.Loader.ArticleCap = p.ArticleCap
	cfg.Loader.AggregatorCap = p.AggregatorCap
	cfg.Loader.SocialCap = p.SocialCap
	cfg.MaxPriorEvents = p.MaxPriorEvents
	cfg.TimeoutBudget = p.TimeoutBudget
	return cfg
}
