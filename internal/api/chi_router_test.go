// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trendline/detector/internal/auth"
	"github.com/trendline/detector/internal/trend"
)

func newTestRouter() http.Handler {
	handler := NewDetectionHandler(emptyStore{}, trend.DefaultEngineConfig())
	authMW := auth.NewMiddleware(auth.NewCronSecretAuthenticator("s3cr3t"))
	chiMW := NewChiMiddleware(DefaultChiMiddlewareConfig())
	return NewRouter(handler, authMW, chiMW).SetupChi()
}

func TestSetupChi_HealthzDoesNotRequireAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupChi_DetectRejectsWithoutCredentials(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetupChi_DetectSucceedsWithCronSecret(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect/", nil)
	req.Header.Set(auth.CronSecretHeader, "s3cr3t")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupChi_MetricsServesPrometheusFormat(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "trend_")
}
