// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendline/detector/internal/trend"
)

// emptyStore is a trend.Store fake returning no rows and no errors;
// it exercises the handler without depending on a real database.
type emptyStore struct{}

func (emptyStore) LoadArticles(ctx context.Context, since time.Time, cap int) ([]trend.ArticleRow, error) {
	return nil, nil
}
func (emptyStore) LoadAggregatorItems(ctx context.Context, since time.Time, cap int) ([]trend.AggregatorRow, error) {
	return nil, nil
}
func (emptyStore) LoadSocialPosts(ctx context.Context, since time.Time, cap int) ([]trend.SocialRow, error) {
	return nil, nil
}
func (emptyStore) LoadAliases(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}
func (emptyStore) LoadTierOverrides(ctx context.Context) ([]string, []string, error) {
	return nil, nil, nil
}
func (emptyStore) LoadBaselines(ctx context.Context, keys []string, asOf time.Time) (map[string][]trend.DailyRollup, error) {
	return map[string][]trend.DailyRollup{}, nil
}
func (emptyStore) LoadPriorEmbeddings(ctx context.Context, maxEvents int) ([]trend.PriorEmbedding, error) {
	return nil, nil
}
func (emptyStore) UpsertTrendEvents(ctx context.Context, events []trend.TrendEvent) (int, error) {
	return len(events), nil
}
func (emptyStore) ReplaceEvidence(ctx context.Context, eventKey string, evidence []trend.Evidence) error {
	return nil
}
func (emptyStore) UpsertClusters(ctx context.Context, clusters []*trend.PhraseCluster) (int, error) {
	return len(clusters), nil
}
func (emptyStore) UpsertBaselineRollup(ctx context.Context, rollups []trend.DailyRollup) error {
	return nil
}

func TestDetectionHandler_Detect_EmptyBodySucceeds(t *testing.T) {
	h := NewDetectionHandler(emptyStore{}, trend.DefaultEngineConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect", nil)
	rec := httptest.NewRecorder()
	h.Detect(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TopicsProcessed)
	assert.Equal(t, 0, resp.EventsUpserted)
	assert.NotNil(t, resp.PerfLimits)
}

func TestDetectionHandler_Detect_AppliesOverrides(t *testing.T) {
	h := NewDetectionHandler(emptyStore{}, trend.DefaultEngineConfig())

	body := []byte(`{"window_hours": 6, "article_cap": 50}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Detect(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 50, resp.PerfLimits["article_cap"])
}

func TestDetectionHandler_Detect_RejectsMalformedJSON(t *testing.T) {
	h := NewDetectionHandler(emptyStore{}, trend.DefaultEngineConfig())

	body := []byte(`{not json`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Detect(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var errResp DetectErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "decode_request", errResp.Phase)
}

func TestDetectionHandler_Detect_RejectsOutOfRangeWindow(t *testing.T) {
	h := NewDetectionHandler(emptyStore{}, trend.DefaultEngineConfig())

	body := []byte(`{"window_hours": 9000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/detect", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Detect(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestApplyOverrides_LeavesBaselineConfigUntouched(t *testing.T) {
	h := NewDetectionHandler(emptyStore{}, trend.DefaultEngineConfig())
	base := h.baseCfg

	_ = h.applyOverrides(DetectRequest{ArticleCap: intPtr(999)})

	assert.Equal(t, base.Loader.ArticleCap, h.baseCfg.Loader.ArticleCap)
}

func intPtr(v int) *int { return &v }
