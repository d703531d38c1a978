// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/trendline/detector/internal/logging"
	"github.com/trendline/detector/internal/metrics"
	"github.com/trendline/detector/internal/trend"
)

var requestValidate = validator.New(validator.WithRequiredStructEnabled())

// DetectRequest carries the optional per-run tunables a caller may
// override; an empty body is valid and uses the baseline EngineConfig
// untouched.
type DetectRequest struct {
	WindowHours          *int     `json:"window_hours,omitempty" validate:"omitempty,min=1,max=168"`
	ArticleCap           *int     `json:"article_cap,omitempty" validate:"omitempty,min=1"`
	AggregatorCap        *int     `json:"aggregator_cap,omitempty" validate:"omitempty,min=1"`
	SocialCap            *int     `json:"social_cap,omitempty" validate:"omitempty,min=1"`
	MaxPriorEvents       *int     `json:"max_prior_events,omitempty" validate:"omitempty,min=0"`
	TimeoutBudgetSeconds *int     `json:"timeout_budget_seconds,omitempty" validate:"omitempty,min=1,max=300"`
}

// DetectResponse is the detection endpoint's success body.
type DetectResponse struct {
	TopicsProcessed     int            `json:"topics_processed"`
	EventsUpserted      int            `json:"events_upserted"`
	TrendingCount       int            `json:"trending_count"`
	BreakingCount       int            `json:"breaking_count"`
	QualityGateFiltered int            `json:"quality_gate_filtered"`
	EvidenceCount       int            `json:"evidence_count"`
	ClustersCreated     int            `json:"clusters_created"`
	DedupedSavings      int            `json:"deduped_savings"`
	BaselinesLoaded     int            `json:"baselines_loaded"`
	DurationMS          int64          `json:"duration_ms"`
	PerfLimits          map[string]any `json:"perf_limits"`
}

// DetectErrorResponse is the detection endpoint's failure body.
type DetectErrorResponse struct {
	Error      string `json:"error"`
	Phase      string `json:"phase"`
	DurationMS int64  `json:"duration_ms"`
}

// DetectionHandler serves the single trend-detection invocation endpoint.
type DetectionHandler struct {
	store     trend.Store
	baseCfg   trend.EngineConfig
}

// NewDetectionHandler returns a DetectionHandler that runs the pipeline
// against store using baseCfg as the default tunables.
func NewDetectionHandler(store trend.Store, baseCfg trend.EngineConfig) *DetectionHandler {
	return &DetectionHandler{store: store, baseCfg: baseCfg}
}

// Detect runs one complete pipeline pass and reports the result in the
// standard response contract. The handler itself performs no
// authentication or rate limiting; those are enforced by the
// surrounding middleware chain so that a rejected request never
// reaches here and triggers no pipeline work.
func (h *DetectionHandler) Detect(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, err := decodeDetectRequest(r)
	if err != nil {
		h.writeError(w, "invalid request body", "decode_request", start)
		return
	}

	cfg := h.applyOverrides(req)

	engine := trend.NewEngine(cfg, h.store)
	_, stats, err := engine.Run(r.Context())
	duration := time.Since(start)

	if err != nil {
		phase := stats.Phase
		var phaseErr *trend.PhaseError
		if errors.As(err, &phaseErr) {
			phase = phaseErr.Phase
		}
		logging.Error().Err(err).Str("phase", phase).Dur("duration", duration).Msg("detection run failed")
		metrics.RecordRun("error", duration, stats.TopicsProcessed, stats.EventsUpserted, stats.BreakingCount)
		h.writeError(w, err.Error(), phase, start)
		return
	}

	metrics.RecordRun("success", duration, stats.TopicsProcessed, stats.EventsUpserted, stats.BreakingCount)

	resp := DetectResponse{
		TopicsProcessed:     stats.TopicsProcessed,
		EventsUpserted:      stats.EventsUpserted,
		TrendingCount:       stats.TrendingCount,
		BreakingCount:       stats.BreakingCount,
		QualityGateFiltered: stats.QualityGateFiltered,
		EvidenceCount:       stats.EvidenceCount,
		ClustersCreated:     stats.ClustersCreated,
		DedupedSavings:      stats.DedupedSavings,
		BaselinesLoaded:     stats.BaselinesLoaded,
		DurationMS:          stats.DurationMS,
		PerfLimits:          stats.PerfLimits,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("failed to encode detection response")
	}
}

func (h *DetectionHandler) writeError(w http.ResponseWriter, errMsg, phase string, start time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(DetectErrorResponse{
		Error:      errMsg,
		Phase:      phase,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

// decodeDetectRequest reads and validates the optional request body.
// An empty body is treated as a request for the default configuration.
func decodeDetectRequest(r *http.Request) (DetectRequest, error) {
	var req DetectRequest
	if r.Body == nil {
		return req, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return req, err
	}
	if len(body) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, err
	}
	if err := requestValidate.Struct(&req); err != nil {
		return req, err
	}
	return req, nil
}

// applyOverrides layers request-supplied tunables on top of the
// handler's baseline EngineConfig without mutating it.
func (h *DetectionHandler) applyOverrides(req DetectRequest) trend.EngineConfig {
	cfg := h.baseCfg

	if req.WindowHours != nil {
		cfg.Loader.Window = time.Duration(*req.WindowHours) * time.Hour
	}
	if req.ArticleCap != nil {
		cfg.Loader.ArticleCap = *req.ArticleCap
	}
	if req.AggregatorCap != nil {
		cfg.Loader.AggregatorCap = *req.AggregatorCap
	}
	if req.SocialCap != nil {
		cfg.Loader.SocialCap = *req.SocialCap
	}
	if req.MaxPriorEvents != nil {
		cfg.MaxPriorEvents = *req.MaxPriorEvents
	}
	if req.TimeoutBudgetSeconds != nil {
		cfg.TimeoutBudget = time.Duration(*req.TimeoutBudgetSeconds) * time.Second
	}

	return cfg
}
