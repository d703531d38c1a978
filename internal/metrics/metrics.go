// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the trend detection pipeline: per-phase
// duration, pipeline throughput, quality-gate/HTTP outcomes.

var (
	// PhaseDuration records how long each pipeline phase took on its
	// last run (fixed phase order).
	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trend_phase_duration_seconds",
			Help:    "Duration of each trend detection pipeline phase in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	// RunDuration records total wall-clock time for one complete run.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trend_run_duration_seconds",
			Help:    "Duration of a complete trend detection run in seconds",
			Buckets: []float64{1, 2.5, 5, 10, 15, 20, 30, 45, 60},
		},
	)

	// RunsTotal counts completed runs by outcome (ok, timeout, error).
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trend_runs_total",
			Help: "Total number of trend detection runs by outcome",
		},
		[]string{"outcome"},
	)

	// TopicsProcessed records the aggregator's topic count per run.
	TopicsProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trend_topics_processed",
			Help:    "Number of distinct topics aggregated per run",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	// EventsUpserted records the persister's event-write count per run.
	EventsUpserted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trend_events_upserted",
			Help:    "Number of trend events upserted per run",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// BreakingCount records the breaking-news count per run.
	BreakingCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trend_breaking_count",
			Help:    "Number of events flagged breaking per run",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	// QualityGateFiltered counts topics rejected by the quality gate,
	// labeled by the rejection reason.
	QualityGateFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trend_quality_gate_filtered_total",
			Help: "Total number of topics filtered by the quality gate, by reason",
		},
		[]string{"reason"},
	)

	// DedupedMentions counts mentions collapsed as duplicates during
	// aggregation.
	DedupedMentions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trend_deduped_mentions_total",
			Help: "Total number of mentions collapsed as content-hash duplicates",
		},
	)

	// SourceBreakerTrips counts gobreaker trips per mention source
	// family (per-source failure isolation).
	SourceBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trend_source_breaker_trips_total",
			Help: "Total number of circuit breaker trips per mention source",
		},
		[]string{"source"},
	)

	// TimeoutGuardTrips counts runs where the timeout guard forced an
	// emergency flush.
	TimeoutGuardTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trend_timeout_guard_trips_total",
			Help: "Total number of timeout guard trips by phase",
		},
		[]string{"phase"},
	)

	// HTTPRequestsTotal counts detection endpoint invocations by status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trend_http_requests_total",
			Help: "Total number of HTTP requests to the detection endpoint",
		},
		[]string{"path", "status_code"},
	)

	// HTTPRequestDuration records end-to-end HTTP handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trend_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 20, 45, 60},
		},
		[]string{"path"},
	)

	// RateLimitHits counts requests rejected by the rate limiter.
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trend_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)
)

// RecordPhase records one phase's duration.
func RecordPhase(phase string, d time.Duration) {
	PhaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordRun records a completed run's outcome and aggregate stats.
func RecordRun(outcome string, d time.Duration, topics, events, breaking int) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(d.Seconds())
	TopicsProcessed.Observe(float64(topics))
	EventsUpserted.Observe(float64(events))
	BreakingCount.Observe(float64(breaking))
}

// RecordQualityGateFiltered records one quality-gate rejection.
func RecordQualityGateFiltered(reason string) {
	QualityGateFiltered.WithLabelValues(reason).Inc()
}

// RecordSourceBreakerTrip records one circuit breaker trip for a
// mention source family.
func RecordSourceBreakerTrip(source string) {
	SourceBreakerTrips.WithLabelValues(source).Inc()
}

// RecordTimeoutGuardTrip records an emergency-flush trip at a given phase.
func RecordTimeoutGuardTrip(phase string) {
	TimeoutGuardTrips.WithLabelValues(phase).Inc()
}

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(path, statusCode string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(path, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(path).Observe(d.Seconds())
}
