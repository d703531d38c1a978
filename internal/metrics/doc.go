// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

/*
Package metrics provides Prometheus metrics collection and export for
the trend detection service.

# Overview

The package exposes metrics for:
  - Pipeline phase duration and total run duration
  - Run outcomes (ok, timeout, error) and aggregate per-run counts
    (topics processed, events upserted, breaking count)
  - Quality gate rejections, by reason
  - Mention-source circuit breaker trips
  - Timeout guard emergency-flush trips, by phase
  - HTTP request latency and throughput for the detection endpoint

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Pipeline metrics:
  - trend_phase_duration_seconds: per-phase duration (histogram)
    Labels: phase
  - trend_run_duration_seconds: total run duration (histogram)
  - trend_runs_total: completed runs by outcome (counter)
    Labels: outcome
  - trend_topics_processed: topics aggregated per run (histogram)
  - trend_events_upserted: events upserted per run (histogram)
  - trend_breaking_count: breaking events per run (histogram)
  - trend_quality_gate_filtered_total: quality gate rejections (counter)
    Labels: reason
  - trend_deduped_mentions_total: content-hash duplicates collapsed (counter)
  - trend_source_breaker_trips_total: circuit breaker trips (counter)
    Labels: source
  - trend_timeout_guard_trips_total: emergency-flush trips (counter)
    Labels: phase

HTTP metrics:
  - trend_http_requests_total: requests to the detection endpoint (counter)
    Labels: path, status_code
  - trend_http_request_duration_seconds: handler latency (histogram)
    Labels: path
  - trend_rate_limit_hits_total: requests rejected by the rate limiter (counter)

# Usage

Record a phase's duration as soon as it completes:

	start := time.Now()
	// ... run phase ...
	metrics.RecordPhase(string(trend.PhaseAggregate), time.Since(start))

Record a completed run's outcome:

	metrics.RecordRun("ok", time.Since(started), stats.TopicsProcessed, stats.EventsUpserted, stats.BreakingCount)
*/
package metrics
