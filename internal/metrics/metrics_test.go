// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPhase(t *testing.T) {
	RecordPhase("aggregate", 150*time.Millisecond)
	count := testutil.CollectAndCount(PhaseDuration, "trend_phase_duration_seconds")
	assert.GreaterOrEqual(t, count, 1)
}

func TestRecordRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("ok"))
	RecordRun("ok", 5*time.Second, 120, 30, 2)
	after := testutil.ToFloat64(RunsTotal.WithLabelValues("ok"))
	assert.Equal(t, before+1, after)
}

func TestRecordRunOutcomesAreIndependent(t *testing.T) {
	beforeOK := testutil.ToFloat64(RunsTotal.WithLabelValues("ok"))
	beforeTimeout := testutil.ToFloat64(RunsTotal.WithLabelValues("timeout"))

	RecordRun("timeout", 45*time.Second, 500, 50, 2)

	assert.Equal(t, beforeOK, testutil.ToFloat64(RunsTotal.WithLabelValues("ok")))
	assert.Equal(t, beforeTimeout+1, testutil.ToFloat64(RunsTotal.WithLabelValues("timeout")))
}

func TestRecordQualityGateFiltered(t *testing.T) {
	before := testutil.ToFloat64(QualityGateFiltered.WithLabelValues("single_word_entity_only"))
	RecordQualityGateFiltered("single_word_entity_only")
	after := testutil.ToFloat64(QualityGateFiltered.WithLabelValues("single_word_entity_only"))
	assert.Equal(t, before+1, after)
}

func TestRecordSourceBreakerTrip(t *testing.T) {
	before := testutil.ToFloat64(SourceBreakerTrips.WithLabelValues("social"))
	RecordSourceBreakerTrip("social")
	after := testutil.ToFloat64(SourceBreakerTrips.WithLabelValues("social"))
	assert.Equal(t, before+1, after)
}

func TestRecordTimeoutGuardTrip(t *testing.T) {
	before := testutil.ToFloat64(TimeoutGuardTrips.WithLabelValues("persist"))
	RecordTimeoutGuardTrip("persist")
	after := testutil.ToFloat64(TimeoutGuardTrips.WithLabelValues("persist"))
	assert.Equal(t, before+1, after)
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/detect", "200"))
	RecordHTTPRequest("/detect", "200", 1200*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/detect", "200"))
	assert.Equal(t, before+1, after)

	durationCount := testutil.CollectAndCount(HTTPRequestDuration, "trend_http_request_duration_seconds")
	assert.GreaterOrEqual(t, durationCount, 1)
}
