// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/trendline/detector/internal/logging"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID middleware stamps every call to the detection endpoint
// with a request ID and a fresh correlation ID, so the log lines
// emitted by one run (aggregation, quality gate rejections, scoring,
// persistence) can all be tied back to the HTTP call that triggered
// them.
func RequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A fronting load balancer or cron invoker may already supply one.
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// Add to response header for client visibility
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithNewCorrelationID(ctx)

		next(w, r.WithContext(ctx))
	}
}

// GetRequestID extracts the request ID stamped on a detection run
// from its context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
