// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package auth

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/trendline/detector/internal/logging"
)

// errorResponse mirrors the detection endpoint's failure body:
// error, phase, duration_ms.
type errorResponse struct {
	Error      string `json:"error"`
	Phase      string `json:"phase"`
	DurationMS int64  `json:"duration_ms"`
}

// Middleware enforces authentication ahead of the detection endpoint.
type Middleware struct {
	authenticator Authenticator
	security      *logging.SecurityLogger
}

// NewMiddleware returns a Middleware that enforces the given authenticator.
func NewMiddleware(authenticator Authenticator) *Middleware {
	return &Middleware{
		authenticator: authenticator,
		security:      logging.NewSecurityLogger(),
	}
}

// Authenticate rejects unauthenticated requests with 401 before any
// pipeline work is performed: no run is started, no store calls are made,
// until an authenticator has matched.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		subject, err := m.authenticator.Authenticate(r.Context(), r)
		if err != nil {
			m.security.LogAuthFailure(m.authenticator.Name(), clientIP(r), r.URL.Path, authFailureReason(err))
			writeUnauthorized(w, start)
			return
		}

		m.security.LogAuthSuccess(string(subject.AuthMethod), clientIP(r), r.URL.Path)
		ctx := WithSubject(r.Context(), subject)
		next(w, r.WithContext(ctx))
	}
}

// clientIP extracts the caller's address for audit logging from
// RemoteAddr. The router mounts chi's RealIP middleware ahead of this
// one, so RemoteAddr already reflects X-Real-IP or X-Forwarded-For when
// the request carries either header.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func authFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "no_credentials"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "unknown"
	}
}

func writeUnauthorized(w http.ResponseWriter, start time.Time) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:      "unauthorized",
		Phase:      "authenticate",
		DurationMS: time.Since(start).Milliseconds(),
	})
}
