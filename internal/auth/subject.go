// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

// Package auth verifies the detection endpoint's two accepted
// credentials: a shared cron secret header, or an admin bearer token.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// AuthMode identifies which credential authenticated a request.
type AuthMode string

const (
	AuthModeCron   AuthMode = "cron"
	AuthModeBearer AuthMode = "bearer"
)

// Standard authentication errors.
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates the presented credential did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authenticator defines the interface for authentication providers.
type Authenticator interface {
	// Authenticate extracts and validates credentials from the request.
	// Returns AuthSubject on success, error on failure.
	Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error)

	// Name returns the authenticator's name for logging.
	Name() string

	// Priority returns the authenticator's priority for multi-mode.
	// Lower values are tried first.
	Priority() int
}

// AuthSubject represents the caller that authenticated a detection run.
type AuthSubject struct {
	ID         string   `json:"id"`
	AuthMethod AuthMode `json:"auth_method"`
}

type contextKey string

const subjectContextKey contextKey = "auth-subject"

// WithSubject returns a context carrying the authenticated subject.
func WithSubject(ctx context.Context, s *AuthSubject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (*AuthSubject, bool) {
	s, ok := ctx.Value(subjectContextKey).(*AuthSubject)
	return s, ok
}
