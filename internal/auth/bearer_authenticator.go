// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerTokenAuthenticator validates the admin bearer token presented
// in the Authorization header.
type BearerTokenAuthenticator struct {
	token string
}

// NewBearerTokenAuthenticator returns a BearerTokenAuthenticator. An
// empty token means this authenticator never succeeds.
func NewBearerTokenAuthenticator(token string) *BearerTokenAuthenticator {
	return &BearerTokenAuthenticator{token: token}
}

func (a *BearerTokenAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error) {
	if a.token == "" {
		return nil, ErrNoCredentials
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, ErrNoCredentials
	}
	presented, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || presented == "" {
		return nil, ErrNoCredentials
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return &AuthSubject{ID: "admin", AuthMethod: AuthModeBearer}, nil
}

func (a *BearerTokenAuthenticator) Name() string {
	return string(AuthModeBearer)
}

// Priority returns 20; the bearer token is checked after the cron secret.
func (a *BearerTokenAuthenticator) Priority() int {
	return 20
}
