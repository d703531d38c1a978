// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
)

// CronSecretHeader is the header carrying the shared cron secret.
const CronSecretHeader = "X-Cron-Secret"

// CronSecretAuthenticator validates the shared secret cron invocations
// present in the X-Cron-Secret header.
type CronSecretAuthenticator struct {
	secret string
}

// NewCronSecretAuthenticator returns a CronSecretAuthenticator. An
// empty secret means this authenticator never succeeds.
func NewCronSecretAuthenticator(secret string) *CronSecretAuthenticator {
	return &CronSecretAuthenticator{secret: secret}
}

func (a *CronSecretAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error) {
	if a.secret == "" {
		return nil, ErrNoCredentials
	}
	presented := r.Header.Get(CronSecretHeader)
	if presented == "" {
		return nil, ErrNoCredentials
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(a.secret)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return &AuthSubject{ID: "cron", AuthMethod: AuthModeCron}, nil
}

func (a *CronSecretAuthenticator) Name() string {
	return string(AuthModeCron)
}

// Priority returns 10; the cron secret is checked before the bearer token.
func (a *CronSecretAuthenticator) Priority() int {
	return 10
}
