// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package auth

import (
	"context"
	"errors"
	"net/http"
	"sort"
)

// MultiAuthenticator tries the cron secret authenticator, then the
// bearer token authenticator, stopping at the first to succeed.
//
// Error handling:
//   - ErrNoCredentials: try the next authenticator
//   - any other error (ErrInvalidCredentials): credentials were
//     presented but rejected, stop and return the error
type MultiAuthenticator struct {
	authenticators []Authenticator
}

// NewMultiAuthenticator returns a MultiAuthenticator trying each given
// authenticator in priority order.
func NewMultiAuthenticator(authenticators ...Authenticator) *MultiAuthenticator {
	m := &MultiAuthenticator{authenticators: append([]Authenticator{}, authenticators...)}
	sort.Slice(m.authenticators, func(i, j int) bool {
		return m.authenticators[i].Priority() < m.authenticators[j].Priority()
	})
	return m
}

// Authenticate tries each authenticator in priority order.
func (m *MultiAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error) {
	if len(m.authenticators) == 0 {
		return nil, ErrNoCredentials
	}

	lastErr := ErrNoCredentials
	for _, a := range m.authenticators {
		subject, err := a.Authenticate(ctx, r)
		if err == nil {
			return subject, nil
		}
		lastErr = err
		if errors.Is(err, ErrNoCredentials) {
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

func (m *MultiAuthenticator) Name() string {
	return "multi"
}

// Priority returns 0; MultiAuthenticator wraps other authenticators.
func (m *MultiAuthenticator) Priority() int {
	return 0
}
