// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerTokenAuthenticator_Success(t *testing.T) {
	a := NewBearerTokenAuthenticator("t0k3n")
	req := httptest.NewRequest(http.MethodPost, "/detect", nil)
	req.Header.Set("Authorization", "Bearer t0k3n")

	subject, err := a.Authenticate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, AuthModeBearer, subject.AuthMethod)
}

func TestBearerTokenAuthenticator_WrongToken(t *testing.T) {
	a := NewBearerTokenAuthenticator("t0k3n")
	req := httptest.NewRequest(http.MethodPost, "/detect", nil)
	req.Header.Set("Authorization", "Bearer wrong")

	_, err := a.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBearerTokenAuthenticator_MissingScheme(t *testing.T) {
	a := NewBearerTokenAuthenticator("t0k3n")
	req := httptest.NewRequest(http.MethodPost, "/detect", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")

	_, err := a.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestBearerTokenAuthenticator_NoHeader(t *testing.T) {
	a := NewBearerTokenAuthenticator("t0k3n")
	req := httptest.NewRequest(http.MethodPost, "/detect", nil)

	_, err := a.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestBearerTokenAuthenticator_EmptyTokenNeverSucceeds(t *testing.T) {
	a := NewBearerTokenAuthenticator("")
	req := httptest.NewRequest(http.MethodPost, "/detect", nil)
	req.Header.Set("Authorization", "Bearer ")

	_, err := a.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoCredentials)
}
