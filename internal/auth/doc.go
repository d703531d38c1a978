// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

/*
Package auth verifies the detection endpoint's invocation contract: a caller presents either a shared cron secret
(X-Cron-Secret header) or an admin bearer token (Authorization: Bearer
<token>), and either is sufficient.

MultiAuthenticator tries CronSecretAuthenticator then
BearerTokenAuthenticator in priority order, stopping at the first
success. Middleware wraps that chain as an http.HandlerFunc decorator
that rejects unauthenticated requests with 401 before any pipeline
work runs.
*/
package auth
