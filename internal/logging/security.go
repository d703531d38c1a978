// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent represents a security-relevant event on the detection
// endpoint's auth path for audit logging.
type SecurityEvent struct {
	// Event is the type of event (e.g., "auth_success", "auth_failure").
	Event string
	// Method is the authenticator that handled the request (cron, bearer).
	Method string
	// IPAddress is the client's IP address.
	IPAddress string
	// Path is the request path that was authenticated.
	Path string
	// Success indicates if the authentication attempt succeeded.
	Success bool
	// Reason is the failure reason, populated only when Success is false.
	Reason string
	// Details contains additional sanitized details.
	Details map[string]string
}

// SecurityLogger provides secure logging for the authentication events
// raised by internal/auth's Middleware. It automatically sanitizes
// sensitive data (bearer tokens, cron secrets) before logging.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a new security logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "auth").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// LogEvent logs a security event with automatic sanitization.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info().
		Str("event", event.Event)

	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}

	if event.Method != "" {
		e = e.Str("method", event.Method)
	}

	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}

	if event.Path != "" {
		e = e.Str("path", event.Path)
	}

	if event.Reason != "" && !event.Success {
		e = e.Str("reason", SanitizeError(event.Reason))
	}

	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("")
}

// Debug logs a debug-level message.
func (l *SecurityLogger) Debug(msg string, fields ...interface{}) {
	e := l.logger.Debug()
	e = addFieldPairs(e, fields)
	e.Msg(msg)
}

// Info logs an info-level message.
func (l *SecurityLogger) Info(msg string, fields ...interface{}) {
	e := l.logger.Info()
	e = addFieldPairs(e, fields)
	e.Msg(msg)
}

// Warn logs a warning-level message.
func (l *SecurityLogger) Warn(msg string, fields ...interface{}) {
	e := l.logger.Warn()
	e = addFieldPairs(e, fields)
	e.Msg(msg)
}

// Error logs an error-level message.
func (l *SecurityLogger) Error(msg string, fields ...interface{}) {
	e := l.logger.Error()
	e = addFieldPairs(e, fields)
	e.Msg(msg)
}

// addFieldPairs adds key-value pairs to a zerolog event.
func addFieldPairs(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			key, ok := fields[i].(string)
			if !ok {
				continue
			}
			e = e.Interface(key, fields[i+1])
		}
	}
	return e
}

// ============================================================
// Pre-defined Security Events
// ============================================================

// LogAuthSuccess logs a successful authentication against the detection
// endpoint, naming which authenticator (cron secret or bearer token) matched.
func (l *SecurityLogger) LogAuthSuccess(method, ip, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     "auth_success",
		Method:    method,
		IPAddress: ip,
		Path:      path,
		Success:   true,
	})
}

// LogAuthFailure logs a rejected authentication attempt. reason is a short,
// non-sensitive classifier (e.g. "no_credentials", "invalid_credentials");
// it is sanitized before logging in case a caller passes through error text.
func (l *SecurityLogger) LogAuthFailure(method, ip, path, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "auth_failure",
		Method:    method,
		IPAddress: ip,
		Path:      path,
		Success:   false,
		Reason:    reason,
	})
}

// LogRateLimitRejection logs a request rejected by the detection endpoint's
// rate limiter, ahead of any authentication check.
func (l *SecurityLogger) LogRateLimitRejection(ip, path string) {
	l.LogEvent(&SecurityEvent{
		Event:     "rate_limited",
		IPAddress: ip,
		Path:      path,
		Success:   false,
		Reason:    "rate_limit_exceeded",
	})
}

// ============================================================
// Sanitization Functions
// ============================================================

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeError removes potentially sensitive information from error messages.
func SanitizeError(err string) string {
	// Remove potential secrets from error messages
	sensitivePatterns := []string{
		"password",
		"secret",
		"token",
		"key",
		"bearer",
		"authorization",
		"cookie",
	}

	lowerErr := strings.ToLower(err)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerErr, pattern) {
			// Generic error message
			return "authentication error"
		}
	}

	// Truncate long errors
	return truncateString(err, 200)
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	lowerKey := strings.ToLower(key)

	// Check for sensitive key names
	sensitiveKeys := map[string]bool{
		"secret":         true,
		"token":          true,
		"cron_secret":    true,
		"bearer_token":   true,
		"authorization":  true,
		"api_key":        true,
		"apikey":         true,
	}

	if sensitiveKeys[lowerKey] {
		return SanitizeToken(value)
	}

	return value
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
