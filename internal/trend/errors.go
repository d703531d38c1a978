// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"errors"
	"fmt"
)

// Sentinel errors categorized by phase; callers use errors.Is to
// map a PhaseError back to its taxonomy bucket.
var (
	ErrSourceQueryFailed = errors.New("trend: source query failed")
	ErrBudgetExhausted   = errors.New("trend: timeout budget exhausted")
	ErrUnauthorized      = errors.New("trend: unauthorized")
	ErrRateLimited       = errors.New("trend: rate limit exceeded")
)

// PhaseError tags an error with the pipeline phase active when it
// occurred, matching the response contract's (error, phase,
// duration_ms) triple.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
