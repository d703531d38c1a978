// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeoutBudget is the wall-clock execution budget consulted
// before every phase and between persistence batches.
const DefaultTimeoutBudget = 45 * time.Second

// TimeoutGuard tracks the remaining wall-clock budget for one run and
// reports whether it has been exhausted. It is consulted before every
// phase transition and between persister batches.
//
// The remaining-time check is a plain deadline comparison: Remaining()
// is the budget minus Elapsed(). The guard also builds a single-permit
// golang.org/x/time/rate limiter with the budget as its refill
// interval, but no method consults it.
type TimeoutGuard struct {
	limiter *rate.Limiter
	start   time.Time
	budget  time.Duration
}

// NewTimeoutGuard creates a guard with the given total budget, started now.
func NewTimeoutGuard(budget time.Duration) *TimeoutGuard {
	if budget <= 0 {
		budget = DefaultTimeoutBudget
	}
	return &TimeoutGuard{
		limiter: rate.NewLimiter(rate.Every(budget), 1),
		start:   time.Now(),
		budget:  budget,
	}
}

// Elapsed returns the wall-clock time spent since the guard was created.
func (g *TimeoutGuard) Elapsed() time.Duration {
	return time.Since(g.start)
}

// Remaining returns the budget left, zero or negative once exhausted.
func (g *TimeoutGuard) Remaining() time.Duration {
	return g.budget - g.Elapsed()
}

// Exhausted reports whether the budget has been consumed.
func (g *TimeoutGuard) Exhausted() bool {
	return g.Remaining() <= 0
}

// Phase is one named step in the fixed pipeline order,
// used for the timeout-trip phase marker and for structured logging.
type Phase string

const (
	PhaseLoadAliases   Phase = "load_aliases"
	PhaseLoadTiers     Phase = "load_tiers"
	PhaseLoadBaselines Phase = "load_baselines"
	PhaseLoadMentions  Phase = "load_mentions"
	PhaseLoadPrior     Phase = "load_prior_events"
	PhaseAggregate     Phase = "aggregate"
	PhaseCluster       Phase = "cluster"
	PhaseScore         Phase = "score"
	PhasePersist       Phase = "persist"
)

// CheckBudget returns a non-nil error tagged with phase if the guard's
// budget is already exhausted, for the abort-before-phase-start
// contract ("budget exhaustion before a source's query
// causes abort with a specific phase marker").
func (g *TimeoutGuard) CheckBudget(phase Phase) error {
	if g.Exhausted() {
		return &PhaseError{Phase: string(phase), Err: ErrBudgetExhausted}
	}
	return nil
}
