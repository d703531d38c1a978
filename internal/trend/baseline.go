// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"math"
	"time"
)

// DailyRollup is one persisted daily baseline datapoint for a topic key
// (Rolling Baseline persistence unit).
type DailyRollup struct {
	Key             string
	Date            time.Time
	MentionsCount   int
	HourlyAverage   float64
	HourlyStdDev    float64
	RelativeStdDev  float64
	NewsMentions    int
	SocialMentions  int
}

// ComputeRollingBaseline averages daily rollups (excluding today) over
// the prior 7 and 30 days into the RollingBaseline the Scorer consumes.
func ComputeRollingBaseline(key string, priorDays []DailyRollup, today time.Time) RollingBaseline {
	b := RollingBaseline{Key: key}
	var sum7, stdSum7, sum30, stdSum30 float64
	for _, d := range priorDays {
		if !d.Date.Before(today) {
			continue // excludes today
		}
		age := today.Sub(d.Date)
		if age <= 30*24*time.Hour {
			sum30 += d.HourlyAverage
			stdSum30 += d.HourlyStdDev
			b.Points30d++
		}
		if age <= 7*24*time.Hour {
			sum7 += d.HourlyAverage
			stdSum7 += d.HourlyStdDev
			b.Points7d++
		}
	}
	if b.Points7d > 0 {
		b.Mean7d = sum7 / float64(b.Points7d)
		b.StdDev7d = stdSum7 / float64(b.Points7d)
	}
	if b.Points30d > 0 {
		b.Mean30d = sum30 / float64(b.Points30d)
		b.StdDev30d = stdSum30 / float64(b.Points30d)
	}
	return b
}

// hourlyHistogram buckets a topic's deduped mentions into 24 hourly
// buckets ending at windowEnd, for the std-dev recompute below.
//
// A plain fixed-size array is used rather than
// internal/cache.SlidingWindowCounter: that counter advances its
// buckets from time.Now() on every call, which fits tracking a live
// rate during the run (see loader.go's ingestion-rate telemetry) but
// not replaying already-timestamped historical mentions into
// deterministic hour buckets — there is no pack data structure for
// that, so this is justified stdlib use.
func hourlyHistogram(deduped map[string]*Mention, windowEnd time.Time) [24]int {
	var buckets [24]int
	for _, m := range deduped {
		age := windowEnd.Sub(m.PublishedAt)
		if age < 0 {
			age = 0
		}
		hourIdx := int(age / time.Hour)
		if hourIdx < 0 {
			hourIdx = 0
		}
		if hourIdx > 23 {
			hourIdx = 23
		}
		buckets[23-hourIdx]++
	}
	return buckets
}

// RecomputeHourlyStdDev recomputes today's baseline contribution
// (hourly_average, hourly_std_dev, relative_std_dev) from the topic's
// deduped mentions' per-hour histogram over the current window.
func RecomputeHourlyStdDev(deduped map[string]*Mention, windowEnd time.Time, windowHours float64) DailyRollup {
	buckets := hourlyHistogram(deduped, windowEnd)

	var sum float64
	for _, c := range buckets {
		sum += float64(c)
	}
	mean := sum / float64(len(buckets))

	var variance float64
	for _, c := range buckets {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(len(buckets))
	stdDev := math.Sqrt(variance)

	relativeStdDev := 0.0
	if mean > 0 {
		relativeStdDev = stdDev / mean
	}

	hourlyAverage := 0.0
	if windowHours > 0 {
		hourlyAverage = float64(len(deduped)) / windowHours
	}

	return DailyRollup{
		MentionsCount:  len(deduped),
		HourlyAverage:  hourlyAverage,
		HourlyStdDev:   stdDev,
		RelativeStdDev: relativeStdDev,
	}
}
