// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"time"

	"github.com/trendline/detector/internal/cache"
)

// dedupCapacity bounds the per-topic exact-match dedup cache; a single
// topic rarely accumulates more raw mentions than this within one
// 24h window, and the cache evicts oldest-first well before that.
const dedupCapacity = 20000

// Aggregator implements the Topic Aggregator and Deduplicator: for
// every mention it resolves each raw topic to a canonical key via the
// Alias Resolver, creates or updates the aggregate, and tracks
// co-occurrences across topics on the same mention.
type Aggregator struct {
	alias    *AliasResolver
	detector *EventPhraseDetector

	topics map[string]*TopicAggregate
}

// NewAggregator creates an empty aggregator.
func NewAggregator(alias *AliasResolver, detector *EventPhraseDetector) *Aggregator {
	return &Aggregator{
		alias:    alias,
		detector: detector,
		topics:   make(map[string]*TopicAggregate),
	}
}

// Topics returns the accumulated aggregates after AddMention has been
// called for every loaded mention.
func (a *Aggregator) Topics() map[string]*TopicAggregate {
	return a.topics
}

// AddMention resolves every raw topic on m, attaches m to each
// resulting aggregate, and records co-occurrences among the topics that
// survived resolution (addMention/trackCoOccurrences).
func (a *Aggregator) AddMention(m *Mention) {
	resolved := make([]string, 0, len(m.Topics))
	for _, raw := range m.Topics {
		key, ok := a.resolve(raw, m)
		if !ok {
			continue
		}
		resolved = append(resolved, key)
	}
	for _, key := range resolved {
		a.trackCoOccurrences(key, resolved)
	}
}

// resolve canonicalizes one raw topic, creating the aggregate on first
// sight and attaching m to it. Returns false if the topic should be
// dropped (alias skip, or key shorter than 2 characters).
func (a *Aggregator) resolve(raw RawTopic, m *Mention) (string, bool) {
	title := a.alias.CanonicalTitle(raw.Text)
	if title == SkipSentinel {
		return "", false
	}
	key := CanonicalKey(title)
	if len(key) < 2 {
		return "", false
	}

	agg, exists := a.topics[key]
	if !exists {
		isEventPhrase := raw.IsEventPhraseClaim
		if raw.LabelQualityHint == "" {
			isEventPhrase = a.detector.IsEventPhrase(title)
		}
		agg = &TopicAggregate{
			Key:              key,
			Title:            title,
			IsEventPhrase:    isEventPhrase,
			LabelQualityHint: raw.LabelQualityHint,
			CoOccurrences:    make(map[string]int),
			Deduped:          make(map[string]*Mention),
			dedup:            cache.NewExactLRU(dedupCapacity, 48*time.Hour),
			SourceRaw:        make(map[SourceFamily]int),
			SourceDeduped:    make(map[SourceFamily]int),
			TierDeduped:      make(map[Tier]int),
			FirstSeen:        m.PublishedAt,
			LastSeen:         m.PublishedAt,
		}
		a.topics[key] = agg
	}

	a.attach(agg, m)
	return key, true
}

// attach implements the per-mention accumulation rules.
func (a *Aggregator) attach(agg *TopicAggregate, m *Mention) {
	agg.Raw = append(agg.Raw, m)
	agg.SourceRaw[m.SourceFamily]++

	isNew := !agg.dedup.IsDuplicate(m.ContentHash)
	agg.dedup.Record(m.ContentHash)

	if isNew {
		agg.Deduped[m.ContentHash] = m
		agg.SourceDeduped[m.SourceFamily]++
		tier := m.Tier
		if tier == "" {
			tier = Tier3
		}
		agg.TierDeduped[tier]++
	}

	if m.PublishedAt.Before(agg.FirstSeen) {
		agg.FirstSeen = m.PublishedAt
	}
	if m.PublishedAt.After(agg.LastSeen) {
		agg.LastSeen = m.PublishedAt
	}

	if m.SentimentScore != nil {
		agg.SentimentSum += *m.SentimentScore
		agg.SentimentCount++
	}
}

// trackCoOccurrences increments a symmetric counter on every unordered
// pair of distinct topics resolved from the same mention.
func (a *Aggregator) trackCoOccurrences(key string, resolvedOnMention []string) {
	agg, ok := a.topics[key]
	if !ok {
		return
	}
	for _, other := range resolvedOnMention {
		if other == key {
			continue
		}
		agg.CoOccurrences[other]++
	}
}
