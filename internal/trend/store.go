// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"context"
	"time"
)

// ArticleRow is one long-form article row as read from the store,
// before it is turned into a Mention by the loader.
type ArticleRow struct {
	ID              string
	Title           string
	Headline        string
	PublishedAt     time.Time
	PublisherDomain string
	CanonicalURL    string
	SentimentScore  *float64
	SentimentLabel  SentimentLabel
	ExtractedTopics []RawTopic // nil if the extractor never ran on this row
	Tags            []string   // legacy fallback, consulted only when extraction is absent
}

// AggregatorRow is one aggregator-syndicated item. RedirectHost is the
// aggregator's own outbound link host, kept separate from
// CanonicalURL's host so the loader can prefer the original publisher
// domain when resolving a mention's authority tier.
type AggregatorRow struct {
	ID              string
	Title           string
	Headline        string
	PublishedAt     time.Time
	RedirectHost    string
	CanonicalURL    string
	SentimentScore  *float64
	SentimentLabel  SentimentLabel
	ExtractedTopics []RawTopic
	Tags            []string
}

// SocialRow is one short-form social post.
type SocialRow struct {
	ID             string
	Text           string
	PublishedAt    time.Time
	SentimentScore *float64
	SentimentLabel SentimentLabel
	Topics         []RawTopic
}

// ArticleReader returns recent long-form articles, newest first,
// bounded by cap.
type ArticleReader interface {
	LoadArticles(ctx context.Context, since time.Time, cap int) ([]ArticleRow, error)
}

// AggregatorReader returns recent aggregator items, newest first.
type AggregatorReader interface {
	LoadAggregatorItems(ctx context.Context, since time.Time, cap int) ([]AggregatorRow, error)
}

// SocialReader returns recent short-form social posts, newest first.
type SocialReader interface {
	LoadSocialPosts(ctx context.Context, since time.Time, cap int) ([]SocialRow, error)
}

// AliasReader returns the persisted alias table (surface form →
// canonical title, or SkipSentinel).
type AliasReader interface {
	LoadAliases(ctx context.Context) (map[string]string, error)
}

// TierReader returns persisted tier overrides layered on top of the
// built-in domain tables.
type TierReader interface {
	LoadTierOverrides(ctx context.Context) (tier1Domains, tier2Domains []string, err error)
}

// BaselineReader returns the prior daily rollups needed to compute each
// topic's RollingBaseline. Baselines are loaded before mentions and therefore
// before this run's topic keys are known: a nil or empty keys slice
// means "every known event key," and the engine preloads the full
// table once, then looks up each topic key discovered during
// aggregation in the resulting map. A non-empty keys slice restricts
// the query, for callers (tests, tools) that already know which keys
// they want.
type BaselineReader interface {
	LoadBaselines(ctx context.Context, keys []string, asOf time.Time) (map[string][]DailyRollup, error)
}

// PriorEventReader returns the embedding index used by the Phrase
// Clusterer's pass 1, already capped to the configured
// max prior events (default 300).
type PriorEventReader interface {
	LoadPriorEmbeddings(ctx context.Context, maxEvents int) ([]PriorEmbedding, error)
}

// TrendEventWriter upserts scored trend events keyed by canonical key.
type TrendEventWriter interface {
	UpsertTrendEvents(ctx context.Context, events []TrendEvent) (upserted int, err error)
}

// EvidenceWriter deletes and rewrites evidence rows for one event.
type EvidenceWriter interface {
	ReplaceEvidence(ctx context.Context, eventKey string, evidence []Evidence) error
}

// ClusterWriter upserts phrase clusters that have at least two members.
type ClusterWriter interface {
	UpsertClusters(ctx context.Context, clusters []*PhraseCluster) (upserted int, err error)
}

// BaselineWriter upserts today's baseline rollup contribution.
type BaselineWriter interface {
	UpsertBaselineRollup(ctx context.Context, rollups []DailyRollup) error
}

// Store is the full set of collaborators the engine depends on,
// satisfied by sqlstore.DuckDBStore in production and by in-memory
// fakes in tests: the core consumes from collaborators only.
type Store interface {
	ArticleReader
	AggregatorReader
	SocialReader
	AliasReader
	TierReader
	BaselineReader
	PriorEventReader
	TrendEventWriter
	EvidenceWriter
	ClusterWriter
	BaselineWriter
}
