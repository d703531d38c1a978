// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"time"

	"github.com/trendline/detector/internal/cache"
)

// SourceFamily identifies which content stream a Mention came from.
type SourceFamily string

const (
	SourceArticle    SourceFamily = "article"
	SourceAggregator SourceFamily = "aggregator"
	SourceSocial     SourceFamily = "social"
)

// Tier is the authority class of a publisher.
type Tier string

const (
	Tier1 Tier = "tier1"
	Tier2 Tier = "tier2"
	Tier3 Tier = "tier3"
)

// SentimentLabel is the coarse sentiment classification attached upstream.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// LabelQuality describes how a topic's display label was established.
type LabelQuality string

const (
	LabelEventPhrase      LabelQuality = "event_phrase"
	LabelFallbackGenerated LabelQuality = "fallback_generated"
	LabelEntityOnly       LabelQuality = "entity_only"
)

// TrendStage is the lifecycle stage assigned to a surviving trend event.
type TrendStage string

const (
	StageEmerging  TrendStage = "emerging"
	StageSurging   TrendStage = "surging"
	StagePeaking   TrendStage = "peaking"
	StageDeclining TrendStage = "declining"
	StageStable    TrendStage = "stable"
)

// BreakingPath names the first-matching breaking-news criterion.
type BreakingPath string

const (
	BreakingFreshSpike        BreakingPath = "A:fresh_spike"
	BreakingExtremeZScore     BreakingPath = "B:extreme_zscore"
	BreakingHighRankFresh     BreakingPath = "C:high_rank_fresh"
	BreakingBaselineSurge     BreakingPath = "D:baseline_surge"
	BreakingHighCorroboration BreakingPath = "E:high_corroboration"
	BreakingExtremeActivity   BreakingPath = "F:extreme_activity"
	BreakingNone              BreakingPath = ""
)

// RawTopic is a single topic string attached to a Mention by upstream
// extraction, with optional label-quality metadata.
type RawTopic struct {
	Text                string
	LabelQualityHint    LabelQuality // empty if upstream attached no hint
	IsEventPhraseClaim  bool
}

// Mention is a single piece of content observed from one source family.
// It is immutable once produced by the Mention Loader.
type Mention struct {
	ID              string
	Title           string
	SourceFamily    SourceFamily
	PublishedAt     time.Time
	PublisherDomain string
	Tier            Tier
	SentimentScore  *float64
	SentimentLabel  SentimentLabel
	Topics          []RawTopic
	Headline        string // representative headline text, used for fallback-phrase generation

	ContentHash  string
	CanonicalURL string
}

// TopicAggregate accumulates everything known about one canonical topic
// key observed within the detection window.
//
// Invariants: DedupedCount() <= len(Raw); FirstSeen <=
// LastSeen; every mention referenced by Deduped is also present in Raw;
// sum of TierDeduped values equals DedupedCount().
type TopicAggregate struct {
	Key   string // canonical key: lowercase, punctuation-stripped, underscored
	Title string // canonical title: title-cased or alias-resolved

	IsEventPhrase     bool
	LabelQualityHint  LabelQuality // from upstream extraction, may be empty

	RelatedEntities []string
	CoOccurrences   map[string]int // other topic key -> co-occurrence count

	Raw     []*Mention                // every raw mention attached to this topic, newest first as loaded
	Deduped map[string]*Mention       // content_hash -> first mention seen with that hash
	dedup   cache.DeduplicationCache  // per-topic exact dedup cache (internal/cache.ExactLRU)

	FirstSeen time.Time
	LastSeen  time.Time

	SourceRaw     map[SourceFamily]int
	SourceDeduped map[SourceFamily]int
	TierDeduped   map[Tier]int

	SentimentSum   float64
	SentimentCount int

	AuthorityScore float64
}

// DedupedCount returns the number of distinct content hashes retained.
func (a *TopicAggregate) DedupedCount() int { return len(a.Deduped) }

// RawCount returns the number of raw mentions attached, including duplicates.
func (a *TopicAggregate) RawCount() int { return len(a.Raw) }

// RollingBaseline is the historical hourly-rate statistics for one topic key.
type RollingBaseline struct {
	Key string

	Mean7d   float64
	StdDev7d float64
	Points7d int

	Mean30d   float64
	StdDev30d float64
	Points30d int
}

// HasHistoricalBaseline is true iff there are at least 3 daily datapoints
// in the 7-day window.
func (b RollingBaseline) HasHistoricalBaseline() bool { return b.Points7d >= 3 }

// PhraseCluster is an equivalence class over topic keys whose meanings
// coincide under embedding or text similarity.
type PhraseCluster struct {
	CanonicalKey   string
	CanonicalTitle string
	MemberKeys     map[string]struct{}
	MemberTitles   map[string]struct{}
	TotalDeduped   int
	TopAuthority   float64
	CanonicalIsEventPhrase bool
}

// NewPhraseCluster creates a singleton cluster seeded by one topic key.
func NewPhraseCluster(key, title string, isEventPhrase bool, authority float64, deduped int) *PhraseCluster {
	return &PhraseCluster{
		CanonicalKey:           key,
		CanonicalTitle:         title,
		MemberKeys:             map[string]struct{}{key: {}},
		MemberTitles:           map[string]struct{}{title: {}},
		TotalDeduped:           deduped,
		TopAuthority:           authority,
		CanonicalIsEventPhrase: isEventPhrase,
	}
}

// ConfidenceFactors is the explainability blob persisted alongside a
// TrendEvent, serialized as JSONB by the store.
type ConfidenceFactors struct {
	VelocityComponent      float64        `json:"velocity_component"`
	CorroborationComponent float64        `json:"corroboration_component"`
	ActivityComponent      float64        `json:"activity_component"`
	RecencyDecay           float64        `json:"recency_decay"`
	EvergreenPenalty       float64        `json:"evergreen_penalty"`
	LabelQualityModifier   float64        `json:"label_quality_modifier"`
	ContextPenalty         float64        `json:"context_penalty"`
	BaselineQuality        float64        `json:"baseline_quality"`
	VolumeGate             bool           `json:"volume_gate"`
	ContextSufficient      bool           `json:"context_sufficient"`
	BreakingCriteria       BreakingDetail `json:"breaking_criteria"`
}

// BreakingDetail records which breaking-news path matched, if any.
type BreakingDetail struct {
	BreakingPath          BreakingPath `json:"breaking_path"`
	HasTier12Corroboration bool        `json:"has_tier12_corroboration"`
	EffectiveCurrent1h    int          `json:"effective_current_1h"`
}

// TrendEvent is the persisted, explainable output of the pipeline for one
// topic key that survived the quality gate.
type TrendEvent struct {
	EventKey      string
	EventTitle    string
	CanonicalLabel string // display label: best event phrase if any, else canonical title

	IsEventPhrase bool
	LabelQuality  LabelQuality
	LabelSource   string // "upstream_hint" | "headline_scan" | "default"

	RelatedEntities []string
	RelatedPhrases  []string
	ContextTerms    []string
	ContextPhrases  []string
	ContextSummary  string

	ClusterID *string

	FirstSeen time.Time
	LastSeen  time.Time
	PeakAt    *time.Time

	Baseline7d  float64
	Baseline30d float64

	Current1h  int
	Current6h  int
	Current24h int

	Velocity     float64
	Velocity1h   float64
	Velocity6h   float64
	Acceleration float64

	TrendScore     float64 // legacy
	ZScoreVelocity float64
	ConfidenceScore int
	RankScore      float64

	RecencyDecay     float64
	EvergreenPenalty float64

	ConfidenceFactors ConfidenceFactors

	IsTrending bool
	IsBreaking bool
	TrendStage TrendStage

	SourceCount       int
	NewsSourceCount   int
	SocialSourceCount int
	CorroborationScore int

	EvidenceCount          int
	WeightedEvidenceScore  float64

	TopHeadline    string
	SentimentScore *float64
	SentimentLabel SentimentLabel

	Tier1Count int
	Tier2Count int
	Tier3Count int

	HasTier12Corroboration bool
	IsTier3Only            bool

	UpdatedAt time.Time
}

// Evidence is one supporting reference for a persisted TrendEvent.
type Evidence struct {
	EventKey          string
	SourceType        SourceFamily
	SourceID          string
	SourceURL         string
	SourceTitle       string
	SourceDomain      string
	PublishedAt       time.Time
	ContributionScore float64
	IsPrimary         bool
	CanonicalURL      string
	ContentHash       string
	SentimentScore    *float64
	SentimentLabel    SentimentLabel
	SourceTier        Tier
}

// QualityGateRejection records why an aggregate did not survive the gate,
// for telemetry.
type QualityGateRejection struct {
	Key    string
	Reason string
}

// RunStats summarizes one detection run for the HTTP response.
type RunStats struct {
	TopicsProcessed      int
	EventsUpserted       int
	TrendingCount        int
	BreakingCount        int
	QualityGateFiltered  int
	EvidenceCount        int
	ClustersCreated      int
	DedupedSavings       int
	BaselinesLoaded      int
	DurationMS           int64
	Phase                string // set only on failure
	PerfLimits           map[string]any
}
