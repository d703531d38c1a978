// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/trendline/detector/internal/cache"
	"github.com/trendline/detector/internal/logging"
)

// EngineConfig holds the tunables that vary a run without changing the
// pipeline's fixed phase order.
type EngineConfig struct {
	Loader          LoaderConfig
	TimeoutBudget   time.Duration
	MaxPriorEvents  int // embedding index size fed to the Phrase Clusterer
}

// DefaultEngineConfig returns the engine's tunable defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Loader:         DefaultLoaderConfig(),
		TimeoutBudget:  DefaultTimeoutBudget,
		MaxPriorEvents: 300,
	}
}

// Engine orchestrates the fixed nine-phase pipeline: load
// aliases, load tiers, load baselines, load mentions, load prior
// events, aggregate, cluster, score, persist. No phase starts before
// its predecessor has fully completed, and the TimeoutGuard is
// consulted before each one.
type Engine struct {
	cfg   EngineConfig
	store Store
}

// NewEngine wires a pipeline run over one Store implementation.
func NewEngine(cfg EngineConfig, store Store) *Engine {
	return &Engine{cfg: cfg, store: store}
}

// Run executes one complete detection pass and returns the surviving
// trend events alongside run statistics for the HTTP response contract.
func (e *Engine) Run(ctx context.Context) ([]TrendEvent, RunStats, error) {
	started := time.Now()
	guard := NewTimeoutGuard(e.cfg.TimeoutBudget)
	stats := RunStats{
		PerfLimits: map[string]any{
			"article_cap":      e.cfg.Loader.ArticleCap,
			"aggregator_cap":   e.cfg.Loader.AggregatorCap,
			"social_cap":       e.cfg.Loader.SocialCap,
			"timeout_budget_ms": e.cfg.TimeoutBudget.Milliseconds(),
		},
	}

	if err := guard.CheckBudget(PhaseLoadAliases); err != nil {
		return nil, failureStats(stats, started, PhaseLoadAliases), err
	}
	aliasEntries, err := e.store.LoadAliases(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("alias table load failed, continuing with fallback table only")
		aliasEntries = map[string]string{}
	}
	aliasResolver := NewAliasResolver(aliasEntries)

	if err := guard.CheckBudget(PhaseLoadTiers); err != nil {
		return nil, failureStats(stats, started, PhaseLoadTiers), err
	}
	tier1Overrides, tier2Overrides, err := e.store.LoadTierOverrides(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("tier override load failed, continuing with built-in tables only")
	}
	tiers := NewTierResolver(tier1Overrides, tier2Overrides)

	// Baselines are loaded before mentions per the fixed phase order
	//, which is also before this run's topic keys exist.
	// An empty keys slice tells the store to preload every known key's
	// history in one query; the per-topic lookup below happens after
	// aggregation, against this already-fetched map.
	if err := guard.CheckBudget(PhaseLoadBaselines); err != nil {
		return nil, failureStats(stats, started, PhaseLoadBaselines), err
	}
	now := time.Now()
	baselinesByKey, err := e.store.LoadBaselines(ctx, nil, now)
	if err != nil {
		logging.Error().Err(err).Msg("baseline load failed, continuing with empty history")
		baselinesByKey = map[string][]DailyRollup{}
	}
	stats.BaselinesLoaded = len(baselinesByKey)

	if err := guard.CheckBudget(PhaseLoadMentions); err != nil {
		return nil, failureStats(stats, started, PhaseLoadMentions), err
	}
	loader := NewLoader(e.cfg.Loader, e.store, e.store, e.store)
	loaded := loader.Load(ctx, tiers)
	stats.DedupedSavings = dedupedSavings(loaded)

	if err := guard.CheckBudget(PhaseLoadPrior); err != nil {
		return nil, failureStats(stats, started, PhaseLoadPrior), err
	}
	priorEmbeddings, err := e.store.LoadPriorEmbeddings(ctx, e.cfg.MaxPriorEvents)
	if err != nil {
		logging.Error().Err(err).Msg("prior embedding load failed, continuing with empty index")
		priorEmbeddings = nil
	}

	if err := guard.CheckBudget(PhaseAggregate); err != nil {
		return nil, failureStats(stats, started, PhaseAggregate), err
	}
	detector := NewEventPhraseDetector()
	labelValidator := NewLabelValidator(detector)
	aggregator := NewAggregator(aliasResolver, detector)
	for _, m := range loaded.Articles {
		aggregator.AddMention(m)
	}
	for _, m := range loaded.Aggregator {
		aggregator.AddMention(m)
	}
	for _, m := range loaded.Social {
		aggregator.AddMention(m)
	}
	topics := aggregator.Topics()
	stats.TopicsProcessed = len(topics)

	if err := guard.CheckBudget(PhaseCluster); err != nil {
		return nil, failureStats(stats, started, PhaseCluster), err
	}
	clusterer := NewClusterer(detector, priorEmbeddings)
	// No embedding source supplies a fresh per-run vector for a
	// newly-seen topic: Cluster receives an empty embeddings map, so
	// pass 1 places no topic and every topic is clustered by pass 2's
	// text similarity.
	clusters := clusterer.Cluster(topics, map[string][]float64{})

	if err := guard.CheckBudget(PhaseScore); err != nil {
		return nil, failureStats(stats, started, PhaseScore), err
	}
	gate := NewQualityGate()
	scorer := NewScorer()

	var events []TrendEvent
	evidenceByKey := make(map[string][]Evidence)
	var rollups []DailyRollup

	for key, agg := range topics {
		domainCount := distinctDomainCount(agg)
		result := gate.Evaluate(agg, domainCount)
		if !result.Pass {
			stats.QualityGateFiltered++
			continue
		}

		headline := representativeHeadline(agg)
		validation := labelValidator.Validate(agg.Title, agg.IsEventPhrase, agg.LabelQualityHint, headline)

		baseline := ComputeRollingBaseline(key, baselinesByKey[key], now)
		rollup := RecomputeHourlyStdDev(agg.Deduped, now, float64(e.cfg.Loader.Window/time.Hour))
		rollup.Key = key
		rollup.Date = now
		rollup.NewsMentions = agg.SourceDeduped[SourceArticle] + agg.SourceDeduped[SourceAggregator]
		rollup.SocialMentions = agg.SourceDeduped[SourceSocial]
		rollups = append(rollups, rollup)

		isSingleWord := len(strings.Fields(agg.Title)) == 1
		singleWordEntityOnly := isSingleWord && validation.Quality == LabelEntityOnly
		evergreen := IsEvergreen(key, isSingleWord, baseline.Mean7d, baseline.Mean30d)

		neighborIsEventPhrase := make(map[string]bool, len(agg.CoOccurrences))
		for neighborKey := range agg.CoOccurrences {
			if neighbor, ok := topics[neighborKey]; ok {
				neighborIsEventPhrase[neighborKey] = neighbor.IsEventPhrase
			}
		}
		hasContext := HasContext(agg.CoOccurrences, neighborIsEventPhrase)

		in := ScoreInput{
			Key:   key,
			Title: agg.Title,

			LabelQuality:  validation.Quality,
			LabelSource:   validation.Source,
			IsEventPhrase: validation.IsEventPhrase,

			Baseline: baseline,

			FirstSeen: agg.FirstSeen,
			LastSeen:  agg.LastSeen,
			Now:       now,

			Current1h:  countSince(agg.Deduped, now, time.Hour),
			Current6h:  countSince(agg.Deduped, now, 6*time.Hour),
			Current24h: countSince(agg.Deduped, now, 24*time.Hour),

			SourceFamilyCount: countSourceFamilies(agg),
			NewsSourceCount:   newsDomainCount(agg),
			HasNews:           agg.SourceDeduped[SourceArticle]+agg.SourceDeduped[SourceAggregator] > 0,
			HasSocial:         agg.SourceDeduped[SourceSocial] > 0,
			Tier1Count:        agg.TierDeduped[Tier1],
			Tier2Count:        agg.TierDeduped[Tier2],
			Tier3Count:        agg.TierDeduped[Tier3],

			HasContext: hasContext,

			Evergreen:            evergreen,
			SingleWordEntityOnly: singleWordEntityOnly,
		}

		event := scorer.Score(in, clusters[clusterCanonicalFor(clusters, key)])
		event.CanonicalLabel = validation.Label
		event.TopHeadline = headline
		relatedEntities, contextTerms, contextPhrases, contextSummary := buildContext(agg, topics)
		event.RelatedEntities = relatedEntities
		event.ContextTerms = contextTerms
		event.ContextPhrases = contextPhrases
		event.ContextSummary = contextSummary
		if agg.SentimentCount > 0 {
			avg := agg.SentimentSum / float64(agg.SentimentCount)
			event.SentimentScore = &avg
			event.SentimentLabel = dominantSentiment(agg)
		}

		evidence := buildEvidence(key, agg, now)
		event.EvidenceCount = len(evidence)
		event.WeightedEvidenceScore = sumContribution(evidence)
		evidenceByKey[key] = evidence

		events = append(events, event)
		if event.IsTrending {
			stats.TrendingCount++
		}
		if event.IsBreaking {
			stats.BreakingCount++
		}
	}

	if err := guard.CheckBudget(PhasePersist); err != nil {
		return events, failureStats(stats, started, PhasePersist), err
	}
	persister := NewPersister(e.store)
	clusterList := make([]*PhraseCluster, 0, len(clusters))
	for _, c := range clusters {
		clusterList = append(clusterList, c)
	}
	persistResult := persister.Persist(ctx, guard, events, evidenceByKey, clusterList, rollups)

	stats.EventsUpserted = persistResult.EventsUpserted
	stats.EvidenceCount = persistResult.EvidenceCount
	stats.ClustersCreated = persistResult.ClustersCreated
	stats.DurationMS = time.Since(started).Milliseconds()

	return events, stats, nil
}

func failureStats(stats RunStats, started time.Time, phase Phase) RunStats {
	stats.Phase = string(phase)
	stats.DurationMS = time.Since(started).Milliseconds()
	return stats
}

// clusterCanonicalFor finds the cluster (if any) that key belongs to.
// Clusters are keyed by their own canonical key, not by every member, so
// this does a short linear scan over the (typically small) cluster set.
func clusterCanonicalFor(clusters map[string]*PhraseCluster, key string) string {
	if _, ok := clusters[key]; ok {
		if _, isMember := clusters[key].MemberKeys[key]; isMember {
			return key
		}
	}
	for canonical, c := range clusters {
		if _, ok := c.MemberKeys[key]; ok {
			return canonical
		}
	}
	return ""
}

func countSince(deduped map[string]*Mention, now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	n := 0
	for _, m := range deduped {
		if !m.PublishedAt.Before(cutoff) {
			n++
		}
	}
	return n
}

// distinctDomainCount measures domain diversity for the quality gate using
// cache.UniqueValueCounter — one fresh counter per aggregate, a single
// bucket wide enough to span the whole run so nothing rolls off mid-count.
func distinctDomainCount(agg *TopicAggregate) int {
	counter := cache.NewUniqueValueCounter(24*time.Hour, 1)
	for _, m := range agg.Deduped {
		if m.PublisherDomain != "" {
			counter.Add(m.PublisherDomain)
		}
	}
	return counter.CountUnique()
}

// newsDomainCount is distinctDomainCount restricted to long-form
// article and aggregator mentions, excluding social posts — the
// narrower count the breaking-news paths gate on.
func newsDomainCount(agg *TopicAggregate) int {
	counter := cache.NewUniqueValueCounter(24*time.Hour, 1)
	for _, m := range agg.Deduped {
		if m.SourceFamily != SourceArticle && m.SourceFamily != SourceAggregator {
			continue
		}
		if m.PublisherDomain != "" {
			counter.Add(m.PublisherDomain)
		}
	}
	return counter.CountUnique()
}

func representativeHeadline(agg *TopicAggregate) string {
	var best *Mention
	for _, m := range agg.Deduped {
		if best == nil || m.PublishedAt.After(best.PublishedAt) {
			best = m
		}
	}
	if best == nil {
		return agg.Title
	}
	return best.Headline
}

// buildContext derives the four context-display fields from a topic's
// co-occurrence neighbors: entity-only neighbors become related
// entities, event-phrase neighbors become context phrases, and every
// neighbor key contributes a context term. Neighbors are ranked by
// co-occurrence count and capped at 5 per list to keep the persisted
// arrays bounded.
func buildContext(agg *TopicAggregate, topics map[string]*TopicAggregate) (relatedEntities, contextTerms, contextPhrases []string, summary string) {
	type neighbor struct {
		key   string
		title string
		count int
		event bool
	}
	neighbors := make([]neighbor, 0, len(agg.CoOccurrences))
	for key, count := range agg.CoOccurrences {
		other, ok := topics[key]
		if !ok {
			continue
		}
		neighbors = append(neighbors, neighbor{key: key, title: other.Title, count: count, event: other.IsEventPhrase})
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].count > neighbors[j].count })

	const maxPerList = 5
	for _, n := range neighbors {
		contextTerms = append(contextTerms, n.key)
		if len(contextTerms) >= maxPerList {
			break
		}
	}
	for _, n := range neighbors {
		if n.event {
			contextPhrases = append(contextPhrases, n.title)
		} else {
			relatedEntities = append(relatedEntities, n.title)
		}
		if len(contextPhrases) >= maxPerList && len(relatedEntities) >= maxPerList {
			break
		}
	}
	if len(contextPhrases) > 0 {
		summary = "Related: " + strings.Join(contextPhrases, ", ")
	} else if len(relatedEntities) > 0 {
		summary = "Related: " + strings.Join(relatedEntities, ", ")
	}
	return relatedEntities, contextTerms, contextPhrases, summary
}

func dominantSentiment(agg *TopicAggregate) SentimentLabel {
	counts := make(map[SentimentLabel]int)
	for _, m := range agg.Deduped {
		if m.SentimentLabel != "" {
			counts[m.SentimentLabel]++
		}
	}
	best := SentimentLabel("")
	bestCount := 0
	for label, c := range counts {
		if c > bestCount {
			best, bestCount = label, c
		}
	}
	return best
}

// tierWeight feeds evidence contribution scoring below.
func tierWeight(t Tier) float64 {
	switch t {
	case Tier1:
		return 3.0
	case Tier2:
		return 2.0
	default:
		return 1.0
	}
}

// buildEvidence selects up to 10 supporting mentions per event, ordered
// by authority tier then recency, and scores each one's contribution.
//
// No external contract names a contribution-score formula; this uses
// tier weight divided by (1 + ageHours/6), so a mention's contribution
// halves once it is 6 hours old. This is a different curve from the
// piecewise-linear RecencyDecay applied at the event level (recorded as
// an open decision in the design ledger).
func buildEvidence(eventKey string, agg *TopicAggregate, now time.Time) []Evidence {
	mentions := make([]*Mention, 0, len(agg.Deduped))
	for _, m := range agg.Deduped {
		mentions = append(mentions, m)
	}
	sort.Slice(mentions, func(i, j int) bool {
		wi, wj := tierWeight(mentions[i].Tier), tierWeight(mentions[j].Tier)
		if wi != wj {
			return wi > wj
		}
		return mentions[i].PublishedAt.After(mentions[j].PublishedAt)
	})
	if len(mentions) > 10 {
		mentions = mentions[:10]
	}

	out := make([]Evidence, 0, len(mentions))
	for i, m := range mentions {
		ageHours := math.Max(0, now.Sub(m.PublishedAt).Hours())
		score := round3(tierWeight(m.Tier) / (1 + ageHours/6))
		out = append(out, Evidence{
			EventKey:          eventKey,
			SourceType:        m.SourceFamily,
			SourceID:          m.ID,
			SourceURL:         m.CanonicalURL,
			SourceTitle:       m.Title,
			SourceDomain:      m.PublisherDomain,
			PublishedAt:       m.PublishedAt,
			ContributionScore: score,
			IsPrimary:         i == 0,
			CanonicalURL:      m.CanonicalURL,
			ContentHash:       m.ContentHash,
			SentimentScore:    m.SentimentScore,
			SentimentLabel:    m.SentimentLabel,
			SourceTier:        m.Tier,
		})
	}
	return out
}

func sumContribution(evidence []Evidence) float64 {
	var sum float64
	for _, e := range evidence {
		sum += e.ContributionScore
	}
	return round1(sum)
}

// dedupedSavings counts how many loaded mentions collapsed into fewer
// distinct content hashes across every source in one load, independent
// of per-topic aggregation (dedup-savings telemetry).
func dedupedSavings(loaded LoadResult) int {
	seen := make(map[string]struct{})
	total := 0
	for _, group := range [][]*Mention{loaded.Articles, loaded.Aggregator, loaded.Social} {
		for _, m := range group {
			total++
			seen[m.ContentHash] = struct{}{}
		}
	}
	return total - len(seen)
}
