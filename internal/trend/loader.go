// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"context"
	"sort"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/trendline/detector/internal/cache"
	"github.com/trendline/detector/internal/logging"
)

const socialTitleTruncateLen = 200

// SocialSentinelDomain is the fixed publisher-domain value attached to
// every social mention.
const SocialSentinelDomain = "social"

// LoaderConfig holds the window and per-source caps.
type LoaderConfig struct {
	Window          time.Duration
	ArticleCap      int
	AggregatorCap   int
	SocialCap       int
	BreakerSettings gobreaker.Settings
}

// DefaultLoaderConfig returns the loader's tunable defaults.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Window:        24 * time.Hour,
		ArticleCap:    1000,
		AggregatorCap: 800,
		SocialCap:     2000,
		BreakerSettings: gobreaker.Settings{
			Name:        "mention-source",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		},
	}
}

// Loader implements the Mention Loader: it queries each
// source family independently, behind its own circuit breaker, and
// enforces the per-source newest-N cap via a timestamp-ordered heap so
// a source whose query returns more than its cap still yields exactly
// the newest entries.
type Loader struct {
	cfg       LoaderConfig
	articles  ArticleReader
	aggregate AggregatorReader
	social    SocialReader

	ingestRate *cache.SlidingWindowCounter
}

// NewLoader builds a loader over the three source readers.
//
// ingestRate tracks mentions-loaded-per-minute during the loader phase
// purely for structured logging (ingest_rate_per_min); it is read once at
// the end of Load and never influences scoring, which is why
// internal/cache.SlidingWindowCounter's time.Now()-driven bucket
// advance is a good fit here even though it is a poor fit for the
// deterministic historical replay baseline.go needs (see baseline.go).
func NewLoader(cfg LoaderConfig, articles ArticleReader, aggregate AggregatorReader, social SocialReader) *Loader {
	return &Loader{
		cfg:        cfg,
		articles:   articles,
		aggregate:  aggregate,
		social:     social,
		ingestRate: cache.NewSlidingWindowCounter(time.Minute, 12),
	}
}

// LoadResult is the three ordered mention streams produced by one load.
type LoadResult struct {
	Articles   []*Mention
	Aggregator []*Mention
	Social     []*Mention
}

// Load runs all three source queries. A per-source failure is logged
// and that source yields zero mentions; the pipeline proceeds with the
// remaining sources (failure semantics).
func (l *Loader) Load(ctx context.Context, tiers *TierResolver) LoadResult {
	since := time.Now().Add(-l.cfg.Window)
	var res LoadResult

	res.Articles = l.loadArticles(ctx, since, tiers)
	res.Aggregator = l.loadAggregator(ctx, since, tiers)
	res.Social = l.loadSocial(ctx, since)

	total := len(res.Articles) + len(res.Aggregator) + len(res.Social)
	l.ingestRate.Increment(int64(total))
	logging.Info().
		Int("articles", len(res.Articles)).
		Int("aggregator", len(res.Aggregator)).
		Int("social", len(res.Social)).
		Int64("ingest_rate_per_min", l.ingestRate.Count()).
		Msg("mention load complete")

	return res
}

func (l *Loader) loadArticles(ctx context.Context, since time.Time, tiers *TierResolver) []*Mention {
	cb := gobreaker.NewCircuitBreaker[[]ArticleRow](withBreakerName(l.cfg.BreakerSettings, "articles"))
	rows, err := cb.Execute(func() ([]ArticleRow, error) {
		return l.articles.LoadArticles(ctx, since, l.cfg.ArticleCap)
	})
	if err != nil {
		logging.Error().Err(err).Str("source", "articles").Msg("mention source query failed")
		return nil
	}
	return capByRecency(articleMentions(rows, tiers), l.cfg.ArticleCap)
}

func (l *Loader) loadAggregator(ctx context.Context, since time.Time, tiers *TierResolver) []*Mention {
	cb := gobreaker.NewCircuitBreaker[[]AggregatorRow](withBreakerName(l.cfg.BreakerSettings, "aggregator"))
	rows, err := cb.Execute(func() ([]AggregatorRow, error) {
		return l.aggregate.LoadAggregatorItems(ctx, since, l.cfg.AggregatorCap)
	})
	if err != nil {
		logging.Error().Err(err).Str("source", "aggregator").Msg("mention source query failed")
		return nil
	}
	return capByRecency(aggregatorMentions(rows, tiers), l.cfg.AggregatorCap)
}

func (l *Loader) loadSocial(ctx context.Context, since time.Time) []*Mention {
	cb := gobreaker.NewCircuitBreaker[[]SocialRow](withBreakerName(l.cfg.BreakerSettings, "social"))
	rows, err := cb.Execute(func() ([]SocialRow, error) {
		return l.social.LoadSocialPosts(ctx, since, l.cfg.SocialCap)
	})
	if err != nil {
		logging.Error().Err(err).Str("source", "social").Msg("mention source query failed")
		return nil
	}
	return capByRecency(socialMentions(rows), l.cfg.SocialCap)
}

func withBreakerName(s gobreaker.Settings, name string) gobreaker.Settings {
	s.Name = name
	return s
}

// capByRecency enforces the per-source newest-N cap using a
// timestamp-ordered MinHeap: every mention is pushed, and once the heap
// exceeds cap the oldest entry is evicted, leaving exactly the newest
// cap mentions in O(n log cap) regardless of input order.
func capByRecency(mentions []*Mention, limit int) []*Mention {
	if limit <= 0 || len(mentions) <= limit {
		return mentions
	}
	h := cache.NewMinHeap[*Mention](limit)
	for _, m := range mentions {
		h.Push(m.ID, m, m.PublishedAt)
	}
	all := h.All()
	out := make([]*Mention, 0, len(all))
	for _, entry := range all {
		out = append(out, entry.Value)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out
}

// articleMentions converts raw article rows into Mentions, applying
// the extracted_topics-vs-tags precedence and content-hash computation
//. Rows missing a timestamp or a topic list are
// skipped.
func articleMentions(rows []ArticleRow, tiers *TierResolver) []*Mention {
	out := make([]*Mention, 0, len(rows))
	for _, r := range rows {
		if r.PublishedAt.IsZero() {
			continue
		}
		topics := resolveTopicSource(r.ExtractedTopics, r.Tags)
		if topics == nil {
			continue
		}
		canonicalURL := NormalizeURL(r.CanonicalURL)
		out = append(out, &Mention{
			ID:              r.ID,
			Title:           r.Title,
			SourceFamily:    SourceArticle,
			PublishedAt:     r.PublishedAt,
			PublisherDomain: r.PublisherDomain,
			Tier:            tiers.Resolve(SourceArticle, r.PublisherDomain),
			SentimentScore:  r.SentimentScore,
			SentimentLabel:  r.SentimentLabel,
			Topics:          topics,
			Headline:        headlineOr(r.Headline, r.Title),
			ContentHash:     ContentHashArticle(r.Title, canonicalURL, r.PublishedAt),
			CanonicalURL:    canonicalURL,
		})
	}
	return out
}

// aggregatorMentions converts aggregator rows, taking the publisher
// domain from the canonical URL (the original publisher) rather than
// the aggregator's own redirect host, so mentions don't collapse under
// the aggregator's domain.
func aggregatorMentions(rows []AggregatorRow, tiers *TierResolver) []*Mention {
	out := make([]*Mention, 0, len(rows))
	for _, r := range rows {
		if r.PublishedAt.IsZero() {
			continue
		}
		topics := resolveTopicSource(r.ExtractedTopics, r.Tags)
		if topics == nil {
			continue
		}
		canonicalURL := NormalizeURL(r.CanonicalURL)
		domain := domainFromURL(canonicalURL)
		if domain == "" {
			domain = r.RedirectHost
		}
		out = append(out, &Mention{
			ID:              r.ID,
			Title:           r.Title,
			SourceFamily:    SourceAggregator,
			PublishedAt:     r.PublishedAt,
			PublisherDomain: domain,
			Tier:            tiers.Resolve(SourceAggregator, domain),
			SentimentScore:  r.SentimentScore,
			SentimentLabel:  r.SentimentLabel,
			Topics:          topics,
			Headline:        headlineOr(r.Headline, r.Title),
			ContentHash:     ContentHashArticle(r.Title, canonicalURL, r.PublishedAt),
			CanonicalURL:    canonicalURL,
		})
	}
	return out
}

// socialMentions converts social rows, truncating text to 200
// characters and fixing domain/tier .
func socialMentions(rows []SocialRow) []*Mention {
	out := make([]*Mention, 0, len(rows))
	for _, r := range rows {
		if r.PublishedAt.IsZero() || len(r.Topics) == 0 {
			continue
		}
		text := r.Text
		if len(text) > socialTitleTruncateLen {
			text = text[:socialTitleTruncateLen]
		}
		out = append(out, &Mention{
			ID:              r.ID,
			Title:           text,
			SourceFamily:    SourceSocial,
			PublishedAt:     r.PublishedAt,
			PublisherDomain: SocialSentinelDomain,
			Tier:            Tier3,
			SentimentScore:  r.SentimentScore,
			SentimentLabel:  r.SentimentLabel,
			Topics:          r.Topics,
			Headline:        text,
			ContentHash:     ContentHashSocial(r.Text),
		})
	}
	return out
}

// resolveTopicSource implements the extracted_topics-vs-tags precedence
// decided for the open question : extracted_topics is
// preferred whenever the field is present at all, including an empty
// slice — an explicitly-empty extraction means "the extractor ran and
// found nothing," which is not the same as "the extractor never ran."
// tags is consulted only when extracted_topics is nil (absent).
// Returns nil (causing the row to be skipped) if the resulting topic
// list is empty, per "missing topic list -> skip item."
func resolveTopicSource(extracted []RawTopic, tags []string) []RawTopic {
	if extracted != nil {
		if len(extracted) == 0 {
			return nil
		}
		return extracted
	}
	if len(tags) == 0 {
		return nil
	}
	out := make([]RawTopic, 0, len(tags))
	for _, t := range tags {
		out = append(out, RawTopic{Text: t})
	}
	return out
}

func headlineOr(headline, fallback string) string {
	if strings.TrimSpace(headline) != "" {
		return headline
	}
	return fallback
}

func domainFromURL(u string) string {
	idx := strings.Index(u, "://")
	if idx == -1 {
		return ""
	}
	rest := u[idx+3:]
	if slash := strings.Index(rest, "/"); slash != -1 {
		rest = rest[:slash]
	}
	return rest
}
