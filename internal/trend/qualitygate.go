// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"strings"

	"github.com/trendline/detector/internal/cache"
)

const (
	singleWordMinDeduped       = 20
	singleWordMinDomains       = 3
	singleWordMinNewsMentions  = 3
	multiWordMinDeduped        = 3
	multiWordMinNewsDeduped24h = 5
)

// QualityGateResult is the outcome of gating one aggregate.
type QualityGateResult struct {
	Pass   bool
	Reason string // populated when Pass is false
	Note   string // populated for single-word survivors
}

// QualityGate applies blocklist rejection, headline-signal disqualification,
// the single-word corroboration bar, and the multi-word corroboration bar.
type QualityGate struct {
	headlineSignals *cache.HeadlineSignalDetector
}

// NewQualityGate constructs a gate with its headline-signal matcher built.
func NewQualityGate() *QualityGate {
	return &QualityGate{headlineSignals: cache.NewHeadlineSignalDetector()}
}

// Evaluate gates one aggregate. domainCount is the number of distinct
// publisher domains observed across the aggregate's deduped mentions.
func (g *QualityGate) Evaluate(agg *TopicAggregate, domainCount int) QualityGateResult {
	lowerKey := strings.ToLower(agg.Key)
	lowerTitle := strings.ToLower(agg.Title)

	if IsBlocklisted(lowerKey) || IsBlocklisted(lowerTitle) {
		return QualityGateResult{Pass: false, Reason: "blocklisted_generic"}
	}

	if g.headlineSignals.Disqualifying(lowerTitle) {
		return QualityGateResult{Pass: false, Reason: "opinion_or_listicle_headline"}
	}

	words := strings.Fields(lowerTitle)
	if len(words) > 1 && AllWordsBlocklisted(words) {
		return QualityGateResult{Pass: false, Reason: "all_words_blocklisted"}
	}

	newsMentions := agg.SourceDeduped[SourceArticle] + agg.SourceDeduped[SourceAggregator]
	hasTier12 := agg.TierDeduped[Tier1] > 0 || agg.TierDeduped[Tier2] > 0

	if len(words) == 1 {
		return g.evaluateSingleWord(agg, lowerKey, domainCount, newsMentions, hasTier12)
	}
	return g.evaluateMultiWord(agg, newsMentions)
}

func (g *QualityGate) evaluateSingleWord(agg *TopicAggregate, lowerKey string, domainCount, newsMentions int, hasTier12 bool) QualityGateResult {
	if agg.DedupedCount() < singleWordMinDeduped {
		return QualityGateResult{Pass: false, Reason: "single_word_low_volume"}
	}
	if domainCount < singleWordMinDomains {
		return QualityGateResult{Pass: false, Reason: "single_word_low_domain_diversity"}
	}
	if newsMentions < singleWordMinNewsMentions {
		return QualityGateResult{Pass: false, Reason: "single_word_low_news_mentions"}
	}
	if !hasTier12 && !IsAllowlistedAcronym(lowerKey) {
		return QualityGateResult{Pass: false, Reason: "single_word_no_tier12"}
	}
	return QualityGateResult{Pass: true, Note: "single_word_survivor"}
}

func (g *QualityGate) evaluateMultiWord(agg *TopicAggregate, newsMentions int) QualityGateResult {
	if agg.DedupedCount() < multiWordMinDeduped {
		return QualityGateResult{Pass: false, Reason: "multi_word_low_volume"}
	}
	sourceFamilies := countSourceFamilies(agg)
	if sourceFamilies >= 2 {
		return QualityGateResult{Pass: true}
	}
	current24h := agg.DedupedCount()
	if newsMentions >= 1 && current24h >= multiWordMinNewsDeduped24h {
		return QualityGateResult{Pass: true}
	}
	return QualityGateResult{Pass: false, Reason: "multi_word_insufficient_corroboration"}
}

func countSourceFamilies(agg *TopicAggregate) int {
	n := 0
	for _, c := range agg.SourceDeduped {
		if c > 0 {
			n++
		}
	}
	return n
}
