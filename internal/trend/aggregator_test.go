// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregatorForTest() *Aggregator {
	return NewAggregator(NewAliasResolver(nil), NewEventPhraseDetector())
}

func ptrFloat(f float64) *float64 { return &f }

func TestAggregator_CreatesNewTopicOnFirstSight(t *testing.T) {
	a := newAggregatorForTest()
	published := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)

	m := &Mention{
		ID:           "m1",
		Title:        "Hurricane Milton",
		SourceFamily: SourceArticle,
		PublishedAt:  published,
		Tier:         Tier1,
		ContentHash:  "hash1",
		Topics:       []RawTopic{{Text: "Hurricane Milton"}},
	}
	a.AddMention(m)

	topics := a.Topics()
	require.Len(t, topics, 1)
	agg, ok := topics["hurricane_milton"]
	require.True(t, ok)
	assert.Equal(t, "Hurricane Milton", agg.Title)
	assert.Equal(t, 1, agg.RawCount())
	assert.Equal(t, 1, agg.DedupedCount())
	assert.Equal(t, published, agg.FirstSeen)
	assert.Equal(t, published, agg.LastSeen)
}

func TestAggregator_IsEventPhraseDerivedFromClaimWhenHintSet(t *testing.T) {
	a := newAggregatorForTest()
	m := &Mention{
		Title:        "Milton",
		SourceFamily: SourceArticle,
		PublishedAt:  time.Now().UTC(),
		ContentHash:  "hash1",
		Topics: []RawTopic{{
			Text:               "Milton",
			LabelQualityHint:   LabelEventPhrase,
			IsEventPhraseClaim: true,
		}},
	}
	a.AddMention(m)

	agg := a.Topics()["milton"]
	require.NotNil(t, agg)
	assert.True(t, agg.IsEventPhrase)
}

func TestAggregator_IsEventPhraseDerivedFromDetectorWhenNoHint(t *testing.T) {
	a := newAggregatorForTest()
	m := &Mention{
		Title:        "Senate Passes Budget Bill",
		SourceFamily: SourceArticle,
		PublishedAt:  time.Now().UTC(),
		ContentHash:  "hash1",
		Topics:       []RawTopic{{Text: "Senate Passes Budget Bill"}},
	}
	a.AddMention(m)

	agg := a.Topics()["senate_passes_budget_bill"]
	require.NotNil(t, agg)
	assert.True(t, agg.IsEventPhrase)
}

func TestAggregator_AliasSkipDropsTopic(t *testing.T) {
	a := newAggregatorForTest()
	m := &Mention{
		Title:        "",
		SourceFamily: SourceArticle,
		PublishedAt:  time.Now().UTC(),
		ContentHash:  "hash1",
		Topics:       []RawTopic{{Text: "   "}},
	}
	a.AddMention(m)

	assert.Len(t, a.Topics(), 0)
}

func TestAggregator_ShortKeyDropsTopic(t *testing.T) {
	a := newAggregatorForTest()
	m := &Mention{
		Title:        "A",
		SourceFamily: SourceArticle,
		PublishedAt:  time.Now().UTC(),
		ContentHash:  "hash1",
		Topics:       []RawTopic{{Text: "A"}},
	}
	a.AddMention(m)

	assert.Len(t, a.Topics(), 0)
}

func TestAggregator_DuplicateContentHashDoesNotDoubleCountDeduped(t *testing.T) {
	a := newAggregatorForTest()
	base := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)

	first := &Mention{
		Title:        "Hurricane Milton",
		SourceFamily: SourceArticle,
		PublishedAt:  base,
		Tier:         Tier1,
		ContentHash:  "dup-hash",
		Topics:       []RawTopic{{Text: "Hurricane Milton"}},
	}
	second := &Mention{
		Title:        "Hurricane Milton",
		SourceFamily: SourceArticle,
		PublishedAt:  base.Add(time.Hour),
		Tier:         Tier1,
		ContentHash:  "dup-hash",
		Topics:       []RawTopic{{Text: "Hurricane Milton"}},
	}
	a.AddMention(first)
	a.AddMention(second)

	agg := a.Topics()["hurricane_milton"]
	require.NotNil(t, agg)
	assert.Equal(t, 2, agg.RawCount())
	assert.Equal(t, 1, agg.DedupedCount())
	assert.Equal(t, 2, agg.SourceRaw[SourceArticle])
	assert.Equal(t, 1, agg.SourceDeduped[SourceArticle])
	assert.Equal(t, 1, agg.TierDeduped[Tier1])
}

func TestAggregator_MissingTierDefaultsToTier3InDeduped(t *testing.T) {
	a := newAggregatorForTest()
	m := &Mention{
		Title:        "Hurricane Milton",
		SourceFamily: SourceSocial,
		PublishedAt:  time.Now().UTC(),
		ContentHash:  "hash1",
		Topics:       []RawTopic{{Text: "Hurricane Milton"}},
	}
	a.AddMention(m)

	agg := a.Topics()["hurricane_milton"]
	require.NotNil(t, agg)
	assert.Equal(t, 1, agg.TierDeduped[Tier3])
}

func TestAggregator_FirstSeenAndLastSeenTrackMinMax(t *testing.T) {
	a := newAggregatorForTest()
	mid := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	early := mid.Add(-2 * time.Hour)
	late := mid.Add(3 * time.Hour)

	a.AddMention(&Mention{Title: "Hurricane Milton", SourceFamily: SourceArticle, PublishedAt: mid, ContentHash: "h1", Topics: []RawTopic{{Text: "Hurricane Milton"}}})
	a.AddMention(&Mention{Title: "Hurricane Milton", SourceFamily: SourceArticle, PublishedAt: late, ContentHash: "h2", Topics: []RawTopic{{Text: "Hurricane Milton"}}})
	a.AddMention(&Mention{Title: "Hurricane Milton", SourceFamily: SourceArticle, PublishedAt: early, ContentHash: "h3", Topics: []RawTopic{{Text: "Hurricane Milton"}}})

	agg := a.Topics()["hurricane_milton"]
	require.NotNil(t, agg)
	assert.Equal(t, early, agg.FirstSeen)
	assert.Equal(t, late, agg.LastSeen)
}

func TestAggregator_SentimentAccumulatesOnlyWhenPresent(t *testing.T) {
	a := newAggregatorForTest()
	now := time.Now().UTC()

	a.AddMention(&Mention{Title: "Hurricane Milton", SourceFamily: SourceArticle, PublishedAt: now, ContentHash: "h1", SentimentScore: ptrFloat(0.5), Topics: []RawTopic{{Text: "Hurricane Milton"}}})
	a.AddMention(&Mention{Title: "Hurricane Milton", SourceFamily: SourceArticle, PublishedAt: now, ContentHash: "h2", SentimentScore: ptrFloat(-0.5), Topics: []RawTopic{{Text: "Hurricane Milton"}}})
	a.AddMention(&Mention{Title: "Hurricane Milton", SourceFamily: SourceArticle, PublishedAt: now, ContentHash: "h3", Topics: []RawTopic{{Text: "Hurricane Milton"}}})

	agg := a.Topics()["hurricane_milton"]
	require.NotNil(t, agg)
	assert.Equal(t, 2, agg.SentimentCount)
	assert.InDelta(t, 0.0, agg.SentimentSum, 0.0001)
}

func TestAggregator_TracksSymmetricCoOccurrenceAcrossTopicsOnSameMention(t *testing.T) {
	a := newAggregatorForTest()
	m := &Mention{
		Title:        "Hurricane Milton Makes Landfall In Florida",
		SourceFamily: SourceArticle,
		PublishedAt:  time.Now().UTC(),
		ContentHash:  "h1",
		Topics: []RawTopic{
			{Text: "Hurricane Milton"},
			{Text: "Florida"},
		},
	}
	a.AddMention(m)

	milton := a.Topics()["hurricane_milton"]
	florida := a.Topics()["florida"]
	require.NotNil(t, milton)
	require.NotNil(t, florida)

	assert.Equal(t, 1, milton.CoOccurrences["florida"])
	assert.Equal(t, 1, florida.CoOccurrences["hurricane_milton"])
}

func TestAggregator_CoOccurrenceNotRecordedForSingleTopicMention(t *testing.T) {
	a := newAggregatorForTest()
	m := &Mention{
		Title:        "Hurricane Milton",
		SourceFamily: SourceArticle,
		PublishedAt:  time.Now().UTC(),
		ContentHash:  "h1",
		Topics:       []RawTopic{{Text: "Hurricane Milton"}},
	}
	a.AddMention(m)

	agg := a.Topics()["hurricane_milton"]
	require.NotNil(t, agg)
	assert.Len(t, agg.CoOccurrences, 0)
}
