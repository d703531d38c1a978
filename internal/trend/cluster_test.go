// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity_IdenticalVectors(t *testing.T) {
	v := []float64{1, 2, 3}
	assert.InDelta(t, 1.0, cosineSimilarity(v, v), 0.0001)
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	assert.InDelta(t, 0.0, cosineSimilarity([]float64{1, 0}, []float64{0, 1}), 0.0001)
}

func TestCosineSimilarity_MismatchedLengthReturnsSentinel(t *testing.T) {
	assert.Equal(t, -1.0, cosineSimilarity([]float64{1, 2}, []float64{1}))
}

func TestTextSimilarity_ExactMatch(t *testing.T) {
	assert.Equal(t, 1.0, textSimilarity("Hurricane Milton", "hurricane milton"))
}

func TestTextSimilarity_SubstringMatch(t *testing.T) {
	assert.Equal(t, 0.85, textSimilarity("Hurricane Milton", "Hurricane Milton Makes Landfall"))
}

func TestTextSimilarity_JaccardFallback(t *testing.T) {
	sim := textSimilarity("Senate Passes Budget Bill", "House Passes Budget Resolution")
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 0.85)
}

func TestTextSimilarity_EmptyStringsYieldZero(t *testing.T) {
	assert.Equal(t, 0.0, textSimilarity("", "anything"))
}

func TestJaccardWords_IgnoresShortWords(t *testing.T) {
	sim := jaccardWords("a of senate bill", "senate bill")
	assert.InDelta(t, 1.0, sim, 0.0001)
}

func clusterTestAggregate(key, title string, isEventPhrase bool, authority float64, deduped int) *TopicAggregate {
	return &TopicAggregate{
		Key:            key,
		Title:          title,
		IsEventPhrase:  isEventPhrase,
		AuthorityScore: authority,
		Deduped:        dedupedOfSize(deduped),
	}
}

func TestClusterer_GroupsBySimilarTitle(t *testing.T) {
	detector := NewEventPhraseDetector()
	c := NewClusterer(detector, nil)

	topics := map[string]*TopicAggregate{
		"hurricane_milton":        clusterTestAggregate("hurricane_milton", "Hurricane Milton", false, 10, 5),
		"hurricane_milton_strike": clusterTestAggregate("hurricane_milton_strike", "Hurricane Milton Makes Landfall", false, 20, 8),
		"unrelated_topic":         clusterTestAggregate("unrelated_topic", "Unrelated Topic", false, 5, 3),
	}

	clusters := c.Cluster(topics, nil)

	var merged *PhraseCluster
	for _, cl := range clusters {
		if _, ok := cl.MemberKeys["hurricane_milton"]; ok {
			merged = cl
		}
	}
	if assert.NotNil(t, merged) {
		assert.Contains(t, merged.MemberKeys, "hurricane_milton_strike")
		assert.Equal(t, "hurricane_milton_strike", merged.CanonicalKey)
	}
}

func TestClusterer_UnrelatedTopicsStaySingletons(t *testing.T) {
	detector := NewEventPhraseDetector()
	c := NewClusterer(detector, nil)

	topics := map[string]*TopicAggregate{
		"topic_a": clusterTestAggregate("topic_a", "Completely Different Story", false, 10, 5),
		"topic_b": clusterTestAggregate("topic_b", "Another Unrelated Matter", false, 10, 5),
	}

	clusters := c.Cluster(topics, nil)
	assert.Len(t, clusters, 2)
}

func TestClusterer_EventPhraseSafetyNetPromotesMemberCanonical(t *testing.T) {
	detector := NewEventPhraseDetector()
	c := NewClusterer(detector, nil)

	topics := map[string]*TopicAggregate{
		"milton":             clusterTestAggregate("milton", "Milton", false, 50, 20),
		"milton_makes_landfall": clusterTestAggregate("milton_makes_landfall", "Milton Makes Landfall", true, 1, 1),
	}
	// Force the low-authority event phrase to merge into the high-authority entity.
	topics["milton_makes_landfall"].Title = "Milton Makes Landfall"

	clusters := c.Cluster(topics, nil)
	assert.Len(t, clusters, 1)
	for _, cl := range clusters {
		assert.True(t, cl.CanonicalIsEventPhrase)
	}
}

func TestClusterer_EmbeddingSimilarityJoinsPriorEvent(t *testing.T) {
	detector := NewEventPhraseDetector()
	index := []PriorEmbedding{{Key: "prior_event", Embedding: []float64{1, 0, 0}}}
	c := NewClusterer(detector, index)

	topics := map[string]*TopicAggregate{
		"fresh_topic": clusterTestAggregate("fresh_topic", "Fresh Topic", false, 10, 5),
	}
	embeddings := map[string][]float64{"fresh_topic": {1, 0, 0}}

	clusters := c.Cluster(topics, embeddings)

	cl, ok := clusters["prior_event"]
	if assert.True(t, ok) {
		assert.Contains(t, cl.MemberKeys, "fresh_topic")
	}
}
