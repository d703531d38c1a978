// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"math"
	"strings"
)

const (
	embeddingSimilarityThreshold = 0.82
	textSimilarityThreshold      = 0.70
	eventPhraseAuthorityBonus    = 100.0
)

// PriorEmbedding is one indexed embedding loaded from a recent prior
// trend event, used as a pass-1 clustering anchor.
type PriorEmbedding struct {
	Key       string
	Embedding []float64
}

// Clusterer groups topic keys whose meanings coincide, first by
// embedding cosine similarity against recent prior events, then by
// text similarity for leftovers.
type Clusterer struct {
	detector *EventPhraseDetector
	index    []PriorEmbedding
}

// NewClusterer builds a clusterer over the prior-event embedding index
// (already capped to the configured max-prior-events by the caller).
func NewClusterer(detector *EventPhraseDetector, index []PriorEmbedding) *Clusterer {
	return &Clusterer{detector: detector, index: index}
}

// Cluster produces one PhraseCluster per equivalence class over the
// supplied aggregates, keyed by each member's canonical key.
//
// topicEmbeddings optionally supplies a freshly computed embedding for
// a topic key (when the upstream extractor attaches one); topics absent
// from the map participate only in the text-similarity pass.
func (c *Clusterer) Cluster(topics map[string]*TopicAggregate, topicEmbeddings map[string][]float64) map[string]*PhraseCluster {
	clusters := make(map[string]*PhraseCluster)
	memberOf := make(map[string]string) // topic key -> cluster canonical key
	unclustered := make([]string, 0, len(topics))

	for key := range topics {
		unclustered = append(unclustered, key)
	}

	// Pass 1: embedding cosine similarity against the prior-event index.
	remaining := unclustered[:0]
	for _, key := range unclustered {
		emb, ok := topicEmbeddings[key]
		if !ok || len(emb) == 0 {
			remaining = append(remaining, key)
			continue
		}
		bestKey, bestSim := "", -1.0
		for _, pe := range c.index {
			sim := cosineSimilarity(emb, pe.Embedding)
			if sim > bestSim {
				bestSim, bestKey = sim, pe.Key
			}
		}
		if bestSim >= embeddingSimilarityThreshold && bestKey != "" {
			c.join(clusters, memberOf, topics, bestKey, key)
		} else {
			remaining = append(remaining, key)
		}
	}

	// Pass 2: text similarity for leftovers.
	for _, key := range remaining {
		if _, already := memberOf[key]; already {
			continue
		}
		agg := topics[key]
		bestCanonical, bestSim := "", -1.0
		for canonical := range clusters {
			sim := textSimilarity(agg.Title, clusters[canonical].CanonicalTitle)
			if sim > bestSim {
				bestSim, bestCanonical = sim, canonical
			}
		}
		for _, other := range remaining {
			if other == key {
				continue
			}
			if _, already := memberOf[other]; already {
				continue
			}
			otherAgg := topics[other]
			sim := textSimilarity(agg.Title, otherAgg.Title)
			if sim > bestSim {
				bestSim, bestCanonical = sim, other
			}
		}
		if bestSim >= textSimilarityThreshold && bestCanonical != "" {
			c.join(clusters, memberOf, topics, bestCanonical, key)
		} else {
			c.newSingleton(clusters, memberOf, topics, key)
		}
	}

	c.enforceEventPhraseSafetyNet(clusters, topics)
	return clusters
}

func (c *Clusterer) newSingleton(clusters map[string]*PhraseCluster, memberOf map[string]string, topics map[string]*TopicAggregate, key string) {
	if _, exists := clusters[key]; exists {
		memberOf[key] = key
		return
	}
	agg := topics[key]
	clusters[key] = NewPhraseCluster(key, agg.Title, agg.IsEventPhrase, authorityWithBonus(agg), agg.DedupedCount())
	memberOf[key] = key
}

// join adds key's aggregate into the cluster rooted at canonicalKey,
// creating the cluster if it does not yet exist (canonicalKey may
// itself be an as-yet-unclustered topic key from the same batch).
func (c *Clusterer) join(clusters map[string]*PhraseCluster, memberOf map[string]string, topics map[string]*TopicAggregate, canonicalKey, joiningKey string) {
	cl, exists := clusters[canonicalKey]
	if !exists {
		if anchor, ok := topics[canonicalKey]; ok {
			cl = NewPhraseCluster(canonicalKey, anchor.Title, anchor.IsEventPhrase, authorityWithBonus(anchor), anchor.DedupedCount())
		} else {
			// anchor is a prior-run key with no aggregate in this batch;
			// seed a cluster using the joining topic until a stronger
			// member supersedes it below.
			joining := topics[joiningKey]
			cl = NewPhraseCluster(canonicalKey, joining.Title, joining.IsEventPhrase, authorityWithBonus(joining), 0)
		}
		clusters[canonicalKey] = cl
		memberOf[canonicalKey] = canonicalKey
	}

	joining := topics[joiningKey]
	cl.MemberKeys[joiningKey] = struct{}{}
	cl.MemberTitles[joining.Title] = struct{}{}
	cl.TotalDeduped += joining.DedupedCount()
	memberOf[joiningKey] = canonicalKey

	joinAuthority := authorityWithBonus(joining)
	if joinAuthority > cl.TopAuthority {
		cl.TopAuthority = joinAuthority
		cl.CanonicalKey = joiningKey
		cl.CanonicalTitle = joining.Title
		cl.CanonicalIsEventPhrase = joining.IsEventPhrase
	}
}

// enforceEventPhraseSafetyNet implements a safety net: if a
// cluster's elected canonical is not an event phrase but some validated
// member is, override the canonical to that member.
func (c *Clusterer) enforceEventPhraseSafetyNet(clusters map[string]*PhraseCluster, topics map[string]*TopicAggregate) {
	for _, cl := range clusters {
		if cl.CanonicalIsEventPhrase {
			continue
		}
		for memberKey := range cl.MemberKeys {
			member, ok := topics[memberKey]
			if !ok || !member.IsEventPhrase {
				continue
			}
			if !c.detector.IsEventPhrase(member.Title) {
				continue
			}
			cl.CanonicalKey = memberKey
			cl.CanonicalTitle = member.Title
			cl.CanonicalIsEventPhrase = true
			break
		}
	}
}

// authorityWithBonus adds the fixed event-phrase bonus to an
// aggregate's authority score so event phrases dominate canonical
// election at equal volume.
func authorityWithBonus(agg *TopicAggregate) float64 {
	score := agg.AuthorityScore
	if agg.IsEventPhrase {
		score += eventPhraseAuthorityBonus
	}
	return score
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return -1
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return -1
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// textSimilarity implements the clusterer's pass 2: 1.0 on equality, 0.85
// if one title contains the other, else Jaccard over words length > 2.
func textSimilarity(a, b string) float64 {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == lb {
		return 1.0
	}
	if la == "" || lb == "" {
		return 0
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return 0.85
	}
	return jaccardWords(la, lb)
}

func jaccardWords(a, b string) float64 {
	setA := significantWordSet(a)
	setB := significantWordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func significantWordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, w := range fields {
		if len(w) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}
