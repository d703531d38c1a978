// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

// Package cache provides high-performance data structures for caching,
// deduplication, and alias/pattern lookup used by the detection pipeline.
package cache

import (
	"strings"
	"sync"
)

// AhoCorasick implements the Aho-Corasick string matching algorithm.
// It efficiently finds all occurrences of multiple patterns in a text
// in O(n + m + z) time, where:
//   - n = length of text
//   - m = total length of all patterns
//   - z = number of matches
//
// This is much faster than checking each pattern individually (O(n * numPatterns)).
//
// Use cases:
//   - Event-phrase detection: match a candidate label against the fixed
//     action-verb and event-noun lists in one pass over the text
//   - Headline signal detection: flag opinion/listicle/clickbait markers
//     in a headline before it's allowed to seed a trending event
//   - Alias scanning: find any known surface form occurring inside a
//     longer string without scanning the alias table word by word
//
// Example:
//
//	ac := NewAhoCorasick()
//	ac.AddPattern("passes", "verb")
//	ac.AddPattern("indicted", "verb")
//	ac.AddPattern("ruling", "noun")
//	ac.Build()
//
//	matches := ac.Search("Senate Passes Budget Bill")
//	// matches contains Match{Pattern: "passes", Data: "verb", Position: 7}
type AhoCorasick struct {
	mu            sync.RWMutex
	root          *acNode
	patterns      []Pattern
	built         bool
	caseSensitive bool
}

// acNode represents a node in the Aho-Corasick automaton.
type acNode struct {
	children map[rune]*acNode
	failure  *acNode // Failure link for when match fails
	output   []int   // Indices of patterns that end at this node
	depth    int     // Depth from root
}

// Pattern represents a search pattern with associated data.
type Pattern struct {
	Text string // The pattern text
	Data any    // Optional associated data (e.g., category, severity)
}

// Match represents a pattern match in the text.
type Match struct {
	Pattern  string // The matched pattern
	Data     any    // Associated data from the pattern
	Position int    // Start position in the text
}

// NewAhoCorasick creates a new Aho-Corasick automaton.
// By default, matching is case-insensitive.
func NewAhoCorasick() *AhoCorasick {
	return &AhoCorasick{
		root:          newACNode(0),
		caseSensitive: false,
	}
}

// NewAhoCorasickCaseSensitive creates a case-sensitive automaton.
func NewAhoCorasickCaseSensitive() *AhoCorasick {
	return &AhoCorasick{
		root:          newACNode(0),
		caseSensitive: true,
	}
}

// newACNode creates a new automaton node.
func newACNode(depth int) *acNode {
	return &acNode{
		children: make(map[rune]*acNode),
		output:   make([]int, 0),
		depth:    depth,
	}
}

// AddPattern adds a pattern to the automaton.
// Must be called before Build().
func (ac *AhoCorasick) AddPattern(pattern string, data any) {
	if pattern == "" {
		return
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ac.built {
		ac.built = false // Need to rebuild
	}

	ac.patterns = append(ac.patterns, Pattern{Text: pattern, Data: data})
}

// AddPatterns adds multiple patterns at once.
func (ac *AhoCorasick) AddPatterns(patterns []string, data any) {
	for _, p := range patterns {
		ac.AddPattern(p, data)
	}
}

// Build constructs the automaton. Must be called after adding patterns
// and before searching.
func (ac *AhoCorasick) Build() {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ac.built {
		return
	}

	// Reset the trie
	ac.root = newACNode(0)

	// Build the trie from patterns
	for i, p := range ac.patterns {
		ac.insertPattern(i, p.Text)
	}

	// Build failure links using BFS
	ac.buildFailureLinks()

	ac.built = true
}

// insertPattern inserts a pattern into the trie.
func (ac *AhoCorasick) insertPattern(index int, pattern string) {
	node := ac.root

	text := pattern
	if !ac.caseSensitive {
		text = strings.ToLower(pattern)
	}

	for _, ch := range text {
		if node.children[ch] == nil {
			node.children[ch] = newACNode(node.depth + 1)
		}
		node = node.children[ch]
	}

	node.output = append(node.output, index)
}

// buildFailureLinks builds failure links using BFS.
func (ac *AhoCorasick) buildFailureLinks() {
	// Root's children fail to root
	queue := make([]*acNode, 0)
	for _, child := range ac.root.children {
		child.failure = ac.root
		queue = append(queue, child)
	}

	// BFS to build failure links
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			// Follow failure links to find longest proper suffix
			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}

			if fail == nil {
				child.failure = ac.root
			} else {
				child.failure = fail.children[ch]
				// Merge output from failure link
				child.output = append(child.output, child.failure.output...)
			}
		}
	}
}

// Search finds all pattern matches in the text.
// Returns all matches with their positions.
func (ac *AhoCorasick) Search(text string) []Match {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	if !ac.built || len(ac.patterns) == 0 {
		return nil
	}

	searchText := text
	if !ac.caseSensitive {
		searchText = strings.ToLower(text)
	}

	var matches []Match
	node := ac.root

	for i, ch := range searchText {
		// Follow failure links until we find a match or reach root
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}

		if node == nil {
			node = ac.root
			continue
		}

		node = node.children[ch]

		// Collect all patterns that match at this position
		for _, patternIdx := range node.output {
			pattern := ac.patterns[patternIdx]
			matches = append(matches, Match{
				Pattern:  pattern.Text,
				Data:     pattern.Data,
				Position: i - len(pattern.Text) + 1,
			})
		}
	}

	return matches
}

// SearchFirst finds the first pattern match in the text.
// More efficient than Search when you only need one match.
func (ac *AhoCorasick) SearchFirst(text string) (Match, bool) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	if !ac.built || len(ac.patterns) == 0 {
		return Match{}, false
	}

	searchText := text
	if !ac.caseSensitive {
		searchText = strings.ToLower(text)
	}

	node := ac.root

	for i, ch := range searchText {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}

		if node == nil {
			node = ac.root
			continue
		}

		node = node.children[ch]

		if len(node.output) > 0 {
			patternIdx := node.output[0]
			pattern := ac.patterns[patternIdx]
			return Match{
				Pattern:  pattern.Text,
				Data:     pattern.Data,
				Position: i - len(pattern.Text) + 1,
			}, true
		}
	}

	return Match{}, false
}

// Contains checks if any pattern matches in the text.
// Most efficient when you only need a boolean result.
func (ac *AhoCorasick) Contains(text string) bool {
	_, found := ac.SearchFirst(text)
	return found
}

// MatchCount returns the number of pattern matches in the text.
func (ac *AhoCorasick) MatchCount(text string) int {
	matches := ac.Search(text)
	return len(matches)
}

// PatternCount returns the number of patterns in the automaton.
func (ac *AhoCorasick) PatternCount() int {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return len(ac.patterns)
}

// Clear removes all patterns and resets the automaton.
func (ac *AhoCorasick) Clear() {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.root = newACNode(0)
	ac.patterns = nil
	ac.built = false
}

// PatternMatcher provides a convenient way to create and use an Aho-Corasick
// automaton for common detection use cases.
type PatternMatcher struct {
	ac *AhoCorasick
}

// NewPatternMatcher creates a new pattern matcher with the given patterns.
// The automaton is built automatically.
func NewPatternMatcher(patterns map[string]any) *PatternMatcher {
	ac := NewAhoCorasick()
	for pattern, data := range patterns {
		ac.AddPattern(pattern, data)
	}
	ac.Build()

	return &PatternMatcher{ac: ac}
}

// NewPatternMatcherFromSlice creates a matcher from a slice of patterns.
// All patterns are associated with the same data value.
func NewPatternMatcherFromSlice(patterns []string, data any) *PatternMatcher {
	ac := NewAhoCorasick()
	ac.AddPatterns(patterns, data)
	ac.Build()

	return &PatternMatcher{ac: ac}
}

// Match returns all matches in the text.
func (pm *PatternMatcher) Match(text string) []Match {
	return pm.ac.Search(text)
}

// MatchFirst returns the first match in the text.
func (pm *PatternMatcher) MatchFirst(text string) (Match, bool) {
	return pm.ac.SearchFirst(text)
}

// Contains returns true if any pattern matches.
func (pm *PatternMatcher) Contains(text string) bool {
	return pm.ac.Contains(text)
}

// HeadlineSignalDetector flags headline phrasing that marks a title as
// opinion, listicle, or pure clickbait rather than a reported event —
// signals the quality gate treats as disqualifying regardless of volume,
// since no amount of corroboration turns an op-ed into a news event.
type HeadlineSignalDetector struct {
	opinionMatcher   *PatternMatcher
	listicleMatcher  *PatternMatcher
	clickbaitMatcher *PatternMatcher
}

// NewHeadlineSignalDetector creates a detector with common patterns.
func NewHeadlineSignalDetector() *HeadlineSignalDetector {
	opinionPatterns := []string{
		"opinion:", "op-ed", "editorial:", "commentary:",
		"analysis:", "i think", "my take", "here's why i",
	}

	listiclePatterns := []string{
		"top 10", "top 5", "best of", "worst of", " ranked",
		"things you", "reasons why", "ways to", "you need to know",
	}

	clickbaitPatterns := []string{
		"you won't believe", "this one trick", "shocking", "gone wrong",
		"what happened next", "will blow your mind", "number 7 will",
	}

	return &HeadlineSignalDetector{
		opinionMatcher:   NewPatternMatcherFromSlice(opinionPatterns, "opinion"),
		listicleMatcher:  NewPatternMatcherFromSlice(listiclePatterns, "listicle"),
		clickbaitMatcher: NewPatternMatcherFromSlice(clickbaitPatterns, "clickbait"),
	}
}

// DetectionResult contains headline signal detection results.
type DetectionResult struct {
	IsOpinion   bool
	IsListicle  bool
	IsClickbait bool
	Matches     []Match
}

// Detect analyzes a headline or title string.
func (d *HeadlineSignalDetector) Detect(headline string) DetectionResult {
	result := DetectionResult{}

	if matches := d.opinionMatcher.Match(headline); len(matches) > 0 {
		result.IsOpinion = true
		result.Matches = append(result.Matches, matches...)
	}

	if matches := d.listicleMatcher.Match(headline); len(matches) > 0 {
		result.IsListicle = true
		result.Matches = append(result.Matches, matches...)
	}

	if matches := d.clickbaitMatcher.Match(headline); len(matches) > 0 {
		result.IsClickbait = true
		result.Matches = append(result.Matches, matches...)
	}

	return result
}

// IsOpinion checks if the headline reads as opinion/editorial content.
func (d *HeadlineSignalDetector) IsOpinion(headline string) bool {
	return d.opinionMatcher.Contains(headline)
}

// IsListicle checks if the headline reads as a listicle.
func (d *HeadlineSignalDetector) IsListicle(headline string) bool {
	return d.listicleMatcher.Contains(headline)
}

// IsClickbait checks if the headline matches known clickbait phrasing.
func (d *HeadlineSignalDetector) IsClickbait(headline string) bool {
	return d.clickbaitMatcher.Contains(headline)
}

// Disqualifying reports whether any signal fired — opinion, listicle,
// and clickbait headlines are all rejected outright by the quality gate.
func (d *HeadlineSignalDetector) Disqualifying(headline string) bool {
	return d.IsOpinion(headline) || d.IsListicle(headline) || d.IsClickbait(headline)
}
