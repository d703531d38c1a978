// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/trendline/detector/internal/cache"
)

// entityOnlyPatterns match surface forms that look like a bare named
// entity rather than an asserted event: a single capitalized word, a
// "First Last" two-word name, an honorific plus name, a 2-5 letter
// all-caps acronym, or "The X [Y]". A verb/event-noun
// hit overrides any of these.
var entityOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][a-z]+$`),
	regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`),
	regexp.MustCompile(`^(Mr|Mrs|Ms|Dr|Sen|Rep|Gov|Gen|Sec|Pres|Adm|Amb)\.? [A-Z][a-z]+( [A-Z][a-z]+)?$`),
	regexp.MustCompile(`^[A-Z]{2,5}$`),
	regexp.MustCompile(`^The [A-Z][a-z]+( [A-Z][a-z]+)?$`),
}

// EventPhraseDetector decides whether a candidate label is an "event
// phrase": 2-6 words, containing an action verb or event noun, and not
// merely an entity-only surface form.
type EventPhraseDetector struct {
	verbMatcher *cache.AhoCorasick
}

// NewEventPhraseDetector builds the detector over the fixed verb and
// event-noun lists, compiling the Aho-Corasick automaton once for reuse
// across every candidate checked during a run.
func NewEventPhraseDetector() *EventPhraseDetector {
	ac := cache.NewAhoCorasick()
	for _, v := range eventVerbs {
		ac.AddPattern(v, "verb")
	}
	for _, n := range eventNouns {
		ac.AddPattern(n, "noun")
	}
	ac.Build()
	return &EventPhraseDetector{verbMatcher: ac}
}

// containsVerbOrEventNoun reports whether text contains a whole-word
// match from the verb/event-noun automaton.
func (d *EventPhraseDetector) containsVerbOrEventNoun(text string) bool {
	for _, m := range d.verbMatcher.Search(text) {
		start := m.Position
		end := start + len(m.Pattern)
		if wordBoundary(text, start) && wordBoundary(text, end) {
			return true
		}
	}
	return false
}

func wordBoundary(s string, idx int) bool {
	if idx <= 0 || idx >= len(s) {
		return true
	}
	before := rune(s[idx-1])
	after := rune(s[idx])
	if unicode.IsLetter(before) && unicode.IsLetter(after) {
		return false
	}
	return true
}

func isEntityOnlyShape(phrase string) bool {
	trimmed := strings.TrimSpace(phrase)
	for _, re := range entityOnlyPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

func wordCount(phrase string) int {
	return len(strings.Fields(phrase))
}

// IsEventPhrase implements the full verb-check: the
// phrase must be 2-6 words, contain a verb/event-noun, and — unless
// that verb/noun is present — not match an entity-only shape.
func (d *EventPhraseDetector) IsEventPhrase(phrase string) bool {
	n := wordCount(phrase)
	if n < 2 || n > 6 {
		return false
	}
	hasVerb := d.containsVerbOrEventNoun(phrase)
	if !hasVerb && isEntityOnlyShape(phrase) {
		return false
	}
	return hasVerb
}
