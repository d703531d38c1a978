// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"regexp"
	"strings"
)

// fallbackPatterns are tried in order against a headline to extract a
// short event phrase when upstream extraction supplied only an entity
//: Subject+verb+Object, verb-led, and event-noun-cued.
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b([A-Z][\w'-]*(?: [A-Z][\w'-]*){0,2} (?:` + inflectionAlternation() + `) [\w',.-]+(?: [\w',.-]+){0,3})`),
	regexp.MustCompile(`(?i)\b((?:` + inflectionAlternation() + `) [A-Z][\w'-]*(?: [\w'-]+){0,3})`),
	regexp.MustCompile(`(?i)\b([\w'-]+ (?:` + eventNounAlternation() + `)(?: [\w'-]+){0,2})`),
}

func inflectionAlternation() string {
	return strings.Join(eventVerbs, "|")
}

func eventNounAlternation() string {
	return strings.Join(eventNouns, "|")
}

var trivialWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "and": {}, "or": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "as": {}, "by": {}, "with": {},
}

// LabelValidation is the result of validating one candidate label.
type LabelValidation struct {
	IsEventPhrase bool
	Quality       LabelQuality
	Source        string // "upstream_hint" | "headline_scan" | "default"
	Label         string // possibly replaced by a generated fallback phrase
}

// LabelValidator applies the hint-based label validation rules and
// generates headline-derived fallback phrases.
type LabelValidator struct {
	detector *EventPhraseDetector
}

// NewLabelValidator builds a validator sharing one event-phrase detector.
func NewLabelValidator(detector *EventPhraseDetector) *LabelValidator {
	return &LabelValidator{detector: detector}
}

// Validate implements the hint dispatch table.
func (v *LabelValidator) Validate(candidateLabel string, claimedEventPhrase bool, hint LabelQuality, headline string) LabelValidation {
	switch hint {
	case LabelFallbackGenerated:
		if claimedEventPhrase && v.detector.IsEventPhrase(candidateLabel) {
			return LabelValidation{true, LabelFallbackGenerated, "upstream_hint", candidateLabel}
		}
		return LabelValidation{false, LabelEntityOnly, "upstream_hint", candidateLabel}

	case LabelEventPhrase:
		if v.detector.IsEventPhrase(candidateLabel) {
			return LabelValidation{true, LabelEventPhrase, "upstream_hint", candidateLabel}
		}
		return LabelValidation{false, LabelEntityOnly, "upstream_hint", candidateLabel}

	case "":
		if claimedEventPhrase {
			if v.detector.IsEventPhrase(candidateLabel) {
				return LabelValidation{true, LabelEventPhrase, "upstream_hint", candidateLabel}
			}
			if phrase, ok := v.GenerateFallback(headline, candidateLabel); ok {
				return LabelValidation{true, LabelFallbackGenerated, "headline_scan", phrase}
			}
			return LabelValidation{false, LabelEntityOnly, "upstream_hint", candidateLabel}
		}
		if phrase, ok := v.GenerateFallback(headline, candidateLabel); ok {
			return LabelValidation{true, LabelFallbackGenerated, "headline_scan", phrase}
		}
		return LabelValidation{false, LabelEntityOnly, "default", candidateLabel}
	}

	return LabelValidation{false, LabelEntityOnly, "default", candidateLabel}
}

// GenerateFallback scans headline with the ordered fallback patterns
// and returns the first valid event phrase found, falling back to a
// truncated leading clip of the headline if it contains the entity
// ("last resort").
func (v *LabelValidator) GenerateFallback(headline, entity string) (string, bool) {
	headline = strings.TrimSpace(headline)
	if headline == "" {
		return "", false
	}
	for _, re := range fallbackPatterns {
		m := re.FindString(headline)
		if m == "" {
			continue
		}
		phrase := clipWords(m, 3, 5)
		if v.detector.IsEventPhrase(phrase) {
			return phrase, true
		}
	}
	if entity != "" && strings.Contains(strings.ToLower(headline), strings.ToLower(entity)) {
		phrase := firstNonTrivialWords(headline, 5)
		if phrase != "" {
			return phrase, true
		}
	}
	return "", false
}

// clipWords trims a matched fragment to at most max words, and returns
// "" when the fragment has fewer than min words.
func clipWords(s string, minWords, maxWords int) string {
	fields := strings.Fields(s)
	if len(fields) > maxWords {
		fields = fields[:maxWords]
	}
	if len(fields) < minWords {
		return ""
	}
	return strings.Join(fields, " ")
}

// firstNonTrivialWords returns the first n words of headline skipping
// leading trivial filler words (articles, prepositions, copulas).
func firstNonTrivialWords(headline string, n int) string {
	fields := strings.Fields(headline)
	out := make([]string, 0, n)
	skippingLeader := true
	for _, w := range fields {
		lw := strings.ToLower(strings.Trim(w, ".,;:!?\"'"))
		if skippingLeader {
			if _, trivial := trivialWords[lw]; trivial {
				continue
			}
			skippingLeader = false
		}
		out = append(out, w)
		if len(out) >= n {
			break
		}
	}
	return strings.Join(out, " ")
}
