// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"regexp"
	"strings"

	"github.com/trendline/detector/internal/cache"
)

// SkipSentinel is the alias-table value meaning "drop this topic silently".
const SkipSentinel = "__SKIP__"

// hardcodedAliases is the small fallback table consulted when the
// persisted alias table has no entry. Keys are lowercase surface forms;
// values are canonical titles.
var hardcodedAliases = map[string]string{
	"potus":  "President",
	"scotus": "Supreme Court",
	"doj":    "Department of Justice",
	"dod":    "Department of Defense",
	"fed":    "Federal Reserve",
	"gop":    "Republican Party",
	"dems":   "Democratic Party",
	"eu":     "European Union",
	"un":     "United Nations",
	"nato":   "North Atlantic Treaty Organization",
}

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// AliasResolver maps raw topic surface forms to canonical keys and
// titles, consulting a persisted alias table before the hardcoded
// fallback and, last, default normalization rules.
//
// The persisted table is loaded once at run start into a case-insensitive
// Trie so lookups are O(m) in the surface form length rather than a map
// scan over every case variant seen historically.
type AliasResolver struct {
	persisted *cache.Trie
}

// NewAliasResolver builds a resolver from the persisted alias rows.
// entries maps a raw surface form to its canonical title (or to
// SkipSentinel).
func NewAliasResolver(entries map[string]string) *AliasResolver {
	t := cache.NewTrie()
	for surface, canonical := range entries {
		t.InsertWithData(surface, canonical)
	}
	return &AliasResolver{persisted: t}
}

// CanonicalTitle resolves raw to a display title, or SkipSentinel if the
// topic should be dropped.
func (r *AliasResolver) CanonicalTitle(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SkipSentinel
	}
	if data, ok := r.persisted.Search(trimmed); ok {
		if s, ok := data.(string); ok {
			return s
		}
	}
	lower := strings.ToLower(trimmed)
	if canonical, ok := hardcodedAliases[lower]; ok {
		return canonical
	}
	return defaultTitle(trimmed)
}

// CanonicalKey derives the canonical key from a canonical title: lower,
// punctuation stripped, whitespace collapsed to underscores. Idempotent:
// CanonicalKey(CanonicalKey(x)) == CanonicalKey(x) for any x, since a
// key is already lowercase, punctuation-free and underscore-joined.
func CanonicalKey(title string) string {
	lower := strings.ToLower(strings.TrimSpace(title))
	lower = nonAlnum.ReplaceAllString(lower, " ")
	lower = multiSpace.ReplaceAllString(lower, " ")
	lower = strings.TrimSpace(lower)
	return strings.ReplaceAll(lower, " ", "_")
}

// defaultTitle applies the fallback normalization: strip punctuation,
// collapse whitespace, title-case each word.
func defaultTitle(raw string) string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(raw), " ")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return SkipSentinel
	}
	words := strings.Split(cleaned, " ")
	for i, w := range words {
		if len(w) == 0 {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// acronymAllowList names unambiguous government acronyms and designated
// terrorist organizations permitted to pass the single-word quality
// gate without the usual multi-domain/tier corroboration bar.
var acronymAllowList = map[string]struct{}{
	"fbi": {}, "cia": {}, "nsa": {}, "dhs": {}, "cdc": {}, "fda": {},
	"irs": {}, "epa": {}, "nasa": {}, "isis": {}, "al-qaeda": {},
	"hamas": {}, "hezbollah": {}, "nato": {}, "who": {}, "icc": {},
	"un": {}, "eu": {},
}

// IsAllowlistedAcronym reports whether key (already canonicalized,
// lowercase) is in the acronym allow-list.
func IsAllowlistedAcronym(key string) bool {
	_, ok := acronymAllowList[strings.ToLower(key)]
	return ok
}
