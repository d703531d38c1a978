// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import "strings"

// tier1Domains are official/government and top-trust wire sources.
var tier1Domains = map[string]struct{}{
	"reuters.com": {}, "apnews.com": {}, "whitehouse.gov": {},
	"congress.gov": {}, "supremecourt.gov": {}, "justice.gov": {},
	"state.gov": {}, "defense.gov": {}, "fbi.gov": {}, "sec.gov": {},
	"federalreserve.gov": {}, "europa.eu": {}, "un.org": {},
	"nato.int": {}, "bbc.com": {}, "bbc.co.uk": {},
}

// tier2Domains are national and specialized news outlets.
var tier2Domains = map[string]struct{}{
	"nytimes.com": {}, "washingtonpost.com": {}, "wsj.com": {},
	"cnn.com": {}, "npr.org": {}, "politico.com": {}, "axios.com": {},
	"bloomberg.com": {}, "theguardian.com": {}, "ft.com": {},
	"nbcnews.com": {}, "abcnews.go.com": {}, "cbsnews.com": {},
	"foxnews.com": {}, "thehill.com": {}, "usatoday.com": {},
	"economist.com": {}, "time.com": {}, "newsweek.com": {},
}

// TierResolver maps a publisher domain or display name to an authority
// tier. Unknown publishers default to tier3; social posts are always
// tier3 regardless of domain.
type TierResolver struct {
	extraTier1 map[string]struct{}
	extraTier2 map[string]struct{}
}

// NewTierResolver builds a resolver seeded with the built-in domain
// tables plus any persisted overrides loaded at run start.
func NewTierResolver(extraTier1, extraTier2 []string) *TierResolver {
	r := &TierResolver{
		extraTier1: make(map[string]struct{}, len(extraTier1)),
		extraTier2: make(map[string]struct{}, len(extraTier2)),
	}
	for _, d := range extraTier1 {
		r.extraTier1[normalizeDomain(d)] = struct{}{}
	}
	for _, d := range extraTier2 {
		r.extraTier2[normalizeDomain(d)] = struct{}{}
	}
	return r
}

func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "www.")
	return d
}

// Resolve returns the tier for a mention given its source family and
// publisher domain. Social mentions are always tier3.
func (r *TierResolver) Resolve(family SourceFamily, domain string) Tier {
	if family == SourceSocial {
		return Tier3
	}
	d := normalizeDomain(domain)
	if d == "" {
		return Tier3
	}
	if _, ok := tier1Domains[d]; ok {
		return Tier1
	}
	if _, ok := r.extraTier1[d]; ok {
		return Tier1
	}
	if _, ok := tier2Domains[d]; ok {
		return Tier2
	}
	if _, ok := r.extraTier2[d]; ok {
		return Tier2
	}
	return Tier3
}
