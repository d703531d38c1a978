// Trendline Detector - Breaking News and Trend Detection Pipeline
// Copyright 2026 Trendline Detector Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/trendline/detector

package trend

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"time"
)

// trackingParams lists query parameters stripped during URL normalization
// because they identify the referring campaign, not the underlying story.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {},
	"utm_content": {}, "fbclid": {}, "gclid": {}, "ref": {}, "ref_src": {},
	"CMP": {}, "cmpid": {}, "mc_cid": {}, "mc_eid": {}, "_ga": {},
	"igshid": {}, "s": {}, "smid": {},
}

// NormalizeURL lowercases scheme and host, strips tracking query
// parameters and the fragment, and removes a trailing slash, so that
// syndicated copies of the same story normalize to the same value even
// when a tracking parameter (e.g. utm_source) is appended or removed.
func NormalizeURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if _, tracked := trackingParams[k]; tracked {
				q.Del(k)
			}
		}
		u.RawQuery = q.Encode()
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// collapseWhitespace collapses runs of whitespace to a single space and
// trims the result.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func sha256Hex(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHashArticle computes the deterministic dedup fingerprint for
// article/aggregator mentions: normalized title + normalized URL +
// published timestamp truncated to the minute.
func ContentHashArticle(title, canonicalURL string, publishedAt time.Time) string {
	normTitle := strings.ToLower(collapseWhitespace(title))
	truncated := publishedAt.UTC().Truncate(time.Minute).Format(time.RFC3339)
	return sha256Hex(normTitle, canonicalURL, truncated)
}

// ContentHashSocial computes the dedup fingerprint for short-form posts:
// the first 100 characters of whitespace-collapsed, lowercased text.
func ContentHashSocial(text string) string {
	norm := strings.ToLower(collapseWhitespace(text))
	if len(norm) > 100 {
		norm = norm[:100]
	}
	return sha256Hex(norm)
}

// sortedQueryKeys is a small helper kept for deterministic debugging output;
// url.Values.Encode already sorts keys. No code path or test in this
// package calls it.
func sortedQueryKeys(q url.Values) []string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
