// Package metasearch implements the orchestrator (C4): selecting engines
// by category, fanning out with all-settled semantics, deduplicating by
// normalized URL, and merging scores (§4.4).
package metasearch

import (
	"net/url"
	"strings"
)

// NormalizeURL implements §4.4.1: lowercase the host, strip a leading
// "www.", strip a trailing "/" from the path (root "/" is preserved),
// keep scheme/port/query verbatim, discard the fragment. A parse failure
// degrades to lowercasing the raw string — normalization never fails.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := u.Path
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	normalized := u.Scheme + "://" + host + path
	if u.RawQuery != "" {
		normalized += "?" + u.RawQuery
	}
	return normalized
}
