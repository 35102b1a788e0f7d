package metasearch

import "github.com/wayfind/metasearch-core/engine"

// DedupeAndMerge implements invariant I1: for duplicate normalized URLs,
// exactly one instance survives; its score is the sum of the duplicates',
// its content is the longest among duplicates (ties keep the earlier one),
// and title/thumbnailUrl are the first non-empty value encountered. The
// score sum does not depend on input order; the kept URL, title and
// thumbnailUrl come from the earliest results and do.
func DedupeAndMerge(results []engine.Result) []engine.Result {
	order := make([]string, 0, len(results))
	byKey := make(map[string]*engine.Result, len(results))

	for _, r := range results {
		key := NormalizeURL(r.URL)
		existing, ok := byKey[key]
		if !ok {
			cp := r
			byKey[key] = &cp
			order = append(order, key)
			continue
		}

		existing.Score += r.Score
		if len(r.Content) > len(existing.Content) {
			existing.Content = r.Content
		}
		if existing.Title == "" {
			existing.Title = r.Title
		}
		if existing.ThumbnailURL == "" {
			existing.ThumbnailURL = r.ThumbnailURL
		}
	}

	merged := make([]engine.Result, 0, len(order))
	for _, key := range order {
		merged = append(merged, *byKey[key])
	}
	return merged
}
