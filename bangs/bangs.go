// Package bangs implements the bang parser (C7): `!trigger query` or
// `query !trigger` redirection, backed by a fixed built-in table plus
// custom triggers persisted in KV (§4.7).
package bangs

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/wayfind/metasearch-core/apierr"
	"github.com/wayfind/metasearch-core/engine"
	"github.com/wayfind/metasearch-core/kv"
)

// Bang is a single trigger record (§3).
type Bang struct {
	Trigger     string `json:"trigger"`
	Name        string `json:"name"`
	URLTemplate string `json:"url_template"`
	Category    string `json:"category"`
	IsBuiltin   bool   `json:"is_builtin"`
}

// Result is what parse() returns: the query with the bang stripped, and,
// if a trigger matched, the bang record plus a redirect classification.
type Result struct {
	Query    string
	Bang     *Bang
	Category engine.Category
	Redirect string // absolute URL for external; site-relative path (e.g. /images?q=...) for internal, with Category set too
}

// builtins is the fixed table (§4.7, supplemented per SPEC_FULL.md: a
// representative set exercising both internal and external redirects).
// Built-ins can never be created or deleted through the custom API (P7).
var builtins = map[string]Bang{
	"g":   {Trigger: "g", Name: "Google", URLTemplate: "https://www.google.com/search?q={query}", Category: "general", IsBuiltin: true},
	"ddg": {Trigger: "ddg", Name: "DuckDuckGo", URLTemplate: "https://duckduckgo.com/?q={query}", Category: "general", IsBuiltin: true},
	"w":   {Trigger: "w", Name: "Wikipedia", URLTemplate: "https://en.wikipedia.org/wiki/Special:Search?search={query}", Category: "general", IsBuiltin: true},
	"gh":  {Trigger: "gh", Name: "GitHub", URLTemplate: "https://github.com/search?q={query}", Category: "it", IsBuiltin: true},
	"so":  {Trigger: "so", Name: "Stack Overflow", URLTemplate: "https://stackoverflow.com/search?q={query}", Category: "it", IsBuiltin: true},
	"yt":  {Trigger: "yt", Name: "YouTube", URLTemplate: "https://www.youtube.com/results?search_query={query}", Category: "videos", IsBuiltin: true},
	"r":   {Trigger: "r", Name: "Reddit", URLTemplate: "https://www.reddit.com/search/?q={query}", Category: "social", IsBuiltin: true},
	"a":   {Trigger: "a", Name: "arXiv", URLTemplate: "https://arxiv.org/abs/{query}", Category: "science", IsBuiltin: true},
	"i":   {Trigger: "i", Name: "Images", URLTemplate: "/images?q={query}", Category: "images", IsBuiltin: true},
	"v":   {Trigger: "v", Name: "Videos", URLTemplate: "/videos?q={query}", Category: "videos", IsBuiltin: true},
	"n":   {Trigger: "n", Name: "News", URLTemplate: "/news?q={query}", Category: "news", IsBuiltin: true},
}

// IsBuiltin reports whether trigger (case-insensitive) names a built-in
// bang; used by the KV-backed custom-bang API to reject shadowing (P7).
func IsBuiltin(trigger string) bool {
	_, ok := builtins[strings.ToLower(trigger)]
	return ok
}

const customBangKeyPrefix = "bangs:"
const customBangIndexKey = "bangs:_custom"

// Store persists custom bangs in KV, keyed by lowercased trigger, with a
// bangs:_custom secondary index for enumeration (§4.6).
type Store struct {
	kv kv.Store
}

func NewStore(backing kv.Store) *Store {
	return &Store{kv: backing}
}

func (s *Store) Create(ctx context.Context, b Bang) error {
	trigger := strings.ToLower(b.Trigger)
	if IsBuiltin(trigger) {
		return apierr.Validation("bang trigger \"" + trigger + "\" is a built-in and cannot be shadowed")
	}
	b.Trigger = trigger
	b.IsBuiltin = false

	raw, err := json.Marshal(b)
	if err != nil {
		return apierr.Unexpected(err)
	}
	if err := s.kv.Set(ctx, customBangKeyPrefix+trigger, raw, 0); err != nil {
		return apierr.Unexpected(err)
	}
	return s.kv.ListAppend(ctx, customBangIndexKey, trigger)
}

func (s *Store) Delete(ctx context.Context, trigger string) error {
	trigger = strings.ToLower(trigger)
	if IsBuiltin(trigger) {
		return apierr.Validation("bang trigger \"" + trigger + "\" is a built-in and cannot be deleted")
	}
	if err := s.kv.Delete(ctx, customBangKeyPrefix+trigger); err != nil {
		return apierr.Unexpected(err)
	}
	return s.kv.ListRemove(ctx, customBangIndexKey, trigger)
}

func (s *Store) lookup(ctx context.Context, trigger string) (Bang, bool) {
	if b, ok := builtins[trigger]; ok {
		return b, true
	}
	raw, err := s.kv.Get(ctx, customBangKeyPrefix+trigger)
	if err != nil {
		return Bang{}, false
	}
	var b Bang
	if json.Unmarshal(raw, &b) != nil {
		return Bang{}, false
	}
	return b, true
}

// List returns built-ins followed by custom bangs in creation order.
func (s *Store) List(ctx context.Context) []Bang {
	out := make([]Bang, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, b)
	}

	triggers, err := s.kv.ListRange(ctx, customBangIndexKey)
	if err != nil {
		return out
	}
	for _, trigger := range triggers {
		raw, err := s.kv.Get(ctx, customBangKeyPrefix+trigger)
		if err != nil {
			continue // crash-tolerant read: a missing record is skipped, not fatal
		}
		var b Bang
		if json.Unmarshal(raw, &b) == nil {
			out = append(out, b)
		}
	}
	return out
}

// Parse implements §4.7: `!trigger rest` at the start, or `rest !trigger`
// at the end — never both; start wins (P6, left-or-right anchored only).
func (s *Store) Parse(ctx context.Context, query string) Result {
	trimmed := strings.TrimSpace(query)

	if trigger, rest, ok := leadingBang(trimmed); ok {
		if b, found := s.lookup(ctx, strings.ToLower(trigger)); found {
			return buildResult(rest, b)
		}
	}
	if rest, trigger, ok := trailingBang(trimmed); ok {
		if b, found := s.lookup(ctx, strings.ToLower(trigger)); found {
			return buildResult(rest, b)
		}
	}

	return Result{Query: trimmed}
}

func leadingBang(q string) (trigger, rest string, ok bool) {
	if !strings.HasPrefix(q, "!") {
		return "", "", false
	}
	fields := strings.SplitN(q[1:], " ", 2)
	if fields[0] == "" {
		return "", "", false
	}
	rest = ""
	if len(fields) == 2 {
		rest = strings.TrimSpace(fields[1])
	}
	return fields[0], rest, true
}

func trailingBang(q string) (rest, trigger string, ok bool) {
	// trailing bang must be the last whitespace-delimited token
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return "", "", false
	}
	last := fields[len(fields)-1]
	if !strings.HasPrefix(last, "!") || len(last) < 2 {
		return "", "", false
	}
	rest = strings.TrimSpace(strings.TrimSuffix(q, last))
	return rest, last[1:], true
}

func buildResult(query string, b Bang) Result {
	r := Result{Query: query, Bang: &b}
	if strings.HasPrefix(b.URLTemplate, "/") {
		r.Category = engine.Category(b.Category)
		r.Redirect = strings.Replace(b.URLTemplate, "{query}", url.QueryEscape(query), 1)
		return r
	}
	r.Redirect = strings.Replace(b.URLTemplate, "{query}", url.QueryEscape(query), 1)
	return r
}
