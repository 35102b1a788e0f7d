// Package pipeline implements the search pipeline (C11): bang parsing,
// cache lookup, parallel instant/knowledge/metasearch, pagination, cache
// write, and fire-and-forget history logging (§4.11).
package pipeline

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/bangs"
	"github.com/wayfind/metasearch-core/cache"
	"github.com/wayfind/metasearch-core/engine"
	"github.com/wayfind/metasearch-core/instant"
	"github.com/wayfind/metasearch-core/knowledge"
	"github.com/wayfind/metasearch-core/metasearch"
	"github.com/wayfind/metasearch-core/records"
)

// SearchResult is a single user-visible hit (§3).
type SearchResult struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Snippet   string   `json:"snippet"`
	Domain    string   `json:"domain"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Published string   `json:"published,omitempty"`
	Score     float64  `json:"score"`
	CrawledAt string   `json:"crawled_at"`
	Engine    string   `json:"engine"`
	Engines   []string `json:"engines"`
}

// SearchResponse is the pipeline's output (§3).
type SearchResponse struct {
	Query          string           `json:"query"`
	CorrectedQuery string           `json:"corrected_query,omitempty"`
	TotalResults   int              `json:"total_results"`
	Results        []SearchResult   `json:"results"`
	Suggestions    []string         `json:"suggestions"`
	InstantAnswer  *instant.Answer  `json:"instant_answer,omitempty"`
	KnowledgePanel *knowledge.Panel `json:"knowledge_panel,omitempty"`
	SearchTimeMs   int64            `json:"search_time_ms"`
	Page           int              `json:"page"`
	PerPage        int              `json:"per_page"`
	HasMore        bool             `json:"has_more"`
	Redirect       string           `json:"redirect,omitempty"`
	Bang           *bangs.Bang      `json:"bang,omitempty"`
	Category       string           `json:"category,omitempty"`
}

// Options carries the pipeline's per-request parameters, the superset
// opts.file_type resolves a metasearch category from (§4.11 step 4).
type Options struct {
	Page       int
	PerPage    int
	TimeRange  string
	Region     string
	Language   string
	SafeSearch string
	Site       string
	Lens       string
	FileType   string // "", "image", "video", "news"
}

func (o Options) normalized() Options {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = 10
	}
	return o
}

func (o Options) category() engine.Category {
	switch o.FileType {
	case "image":
		return engine.CategoryImages
	case "video":
		return engine.CategoryVideos
	case "news":
		return engine.CategoryNews
	default:
		return engine.CategoryGeneral
	}
}

// Pipeline wires C1-C10's components into the single search operation
// C11 names.
type Pipeline struct {
	bangs        *bangs.Store
	cache        *cache.Store
	instant      *instant.Engine
	knowledge    *knowledge.Engine
	orchestrator *metasearch.Orchestrator
	history      *records.Store
	logger       zerolog.Logger

	now func() time.Time
}

func New(bangStore *bangs.Store, cacheStore *cache.Store, instantEngine *instant.Engine, knowledgeEngine *knowledge.Engine, orchestrator *metasearch.Orchestrator, historyStore *records.Store, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		bangs:        bangStore,
		cache:        cacheStore,
		instant:      instantEngine,
		knowledge:    knowledgeEngine,
		orchestrator: orchestrator,
		history:      historyStore,
		logger:       logger,
		now:          time.Now,
	}
}

// Search implements §4.11's 7-step algorithm for the general search
// surface and its image/video/news verticals (selected via opts.FileType).
func (p *Pipeline) Search(ctx context.Context, rawQuery string, opts Options) (*SearchResponse, error) {
	start := p.now()
	opts = opts.normalized()

	// Step 1: trim; empty query yields an empty response.
	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return &SearchResponse{Query: query, Page: opts.Page, PerPage: opts.PerPage, Results: []SearchResult{}}, nil
	}

	// Step 2: bang parse; an external redirect short-circuits.
	parsed := p.bangs.Parse(ctx, query)
	if parsed.Bang != nil && parsed.Redirect != "" && !strings.HasPrefix(parsed.Bang.URLTemplate, "/") {
		return &SearchResponse{
			Query:    query,
			Redirect: parsed.Redirect,
			Bang:     parsed.Bang,
			Category: string(parsed.Category),
			Results:  []SearchResult{},
		}, nil
	}
	// An internal bang (e.g. !i) reclassifies the category but the query
	// still flows through the rest of the pipeline.
	if parsed.Bang != nil && strings.HasPrefix(parsed.Bang.URLTemplate, "/") {
		query = parsed.Query
		opts.FileType = internalCategoryToFileType(parsed.Category)
	}

	// Step 3: composite cache key lookup. Verticals key under img:/vid:/news:
	// prefixes so they never share an entry with a general search.
	keyQuery := query
	switch opts.FileType {
	case "image":
		keyQuery = "img:" + query
	case "video":
		keyQuery = "vid:" + query
	case "news":
		keyQuery = "news:" + query
	}
	key := cache.Key{
		Query: keyQuery, Page: opts.Page, PerPage: opts.PerPage,
		TimeRange: opts.TimeRange, Region: opts.Region, Language: opts.Language,
		SafeSearch: opts.SafeSearch, Site: opts.Site, Lens: opts.Lens,
	}
	if raw, err := p.cache.GetSearch(ctx, key); err == nil {
		var cached SearchResponse
		if json.Unmarshal(raw, &cached) == nil {
			p.logger.Debug().Str("query", query).Str("hash", key.Hash()).Msg("search cache hit")
			return &cached, nil // search_time_ms preserved verbatim from the cached computation
		}
	}

	// Steps 4-7: on a cache miss, GetOrCompute collapses concurrent
	// identical-query misses onto a single computation (singleflight)
	// before persisting under key.Hash() for TTLSearch.
	response, err := cache.GetOrCompute(ctx, p.cache, "search", key.Hash(), cache.TTLSearch, func() (*SearchResponse, error) {
		return p.computeSearch(ctx, query, opts, start)
	})
	if err != nil {
		return nil, err
	}

	if p.history != nil {
		go func() {
			if err := p.history.AppendHistory(context.Background(), response.Query, response.TotalResults); err != nil {
				p.logger.Warn().Err(err).Str("query", query).Msg("history append failed")
			}
		}()
	}

	return response, nil
}

// computeSearch runs steps 4-6: instant/knowledge/metasearch fan-out,
// merge, and pagination. It never returns an error; the error return
// exists to match cache.GetOrCompute's compute signature.
func (p *Pipeline) computeSearch(ctx context.Context, query string, opts Options, start time.Time) (*SearchResponse, error) {
	var instantAnswer *instant.Answer
	var panel *knowledge.Panel
	var meta metasearch.MetaResult

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if a, err := p.instant.Detect(ctx, query); err == nil {
			instantAnswer = a
		}
	}()
	go func() {
		defer wg.Done()
		if opts.Page != 1 {
			return
		}
		if pnl, err := p.knowledge.GetPanel(ctx, query); err == nil {
			panel = pnl
		}
	}()
	go func() {
		defer wg.Done()
		meta = p.orchestrator.Search(ctx, query, opts.category(), engine.Params{
			Page: opts.Page, Locale: opts.Language, TimeRange: engine.TimeRange(opts.TimeRange),
			SafeSearch: safeSearchFromString(opts.SafeSearch),
		})
	}()
	wg.Wait()

	// Step 5: map EngineResult -> SearchResult.
	now := p.now()
	allResults := make([]SearchResult, len(meta.Results))
	for i, r := range meta.Results {
		allResults[i] = SearchResult{
			ID:        strconv.FormatInt(now.Unix(), 36) + "-" + strconv.Itoa(i),
			URL:       r.URL,
			Title:     r.Title,
			Snippet:   r.Content,
			Domain:    hostOf(r.URL),
			Thumbnail: r.ThumbnailURL,
			Published: r.PublishedAt,
			Score:     r.Score,
			CrawledAt: now.UTC().Format(time.RFC3339),
			Engine:    r.Engine,
			Engines:   []string{r.Engine},
		}
	}

	// Step 6: pagination by [start,end).
	totalResults := len(allResults)
	sliceStart := (opts.Page - 1) * opts.PerPage
	sliceEnd := sliceStart + opts.PerPage
	page := paginate(allResults, sliceStart, sliceEnd)

	response := &SearchResponse{
		Query:          query,
		TotalResults:   totalResults,
		Results:        page,
		Suggestions:    meta.Suggestions,
		InstantAnswer:  instantAnswer,
		KnowledgePanel: panel,
		SearchTimeMs:   time.Since(start).Milliseconds(),
		Page:           opts.Page,
		PerPage:        opts.PerPage,
		HasMore:        sliceEnd < totalResults,
	}
	if len(meta.Corrections) > 0 {
		response.CorrectedQuery = meta.Corrections[0]
	}

	return response, nil
}

func paginate(results []SearchResult, start, end int) []SearchResult {
	if start < 0 {
		start = 0
	}
	if start >= len(results) {
		return []SearchResult{}
	}
	if end > len(results) {
		end = len(results)
	}
	out := make([]SearchResult, end-start)
	copy(out, results[start:end])
	return out
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func safeSearchFromString(s string) engine.SafeSearch {
	switch s {
	case "off":
		return engine.SafeSearchOff
	case "strict":
		return engine.SafeSearchStrict
	default:
		return engine.SafeSearchModerate
	}
}

func internalCategoryToFileType(cat engine.Category) string {
	switch cat {
	case engine.CategoryImages:
		return "image"
	case engine.CategoryVideos:
		return "video"
	case engine.CategoryNews:
		return "news"
	default:
		return ""
	}
}
