package pipeline

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/bangs"
	"github.com/wayfind/metasearch-core/cache"
	"github.com/wayfind/metasearch-core/engine"
	"github.com/wayfind/metasearch-core/instant"
	"github.com/wayfind/metasearch-core/knowledge"
	"github.com/wayfind/metasearch-core/kv/mem"
	"github.com/wayfind/metasearch-core/metasearch"
	"github.com/wayfind/metasearch-core/records"
)

func newTestPipeline() *Pipeline {
	store := mem.New()
	bangStore := bangs.NewStore(store)
	cacheStore := cache.New(store)
	httpClient := &http.Client{}
	instantEngine := instant.New(httpClient, instant.NewCurrencyResolver(httpClient, store, zerolog.Nop()), zerolog.Nop())
	knowledgeEngine := knowledge.New(httpClient, cacheStore, zerolog.Nop())
	orchestrator := metasearch.New(map[string]engine.Engine{}, engine.NewExecutor(zerolog.Nop()), engine.NewVQDFetcher())
	historyStore := records.New(store)
	return New(bangStore, cacheStore, instantEngine, knowledgeEngine, orchestrator, historyStore, zerolog.Nop())
}

func TestSearchEmptyQueryReturnsEmptyResponse(t *testing.T) {
	p := newTestPipeline()
	resp, err := p.Search(context.Background(), "   ", Options{})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected empty results for blank query, got %+v", resp.Results)
	}
}

func TestSearchExternalBangShortCircuits(t *testing.T) {
	p := newTestPipeline()
	resp, err := p.Search(context.Background(), "!g golang", Options{Page: 2})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if resp.Redirect != "https://www.google.com/search?q=golang" {
		t.Errorf("Redirect = %q", resp.Redirect)
	}
	if resp.Bang == nil || resp.Bang.Trigger != "g" {
		t.Errorf("Bang = %+v", resp.Bang)
	}
}

func TestSearchWithNoEnginesReturnsWellFormedEmptyResponse(t *testing.T) {
	p := newTestPipeline()
	resp, err := p.Search(context.Background(), "golang concurrency", Options{Page: 2, PerPage: 10})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if resp.TotalResults != 0 {
		t.Errorf("TotalResults = %d, want 0 (no engines registered)", resp.TotalResults)
	}
	if resp.HasMore {
		t.Error("expected HasMore false with zero results")
	}
	if resp.Page != 2 || resp.PerPage != 10 {
		t.Errorf("Page/PerPage = %d/%d", resp.Page, resp.PerPage)
	}
}

func TestSearchCachesResponse(t *testing.T) {
	p := newTestPipeline()
	ctx := context.Background()
	opts := Options{Page: 2, PerPage: 10}

	first, err := p.Search(ctx, "cached query", opts)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	second, err := p.Search(ctx, "cached query", opts)
	if err != nil {
		t.Fatalf("second Search error: %v", err)
	}
	if second.SearchTimeMs != first.SearchTimeMs {
		t.Errorf("expected cache hit to preserve search_time_ms verbatim: first=%d second=%d", first.SearchTimeMs, second.SearchTimeMs)
	}
}

func TestPaginateBounds(t *testing.T) {
	results := make([]SearchResult, 5)
	for i := range results {
		results[i] = SearchResult{ID: string(rune('a' + i))}
	}

	got := paginate(results, 0, 2)
	if len(got) != 2 {
		t.Fatalf("got %d, want 2", len(got))
	}

	got = paginate(results, 10, 20)
	if len(got) != 0 {
		t.Fatalf("got %d, want 0 for out-of-range start", len(got))
	}

	got = paginate(results, 3, 20)
	if len(got) != 2 {
		t.Fatalf("got %d, want 2 (clamped end)", len(got))
	}
}

func TestHostOf(t *testing.T) {
	if got := hostOf("https://Example.com/path"); got != "Example.com" {
		t.Errorf("hostOf = %q", got)
	}
	if got := hostOf("://not a url"); got != "" {
		t.Errorf("hostOf on invalid URL = %q, want empty", got)
	}
}
