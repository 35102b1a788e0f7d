package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/bangs"
	"github.com/wayfind/metasearch-core/cache"
	"github.com/wayfind/metasearch-core/engine"
	"github.com/wayfind/metasearch-core/instant"
	"github.com/wayfind/metasearch-core/knowledge"
	"github.com/wayfind/metasearch-core/kv/mem"
	"github.com/wayfind/metasearch-core/metasearch"
	"github.com/wayfind/metasearch-core/pipeline"
	"github.com/wayfind/metasearch-core/records"
	"github.com/wayfind/metasearch-core/suggest"
)

func newTestServer() *Server {
	store := mem.New()
	bangStore := bangs.NewStore(store)
	cacheStore := cache.New(store)
	httpClient := &http.Client{}
	instantEngine := instant.New(httpClient, instant.NewCurrencyResolver(httpClient, store, zerolog.Nop()), zerolog.Nop())
	knowledgeEngine := knowledge.New(httpClient, cacheStore, zerolog.Nop())
	orchestrator := metasearch.New(map[string]engine.Engine{}, engine.NewExecutor(zerolog.Nop()), engine.NewVQDFetcher())
	historyStore := records.New(store)
	suggestSvc := suggest.New(httpClient, cacheStore, zerolog.Nop())

	p := pipeline.New(bangStore, cacheStore, instantEngine, knowledgeEngine, orchestrator, historyStore, zerolog.Nop())
	return New(p, suggestSvc, instantEngine, knowledgeEngine, bangStore, historyStore, zerolog.Nop())
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSearchExternalBangRedirect(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/search?q=" + "!gh%20ripgrep")
	if err != nil {
		t.Fatalf("GET /api/search: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Redirect string `json:"redirect"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Redirect != "https://github.com/search?q=ripgrep" {
		t.Errorf("redirect = %q, want https://github.com/search?q=ripgrep", body.Redirect)
	}
}

func TestSearchCalculatorInstantAnswer(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	// page=2 skips the knowledge-panel fetch (gated to page 1), keeping
	// this test independent of live network access to Wikipedia.
	resp, err := http.Get(srv.URL + "/api/search?q=2%2B2&page=2")
	if err != nil {
		t.Fatalf("GET /api/search: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		InstantAnswer *struct {
			Type       string `json:"type"`
			Calculator *struct {
				Value float64 `json:"value"`
			} `json:"calculator"`
		} `json:"instant_answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ia := body.InstantAnswer
	if ia == nil || ia.Type != "calculator" || ia.Calculator == nil || ia.Calculator.Value != 4 {
		t.Errorf("instant_answer = %+v, want a calculator answer of 4", ia)
	}
}

func TestSuggestMissingQueryReturns400(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/suggest?q=")
	if err != nil {
		t.Fatalf("GET /api/suggest: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestInstantCalculateEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/instant/calculate?q=" + "3*3")
	if err != nil {
		t.Fatalf("GET /api/instant/calculate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestInstantCalculateRejectsNonCalculatorQuery(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/instant/calculate?q=hello")
	if err != nil {
		t.Fatalf("GET /api/instant/calculate: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBangsListIncludesBuiltins(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/bangs")
	if err != nil {
		t.Fatalf("GET /api/bangs: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var list []struct {
		Trigger   string `json:"trigger"`
		IsBuiltin bool   `json:"is_builtin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, b := range list {
		if b.Trigger == "gh" && b.IsBuiltin {
			found = true
		}
	}
	if !found {
		t.Errorf("bang list %+v does not include the built-in gh", list)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/settings", strings.NewReader(`{"theme":"dark"}`))
	if err != nil {
		t.Fatalf("new PUT request: %v", err)
	}
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/settings: %v", err)
	}
	putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200", putResp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/settings")
	if err != nil {
		t.Fatalf("GET /api/settings: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var got struct {
		Theme    string `json:"theme"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Theme != "dark" || got.Language != "en" {
		t.Errorf("settings = %+v, want theme dark with the default language en kept", got)
	}
}

func TestCheatsheetUnknownLanguage404(t *testing.T) {
	srv := httptest.NewServer(newTestServer().Mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/cheatsheet/klingon")
	if err != nil {
		t.Fatalf("GET /api/cheatsheet: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
