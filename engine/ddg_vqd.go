package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sync"
	"time"
)

// vqdRe extracts DuckDuckGo's anti-automation token from its HTML search
// page, e.g. vqd='3-1234...-5678...'.
var vqdRe = regexp.MustCompile(`vqd=['"]([\d-]+)['"]`)

// VQDFetcher lazily fetches and memoizes the DuckDuckGo vqd token the
// i.js/v.js/news.js JSON endpoints require. §4.2/§9 leave its acquisition
// path unspecified by the core; it is designed here as a small dedicated
// fetcher the orchestrator calls before scheduling any "duckduckgo ..." engine.
type VQDFetcher struct {
	client *http.Client

	mu      sync.Mutex
	cached  string
	fetched time.Time
}

func NewVQDFetcher() *VQDFetcher {
	return &VQDFetcher{client: &http.Client{Timeout: 5 * time.Second}}
}

// Fetch returns a cached vqd token (refreshed every 10 minutes, or
// immediately on demand if force is true, e.g. after a 401/403 from a DDG
// JSON endpoint).
func (f *VQDFetcher) Fetch(ctx context.Context, query string, force bool) (string, error) {
	f.mu.Lock()
	if !force && f.cached != "" && time.Since(f.fetched) < 10*time.Minute {
		token := f.cached
		f.mu.Unlock()
		return token, nil
	}
	f.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://duckduckgo.com/?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	m := vqdRe.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("vqd token not found in duckduckgo response")
	}

	token := string(m[1])
	f.mu.Lock()
	f.cached = token
	f.fetched = time.Now()
	f.mu.Unlock()

	return token, nil
}
