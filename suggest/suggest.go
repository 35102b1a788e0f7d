// Package suggest implements the suggest service (C10): a 60s-cached
// lookup against Google's suggestion endpoint plus a fixed trending list
// (§4.10).
package suggest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/apierr"
	"github.com/wayfind/metasearch-core/cache"
	"github.com/wayfind/metasearch-core/utils"
)

// Suggestion is a single autocomplete entry.
type Suggestion struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

const defaultEndpoint = "https://suggestqueries.google.com/complete/search"

type Service struct {
	client   *http.Client
	cache    *cache.Store
	endpoint string
	logger   zerolog.Logger
}

func New(client *http.Client, store *cache.Store, logger zerolog.Logger) *Service {
	return &Service{client: client, cache: store, endpoint: defaultEndpoint, logger: logger}
}

// Suggest implements §4.10's cache → upstream → parse pipeline.
func (s *Service) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	key := cache.Key{Query: query}

	if s.cache != nil {
		if raw, err := s.cache.GetSuggest(ctx, key); err == nil {
			var cached []Suggestion
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	suggestions, err := s.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(suggestions); err == nil {
			_ = s.cache.SetSuggest(ctx, key, raw)
		}
	}
	return suggestions, nil
}

func (s *Service) fetch(ctx context.Context, query string) ([]Suggestion, error) {
	endpoint := s.endpoint + "?client=firefox&q=" + url.QueryEscape(query)

	// The endpoint's response is [query, [suggestions...]] — a
	// heterogeneous JSON array, decoded with json.RawMessage for the
	// second element.
	var parsed [2]json.RawMessage

	err := utils.RetryWithBackoff(ctx, s.logger, utils.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return apierr.Upstream("google-suggest", resp.StatusCode, nil)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &parsed)
	})
	if err != nil {
		return nil, err
	}

	var texts []string
	if err := json.Unmarshal(parsed[1], &texts); err != nil {
		return nil, apierr.Unexpected(err)
	}

	out := make([]Suggestion, len(texts))
	for i, text := range texts {
		out[i] = Suggestion{Text: text, Type: "query"}
	}
	return out, nil
}

// trending is a fixed static list (§4.10).
var trending = []Suggestion{
	{Text: "weather today", Type: "query"},
	{Text: "news", Type: "query"},
	{Text: "stock market", Type: "query"},
	{Text: "sports scores", Type: "query"},
	{Text: "currency converter", Type: "query"},
}

// Trending returns the fixed static list.
func Trending() []Suggestion {
	out := make([]Suggestion, len(trending))
	copy(out, trending)
	return out
}
