// Package knowledge implements the knowledge panel (C9): a Wikipedia
// summary enriched with a fixed whitelist of Wikidata claims, cached by
// normalized lowercase query (§4.9).
package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/apierr"
	"github.com/wayfind/metasearch-core/cache"
	"github.com/wayfind/metasearch-core/utils"
)

// Panel is the knowledge panel's answer (§3's KnowledgePanel: title,
// subtitle?, description, image?, facts[] {label,value}, links[]
// {title,url,icon}, source).
type Panel struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Facts       []Fact `json:"facts,omitempty"`
	Links       []Link `json:"links,omitempty"`
	Source      string `json:"source"`
}

// Fact is one whitelisted Wikidata claim rendered for display.
type Fact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Link is one outbound reference surfaced alongside the panel.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

// minExtractLength rejects a Wikipedia extract shorter than this as "no
// panel" (§4.9).
const minExtractLength = 20

// whitelist is the fixed Wikidata property → label table (§4.9), read in
// the stable order spec.md lists so facts render deterministically.
var whitelist = []struct {
	property string
	label    string
}{
	{"P569", "Born"},
	{"P570", "Died"},
	{"P19", "Place of birth"},
	{"P27", "Nationality"},
	{"P106", "Occupation"},
	{"P17", "Country"},
	{"P36", "Capital"},
	{"P1082", "Population"},
	{"P571", "Founded"},
	{"P112", "Founded by"},
	{"P159", "Headquarters"},
	{"P452", "Industry"},
	{"P856", "Website"},
	{"P1448", "Official name"},
	{"P18", "Image"},
}

type Engine struct {
	client *http.Client
	cache  *cache.Store
	logger zerolog.Logger
}

func New(client *http.Client, store *cache.Store, logger zerolog.Logger) *Engine {
	return &Engine{client: client, cache: store, logger: logger}
}

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Thumbnail   struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// GetPanel implements §4.9's 5-step algorithm.
func (e *Engine) GetPanel(ctx context.Context, query string) (*Panel, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, apierr.Validation("empty query")
	}

	if e.cache != nil {
		if raw, err := e.cache.GetKnowledge(ctx, normalized); err == nil {
			var cached Panel
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	summary, err := e.fetchSummary(ctx, query)
	if err != nil {
		return nil, err
	}
	if summary.Type == "disambiguation" || summary.Extract == "" {
		fallbackTitle, err := e.searchFallbackTitle(ctx, query)
		if err != nil {
			return nil, err
		}
		summary, err = e.fetchSummary(ctx, fallbackTitle)
		if err != nil {
			return nil, err
		}
	}

	if len(summary.Extract) < minExtractLength {
		return nil, apierr.NotFound("no knowledge panel for " + query)
	}

	panel := &Panel{
		Title:       summary.Title,
		Subtitle:    summary.Description,
		Description: summary.Extract,
		Image:       summary.Thumbnail.Source,
		Source:      "wikipedia",
	}
	if summary.ContentURLs.Desktop.Page != "" {
		panel.Links = []Link{{Title: summary.Title, URL: summary.ContentURLs.Desktop.Page}}
	}

	if facts, err := e.enrichWithWikidata(ctx, summary.Title); err == nil {
		panel.Facts = facts
	}

	if e.cache != nil {
		if raw, err := json.Marshal(panel); err == nil {
			_ = e.cache.SetKnowledge(ctx, normalized, raw)
		}
	}

	return panel, nil
}

func (e *Engine) fetchSummary(ctx context.Context, title string) (*wikiSummary, error) {
	endpoint := "https://en.wikipedia.org/api/rest_v1/page/summary/" + url.PathEscape(title)

	var out wikiSummary
	err := utils.RetryWithBackoff(ctx, e.logger, utils.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return apierr.NotFound("no Wikipedia page for " + title)
		}
		if resp.StatusCode != http.StatusOK {
			return apierr.Upstream("wikipedia", resp.StatusCode, nil)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

func (e *Engine) searchFallbackTitle(ctx context.Context, query string) (string, error) {
	endpoint := "https://en.wikipedia.org/w/api.php?action=query&list=search&format=json&srsearch=" + url.QueryEscape(query)

	var parsed wikiSearchResponse
	err := utils.RetryWithBackoff(ctx, e.logger, utils.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return apierr.Upstream("wikipedia", resp.StatusCode, nil)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &parsed)
	})
	if err != nil {
		return "", err
	}
	if len(parsed.Query.Search) == 0 {
		return "", apierr.NotFound("no Wikipedia search results for " + query)
	}
	return parsed.Query.Search[0].Title, nil
}

type wikidataSearchResponse struct {
	Search []struct {
		ID string `json:"id"`
	} `json:"search"`
}

type wikidataEntitiesResponse struct {
	Entities map[string]struct {
		Claims map[string][]struct {
			MainSnak struct {
				DataValue struct {
					Value json.RawMessage `json:"value"`
					Type  string          `json:"type"`
				} `json:"datavalue"`
			} `json:"mainsnak"`
		} `json:"claims"`
	} `json:"entities"`
}

// enrichWithWikidata implements §4.9 step 4: wbsearchentities →
// wbgetentities, extracting up to the first claim per whitelisted
// property, in whitelist order so facts render deterministically.
func (e *Engine) enrichWithWikidata(ctx context.Context, title string) ([]Fact, error) {
	searchEndpoint := "https://www.wikidata.org/w/api.php?action=wbsearchentities&format=json&language=en&search=" + url.QueryEscape(title)

	var searchResp wikidataSearchResponse
	if err := e.getJSON(ctx, searchEndpoint, &searchResp, "wikidata"); err != nil {
		return nil, err
	}
	if len(searchResp.Search) == 0 {
		return nil, apierr.NotFound("no Wikidata entity for " + title)
	}
	entityID := searchResp.Search[0].ID

	entitiesEndpoint := fmt.Sprintf("https://www.wikidata.org/w/api.php?action=wbgetentities&format=json&ids=%s&props=claims", entityID)
	var entitiesResp wikidataEntitiesResponse
	if err := e.getJSON(ctx, entitiesEndpoint, &entitiesResp, "wikidata"); err != nil {
		return nil, err
	}

	entity, ok := entitiesResp.Entities[entityID]
	if !ok {
		return nil, apierr.NotFound("entity not found in wbgetentities response: " + entityID)
	}

	var facts []Fact
	for _, w := range whitelist {
		claims, ok := entity.Claims[w.property]
		if !ok || len(claims) == 0 {
			continue
		}
		value := extractClaimValue(claims[0].MainSnak.DataValue.Type, claims[0].MainSnak.DataValue.Value)
		if value != "" {
			facts = append(facts, Fact{Label: w.label, Value: value})
		}
	}
	return facts, nil
}

func (e *Engine) getJSON(ctx context.Context, endpoint string, out any, source string) error {
	return utils.RetryWithBackoff(ctx, e.logger, utils.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return apierr.Upstream(source, resp.StatusCode, nil)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, out)
	})
}
