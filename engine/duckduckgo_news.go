package engine

import (
	"encoding/json"
	"net/url"
	"time"
)

type duckDuckGoNewsEngine struct{}

// NewDuckDuckGoNewsEngine returns the DuckDuckGo News adapter (C2), again
// dependent on an orchestrator-supplied vqd token.
func NewDuckDuckGoNewsEngine() Engine { return duckDuckGoNewsEngine{} }

func (duckDuckGoNewsEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "duckduckgo news",
		Shortcut:   "ddgn",
		Categories: []Category{CategoryNews},
		TimeoutMs:  8000,
		Weight:     1.0,
	}
}

func (duckDuckGoNewsEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("o", "json")
	if vqd, _ := params.EngineData["vqd"].(string); vqd != "" {
		q.Set("vqd", vqd)
	}
	return Request{
		URL:     "https://duckduckgo.com/news.js?" + q.Encode(),
		Method:  "GET",
		Headers: map[string]string{"Referer": "https://duckduckgo.com/"},
	}, nil
}

func (duckDuckGoNewsEngine) ParseResponse(body []byte, params Params) (Results, error) {
	var payload struct {
		Results []struct {
			Title   string `json:"title"`
			Excerpt string `json:"excerpt"`
			URL     string `json:"url"`
			Source  string `json:"source"`
			Date    int64  `json:"date"` // unix seconds
			Image   string `json:"image"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Results{}, err
	}

	var out Results
	for _, r := range payload.Results {
		res := Result{
			URL:          r.URL,
			Title:        r.Title,
			Content:      r.Excerpt,
			Source:       r.Source,
			ThumbnailURL: r.Image,
			Category:     CategoryNews,
			Template:     TemplateNews,
		}
		if r.Date > 0 {
			res.PublishedAt = time.Unix(r.Date, 0).UTC().Format(time.RFC3339)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
