package engine

import (
	"encoding/json"
	"net/url"
)

type duckDuckGoVideosEngine struct{}

// NewDuckDuckGoVideosEngine returns the DuckDuckGo Videos adapter (C2).
// Like the Images adapter, it needs params.EngineData["vqd"] pre-fetched
// by the orchestrator.
func NewDuckDuckGoVideosEngine() Engine { return duckDuckGoVideosEngine{} }

func (duckDuckGoVideosEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "duckduckgo videos",
		Shortcut:   "ddgv",
		Categories: []Category{CategoryVideos},
		TimeoutMs:  8000,
		Weight:     1.0,
	}
}

func (duckDuckGoVideosEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("o", "json")
	if vqd, _ := params.EngineData["vqd"].(string); vqd != "" {
		q.Set("vqd", vqd)
	}
	return Request{
		URL:     "https://duckduckgo.com/v.js?" + q.Encode(),
		Method:  "GET",
		Headers: map[string]string{"Referer": "https://duckduckgo.com/"},
	}, nil
}

func (duckDuckGoVideosEngine) ParseResponse(body []byte, params Params) (Results, error) {
	var payload struct {
		Results []struct {
			Title       string `json:"title"`
			Content     string `json:"content"`
			Description string `json:"description"`
			Duration    string `json:"duration"`
			Publisher   string `json:"publisher"`
			Images      struct {
				Large string `json:"large"`
			} `json:"images"`
			Embed struct {
				Src string `json:"src"`
			} `json:"embed_html"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Results{}, err
	}

	var out Results
	for _, r := range payload.Results {
		out.Results = append(out.Results, Result{
			URL:          r.Content,
			Title:        r.Title,
			Content:      r.Description,
			ThumbnailURL: r.Images.Large,
			Duration:     r.Duration,
			Channel:      r.Publisher,
			Category:     CategoryVideos,
			Template:     TemplateVideos,
		})
	}
	return out, nil
}
