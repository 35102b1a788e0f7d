package engine

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// duckDuckGoImagesEngine reads its vqd token from params.EngineData; if
// absent BuildRequest still produces a URL, but the Executor's fetch will
// fail — the orchestrator is responsible for pre-fetching vqd (§4.2, §9)
// before scheduling this engine.
type duckDuckGoImagesEngine struct{}

// NewDuckDuckGoImagesEngine returns the DuckDuckGo Images adapter (C2).
func NewDuckDuckGoImagesEngine() Engine { return duckDuckGoImagesEngine{} }

func (duckDuckGoImagesEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "duckduckgo images",
		Shortcut:   "ddgi",
		Categories: []Category{CategoryImages},
		TimeoutMs:  8000,
		Weight:     1.0,
	}
}

func (duckDuckGoImagesEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("o", "json")
	if vqd, _ := params.EngineData["vqd"].(string); vqd != "" {
		q.Set("vqd", vqd)
	}
	return Request{
		URL:     "https://duckduckgo.com/i.js?" + q.Encode(),
		Method:  "GET",
		Headers: map[string]string{"Referer": "https://duckduckgo.com/"},
	}, nil
}

func (duckDuckGoImagesEngine) ParseResponse(body []byte, params Params) (Results, error) {
	var payload struct {
		Results []struct {
			Image     string `json:"image"`
			Thumbnail string `json:"thumbnail"`
			Title     string `json:"title"`
			URL       string `json:"url"`
			Source    string `json:"source"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Results{}, err
	}

	var out Results
	for _, r := range payload.Results {
		out.Results = append(out.Results, Result{
			URL:          firstNonEmpty(r.URL, r.Image),
			ImageURL:     r.Image,
			ThumbnailURL: r.Thumbnail,
			Title:        r.Title,
			Source:       r.Source,
			Category:     CategoryImages,
			Template:     TemplateImages,
			Resolution:   fmt.Sprintf("%dx%d", r.Width, r.Height),
		})
	}
	return out, nil
}
