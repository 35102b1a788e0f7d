package engine

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/wayfind/metasearch-core/htmlx"
)

type googleImagesEngine struct{}

// NewGoogleImagesEngine returns the Google Images adapter (C2).
func NewGoogleImagesEngine() Engine { return googleImagesEngine{} }

func (googleImagesEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:           "google images",
		Shortcut:       "gi",
		Categories:     []Category{CategoryImages},
		SupportsPaging: true,
		MaxPage:        5,
		TimeoutMs:      8000,
		Weight:         1.2,
	}
}

func (googleImagesEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("tbm", "isch")
	q.Set("async", fmt.Sprintf("_fmt:json,p:1,ijn:%d", clampPage(params.Page)-1))

	return Request{
		URL:     "https://www.google.com/search?" + q.Encode(),
		Method:  "GET",
		Cookies: []Cookie{{Name: "CONSENT", Value: "YES+"}},
	}, nil
}

var imageTripleRe = regexp.MustCompile(`\["(https?://[^"]+\.(?:jpg|jpeg|png|webp|gif))",\s*(\d+),\s*(\d+)\]`)

func (googleImagesEngine) ParseResponse(body []byte, params Params) (Results, error) {
	var out Results

	if metadata, ok := extractIschjMetadata(body); ok {
		out.Results = append(out.Results, metadata...)
		return out, nil
	}

	for _, m := range imageTripleRe.FindAllSubmatch(body, -1) {
		w, _ := strconv.Atoi(string(m[2]))
		h, _ := strconv.Atoi(string(m[3]))
		out.Results = append(out.Results, Result{
			URL:          string(m[1]),
			ImageURL:     string(m[1]),
			ThumbnailURL: string(m[1]),
			Title:        htmlx.ExtractText(string(m[1])),
			Category:     CategoryImages,
			Template:     TemplateImages,
			Resolution:   fmt.Sprintf("%dx%d", w, h),
		})
	}

	return out, nil
}

// extractIschjMetadata looks for an embedded JSON object keyed by
// ischj.metadata, Google Images' structured result payload.
func extractIschjMetadata(body []byte) ([]Result, bool) {
	var raw map[string]json.RawMessage
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, false
	}
	metaRaw, ok := raw["ischj.metadata"]
	if !ok {
		return nil, false
	}

	var entries []struct {
		ResultURL    string `json:"result_url"`
		ThumbnailURL string `json:"thumbnail_url"`
		Title        string `json:"title"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
	}
	if err := sonic.Unmarshal(metaRaw, &entries); err != nil {
		return nil, false
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		results = append(results, Result{
			URL:          e.ResultURL,
			ImageURL:     e.ResultURL,
			ThumbnailURL: e.ThumbnailURL,
			Title:        e.Title,
			Category:     CategoryImages,
			Template:     TemplateImages,
			Resolution:   fmt.Sprintf("%dx%d", e.Width, e.Height),
		})
	}
	return results, true
}
