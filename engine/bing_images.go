package engine

import (
	"encoding/json"
	"net/url"

	"github.com/wayfind/metasearch-core/htmlx"
)

type bingImagesEngine struct{}

// NewBingImagesEngine returns the Bing Images adapter (C2).
func NewBingImagesEngine() Engine { return bingImagesEngine{} }

func (bingImagesEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "bing images",
		Shortcut:   "bi",
		Categories: []Category{CategoryImages},
		TimeoutMs:  8000,
		Weight:     1.0,
	}
}

func (bingImagesEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("first", "1")
	return Request{URL: "https://www.bing.com/images/search?" + q.Encode(), Method: "GET"}, nil
}

func (bingImagesEngine) ParseResponse(body []byte, params Params) (Results, error) {
	html := string(body)
	var out Results

	for _, block := range htmlx.FindElements(html, "a.iusc") {
		m := htmlx.AttributeValue(block, "m")
		if m == "" {
			continue
		}
		var meta struct {
			Murl string `json:"murl"`
			Turl string `json:"turl"`
			T    string `json:"t"`
			Purl string `json:"purl"`
		}
		if err := json.Unmarshal([]byte(m), &meta); err != nil {
			continue
		}
		if meta.Murl == "" {
			continue
		}
		out.Results = append(out.Results, Result{
			URL:          firstNonEmpty(meta.Purl, meta.Murl),
			ImageURL:     meta.Murl,
			ThumbnailURL: meta.Turl,
			Title:        meta.T,
			Category:     CategoryImages,
			Template:     TemplateImages,
		})
	}

	return out, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
