package engine

import (
	"net/url"

	"github.com/wayfind/metasearch-core/htmlx"
)

type bingNewsEngine struct{}

// NewBingNewsEngine returns the Bing News adapter (C2).
func NewBingNewsEngine() Engine { return bingNewsEngine{} }

func (bingNewsEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "bing news",
		Shortcut:   "bn",
		Categories: []Category{CategoryNews},
		TimeoutMs:  8000,
		Weight:     1.0,
	}
}

func (bingNewsEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)

	switch params.TimeRange {
	case TimeRangeDay:
		q.Set("qft", `interval="7"`)
	case TimeRangeWeek:
		q.Set("qft", `interval="9"`)
	case TimeRangeMonth:
		q.Set("qft", `interval="4"`)
	}

	return Request{URL: "https://www.bing.com/news/search?" + q.Encode(), Method: "GET"}, nil
}

func (bingNewsEngine) ParseResponse(body []byte, params Params) (Results, error) {
	html := string(body)
	var out Results

	for _, block := range htmlx.FindElements(html, "div.news-card") {
		as := htmlx.FindElements(block, "a.title")
		if len(as) == 0 {
			continue
		}
		link := htmlx.AttributeValue(as[0], "href")
		title := htmlx.ExtractText(as[0])
		if link == "" || title == "" {
			continue
		}

		snippet := ""
		if snips := htmlx.FindElements(block, "div.snippet"); len(snips) > 0 {
			snippet = htmlx.ExtractText(snips[0])
		}

		source := ""
		if srcs := htmlx.FindElements(block, "div.source"); len(srcs) > 0 {
			source = htmlx.ExtractText(srcs[0])
		}

		out.Results = append(out.Results, Result{
			URL:      link,
			Title:    title,
			Content:  snippet,
			Source:   source,
			Category: CategoryNews,
			Template: TemplateNews,
		})
	}

	return out, nil
}
