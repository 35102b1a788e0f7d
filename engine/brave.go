package engine

import (
	"net/url"
	"strconv"

	"github.com/wayfind/metasearch-core/htmlx"
)

type braveEngine struct{}

// NewBraveEngine returns the Brave web-search adapter (C2).
func NewBraveEngine() Engine { return braveEngine{} }

func (braveEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:           "brave",
		Shortcut:       "br",
		Categories:     []Category{CategoryGeneral},
		SupportsPaging: true,
		MaxPage:        9,
		TimeoutMs:      8000,
		Weight:         1.1,
	}
}

func (braveEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	if p := clampPage(params.Page); p > 1 {
		q.Set("offset", strconv.Itoa(p-1))
	}

	if tf := braveTimeFilter(params.TimeRange); tf != "" {
		q.Set("tf", tf)
	}

	return Request{
		URL:     "https://search.brave.com/search?" + q.Encode(),
		Method:  "GET",
		Cookies: []Cookie{{Name: "safesearch", Value: braveSafeSearch(params.SafeSearch)}},
	}, nil
}

func braveTimeFilter(tr TimeRange) string {
	switch tr {
	case TimeRangeDay:
		return "pd"
	case TimeRangeWeek:
		return "pw"
	case TimeRangeMonth:
		return "pm"
	case TimeRangeYear:
		return "py"
	default:
		return ""
	}
}

func braveSafeSearch(ss SafeSearch) string {
	switch ss {
	case SafeSearchOff:
		return "off"
	case SafeSearchStrict:
		return "strict"
	default:
		return "moderate"
	}
}

func (braveEngine) ParseResponse(body []byte, params Params) (Results, error) {
	html := string(body)
	var out Results

	for _, block := range htmlx.FindElements(html, "div.snippet") {
		res, ok := parseBraveBlock(block)
		if ok {
			out.Results = append(out.Results, res)
		}
	}

	return out, nil
}

func parseBraveBlock(block string) (Result, bool) {
	as := htmlx.FindElements(block, "a")
	var link, title string
	for _, a := range as {
		href := htmlx.AttributeValue(a, "href")
		if href == "" || href[0] == '#' {
			continue
		}
		link = href
		title = htmlx.ExtractText(a)
		break
	}
	if link == "" || title == "" {
		return Result{}, false
	}

	snippet := ""
	if descs := htmlx.FindElements(block, "div.snippet-description"); len(descs) > 0 {
		snippet = htmlx.ExtractText(descs[0])
	} else if ps := htmlx.FindElements(block, "p"); len(ps) > 0 {
		snippet = htmlx.ExtractText(ps[0])
	}

	return Result{URL: link, Title: title, Content: snippet, Category: CategoryGeneral}, true
}
