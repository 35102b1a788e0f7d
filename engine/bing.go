package engine

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"

	"github.com/wayfind/metasearch-core/htmlx"
)

type bingEngine struct{}

// NewBingEngine returns the Bing web-search adapter (C2).
func NewBingEngine() Engine { return bingEngine{} }

func (bingEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:           "bing",
		Shortcut:       "b",
		Categories:     []Category{CategoryGeneral},
		SupportsPaging: true,
		MaxPage:        10,
		TimeoutMs:      8000,
		Weight:         1.2,
	}
}

func (bingEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	first := (clampPage(params.Page)-1)*10 + 1
	q.Set("first", strconv.Itoa(first))

	if f := bingTimeFilter(params.TimeRange); f != "" {
		q.Set("filters", f)
	}

	locale := params.Locale
	if locale == "" || locale == "all" {
		locale = "en-US"
	}

	return Request{
		URL:     "https://www.bing.com/search?" + q.Encode(),
		Method:  "GET",
		Headers: map[string]string{"Accept-Language": locale},
		Cookies: []Cookie{{Name: "_EDGE_CD", Value: "m=" + strings.ToLower(locale)}},
	}, nil
}

// bingTimeFilter maps a time range to Bing's private filters: ex1 uses a
// "ez{1|2|3|5}" token for day/week/month/year; interval/age-lt are the
// alternate encodings Bing's client also sends.
func bingTimeFilter(tr TimeRange) string {
	switch tr {
	case TimeRangeDay:
		return `ex1:"ez1"`
	case TimeRangeWeek:
		return `ex1:"ez2"`
	case TimeRangeMonth:
		return `ex1:"ez3"`
	case TimeRangeYear:
		return `ex1:"ez5"`
	default:
		return ""
	}
}

func (bingEngine) ParseResponse(body []byte, params Params) (Results, error) {
	html := string(body)
	var out Results

	containers := htmlx.FindElements(html, "li.b_algo")
	if len(containers) == 0 {
		containers = htmlx.FindElements(html, "div.b_algo")
	}

	for _, block := range containers {
		res, ok := parseBingBlock(block)
		if ok {
			out.Results = append(out.Results, res)
		}
	}

	return out, nil
}

func parseBingBlock(block string) (Result, bool) {
	h2s := htmlx.FindElements(block, "h2")
	var link, title string
	if len(h2s) > 0 {
		as := htmlx.FindElements(h2s[0], "a")
		if len(as) > 0 {
			title = htmlx.ExtractText(as[0])
			link = htmlx.AttributeValue(as[0], "href")
		}
	}
	if link == "" || title == "" {
		return Result{}, false
	}
	link = decodeBingRedirect(link)

	snippet := ""
	if caps := htmlx.FindElements(block, "div.b_caption"); len(caps) > 0 {
		snippet = htmlx.ExtractText(caps[0])
	} else if ps := htmlx.FindElements(block, "p"); len(ps) > 0 {
		snippet = htmlx.ExtractText(ps[0])
	}

	return Result{
		URL:      link,
		Title:    title,
		Content:  snippet,
		Category: CategoryGeneral,
	}, true
}

// decodeBingRedirect reverses Bing's click-tracking wrapper: if the
// redirect's "u" parameter starts with "a1", that prefix is stripped and
// the remainder base64url-decoded to recover the destination.
func decodeBingRedirect(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	encoded := u.Query().Get("u")
	if encoded == "" {
		return link
	}
	if !strings.HasPrefix(encoded, "a1") {
		return link
	}
	decoded, err := base64.RawURLEncoding.DecodeString(encoded[2:])
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(encoded[2:])
		if err != nil {
			return link
		}
	}
	return string(decoded)
}
