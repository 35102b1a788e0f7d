package engine

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wayfind/metasearch-core/htmlx"
)

// arcIDClock produces the process-wide, hourly-rotating arc_id Google's web
// adapter embeds in its async payload. Concurrent reads are safe: the
// worst case under a race is two goroutines regenerating the same id for
// the same hour, which is idempotent.
type arcIDClock struct {
	mu       sync.Mutex
	hour     int64
	arcID    string
}

var googleArcIDClock arcIDClock

func (c *arcIDClock) current() string {
	hour := time.Now().Unix() / 3600
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hour != hour || c.arcID == "" {
		c.hour = hour
		c.arcID = fmt.Sprintf("srp_%d", hour)
	}
	return c.arcID
}

type googleEngine struct{}

// NewGoogleEngine returns the Google web-search adapter (C2).
func NewGoogleEngine() Engine { return googleEngine{} }

func (googleEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:           "google",
		Shortcut:       "g",
		Categories:     []Category{CategoryGeneral},
		SupportsPaging: true,
		MaxPage:        10,
		TimeoutMs:      8000,
		Weight:         1.4,
	}
}

func (googleEngine) BuildRequest(query string, params Params) (Request, error) {
	start := (clampPage(params.Page) - 1) * 10
	arcID := googleArcIDClock.current()

	q := url.Values{}
	q.Set("q", query)
	q.Set("asearch", "arc")
	q.Set("async", fmt.Sprintf("arc_id:%s,use_ac:true,_fmt:prog", arcID))
	q.Set("start", strconv.Itoa(start))

	switch params.TimeRange {
	case TimeRangeDay:
		q.Set("tbs", "qdr:d")
	case TimeRangeWeek:
		q.Set("tbs", "qdr:w")
	case TimeRangeMonth:
		q.Set("tbs", "qdr:m")
	case TimeRangeYear:
		q.Set("tbs", "qdr:y")
	}

	switch params.SafeSearch {
	case SafeSearchOff:
		q.Set("safe", "off")
	case SafeSearchModerate:
		q.Set("safe", "medium")
	case SafeSearchStrict:
		q.Set("safe", "high")
	}

	return Request{
		URL:    "https://www.google.com/search?" + q.Encode(),
		Method: "GET",
		Cookies: []Cookie{
			{Name: "CONSENT", Value: "YES+"},
		},
	}, nil
}

func (googleEngine) ParseResponse(body []byte, params Params) (Results, error) {
	html := string(body)

	var out Results
	seen := make(map[string]bool)

	containers := htmlx.FindElements(html, "div.g")
	if primary := htmlx.FindElements(html, "div.MjjYud"); len(primary) > 0 {
		containers = primary
	}

	for _, block := range containers {
		if strings.Contains(block, "g-blk") {
			continue
		}
		res, ok := parseGoogleBlock(block)
		if !ok || seen[res.URL] {
			continue
		}
		seen[res.URL] = true
		out.Results = append(out.Results, res)
	}

	for _, s := range htmlx.FindElements(html, "div.AB4Wff") {
		if text := htmlx.ExtractText(s); text != "" {
			out.Suggestions = append(out.Suggestions, text)
		}
	}

	return out, nil
}

func parseGoogleBlock(block string) (Result, bool) {
	links := htmlx.FindElements(block, "a")
	var link string
	for _, a := range links {
		href := htmlx.AttributeValue(a, "href")
		if href == "" || strings.HasPrefix(href, "#") {
			continue
		}
		link = href
		break
	}
	if link == "" {
		return Result{}, false
	}

	link = unwrapGoogleRedirect(link)
	if host := hostOf(link); host == "google.com" || strings.HasSuffix(host, ".google.com") {
		if !strings.Contains(host, "translate.google") {
			return Result{}, false
		}
	}

	titles := htmlx.FindElements(block, "h3")
	title := ""
	if len(titles) > 0 {
		title = htmlx.ExtractText(titles[0])
	}
	if title == "" {
		return Result{}, false
	}

	content := htmlx.ExtractText(block)
	content = strings.TrimSpace(strings.TrimPrefix(content, title))

	return Result{
		URL:      link,
		Title:    title,
		Content:  content,
		Category: CategoryGeneral,
	}, true
}

// unwrapGoogleRedirect strips Google's /url?q=...&sa=U wrapper.
func unwrapGoogleRedirect(link string) string {
	if !strings.Contains(link, "/url?") {
		return link
	}
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	if q := u.Query().Get("q"); q != "" {
		return q
	}
	return link
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
