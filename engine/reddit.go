package engine

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

type redditEngine struct{}

// NewRedditEngine returns the Reddit adapter (C2), calling
// /search.json and filtering invalid thumbnails.
func NewRedditEngine() Engine { return redditEngine{} }

func (redditEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "reddit",
		Shortcut:   "r",
		Categories: []Category{CategorySocial},
		TimeoutMs:  8000,
		Weight:     0.9,
	}
}

func (redditEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "25")
	q.Set("sort", "relevance")
	if tr := redditTimeFilter(params.TimeRange); tr != "" {
		q.Set("t", tr)
	}
	return Request{URL: "https://www.reddit.com/search.json?" + q.Encode(), Method: "GET"}, nil
}

func redditTimeFilter(tr TimeRange) string {
	switch tr {
	case TimeRangeDay:
		return "day"
	case TimeRangeWeek:
		return "week"
	case TimeRangeMonth:
		return "month"
	case TimeRangeYear:
		return "year"
	default:
		return ""
	}
}

var invalidThumbnails = map[string]bool{
	"self": true, "default": true, "nsfw": true, "spoiler": true, "": true,
}

func (redditEngine) ParseResponse(body []byte, params Params) (Results, error) {
	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Title        string  `json:"title"`
					Selftext     string  `json:"selftext"`
					Permalink    string  `json:"permalink"`
					Subreddit    string  `json:"subreddit_name_prefixed"`
					Thumbnail    string  `json:"thumbnail"`
					CreatedUTC   float64 `json:"created_utc"`
					NumComments  int64   `json:"num_comments"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Results{}, err
	}

	var out Results
	for _, c := range payload.Data.Children {
		d := c.Data
		if d.Permalink == "" {
			continue
		}
		content := d.Selftext
		if len(content) > 500 {
			content = content[:500]
		}

		res := Result{
			URL:      "https://www.reddit.com" + d.Permalink,
			Title:    d.Title,
			Content:  content,
			Source:   d.Subreddit,
			Category: CategorySocial,
			PublishedAt: time.Unix(int64(d.CreatedUTC), 0).UTC().Format(time.RFC3339),
		}
		if thumb := strings.ToLower(d.Thumbnail); !invalidThumbnails[thumb] && strings.HasPrefix(d.Thumbnail, "http") {
			res.ThumbnailURL = d.Thumbnail
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}
