package engine

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

type githubEngine struct{}

// NewGitHubEngine returns the GitHub adapter (C2), which calls the
// repository search API and formats star counts via go-humanize.
func NewGitHubEngine() Engine { return githubEngine{} }

func (githubEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "github",
		Shortcut:   "gh",
		Categories: []Category{CategoryIT},
		TimeoutMs:  8000,
		Weight:     1.0,
	}
}

func (githubEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", "10")
	q.Set("page", strconv.Itoa(clampPage(params.Page)))
	return Request{
		URL:     "https://api.github.com/search/repositories?" + q.Encode(),
		Method:  "GET",
		Headers: map[string]string{"Accept": "application/vnd.github+json"},
	}, nil
}

func (githubEngine) ParseResponse(body []byte, params Params) (Results, error) {
	var payload struct {
		Items []struct {
			FullName    string   `json:"full_name"`
			HTMLURL     string   `json:"html_url"`
			Description string   `json:"description"`
			Language    string   `json:"language"`
			Stars       int64    `json:"stargazers_count"`
			Topics      []string `json:"topics"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Results{}, err
	}

	var out Results
	for _, item := range payload.Items {
		topics := item.Topics
		if len(topics) > 5 {
			topics = topics[:5]
		}
		out.Results = append(out.Results, Result{
			URL:      item.HTMLURL,
			Title:    item.FullName,
			Content:  strings.Join(append([]string{item.Description}, topics...), " · "),
			Language: item.Language,
			Stars:    formatStars(item.Stars),
			Topics:   topics,
			Category: CategoryIT,
			Template: TemplatePackages,
		})
	}
	return out, nil
}

// formatStars renders a GitHub star count the way the web UI does:
// 1.2k, 3.4M.
func formatStars(n int64) string {
	if n < 1000 {
		return humanize.Comma(n)
	}
	return strings.ReplaceAll(humanize.SIWithDigits(float64(n), 1, ""), " ", "")
}
