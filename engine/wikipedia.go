package engine

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/wayfind/metasearch-core/htmlx"
)

type wikipediaEngine struct{}

// NewWikipediaEngine returns the Wikipedia adapter (C2), calling the
// MediaWiki search API in the language derived from the locale.
func NewWikipediaEngine() Engine { return wikipediaEngine{} }

func (wikipediaEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "wikipedia",
		Shortcut:   "w",
		Categories: []Category{CategoryGeneral},
		TimeoutMs:  6000,
		Weight:     1.3,
	}
}

// wikipediaLang resolves a BCP-47 locale (or "all"/"") to the MediaWiki
// subdomain language, falling back to "en".
func wikipediaLang(locale string) string {
	if locale == "" || locale == "all" {
		return "en"
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	if base.String() == "" {
		return "en"
	}
	return base.String()
}

func (wikipediaEngine) BuildRequest(query string, params Params) (Request, error) {
	lang := wikipediaLang(params.Locale)
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", query)
	q.Set("format", "json")
	q.Set("srlimit", "10")

	return Request{
		URL:    fmt.Sprintf("https://%s.wikipedia.org/w/api.php?%s", lang, q.Encode()),
		Method: "GET",
	}, nil
}

func (wikipediaEngine) ParseResponse(body []byte, params Params) (Results, error) {
	lang := wikipediaLang(params.Locale)

	var payload struct {
		Query struct {
			Search []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Results{}, err
	}

	var out Results
	for _, s := range payload.Query.Search {
		snippet := htmlx.ExtractText(s.Snippet)
		articleURL := fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, strings.ReplaceAll(s.Title, " ", "_"))
		out.Results = append(out.Results, Result{
			URL:      articleURL,
			Title:    s.Title,
			Content:  snippet,
			Category: CategoryGeneral,
		})
	}
	return out, nil
}
