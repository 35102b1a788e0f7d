package engine

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wayfind/metasearch-core/htmlx"
)

type arxivEngine struct{}

// NewArxivEngine returns the arXiv adapter (C2), parsing the Atom/XML
// export API with the htmlx XML primitives.
func NewArxivEngine() Engine { return arxivEngine{} }

func (arxivEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "arxiv",
		Shortcut:   "a",
		Categories: []Category{CategoryScience},
		TimeoutMs:  8000,
		Weight:     1.0,
	}
}

func (arxivEngine) BuildRequest(query string, params Params) (Request, error) {
	start := (clampPage(params.Page) - 1) * 10
	q := url.Values{}
	q.Set("search_query", "all:"+query)
	q.Set("start", strconv.Itoa(start))
	q.Set("max_results", "10")
	return Request{URL: "https://export.arxiv.org/api/query?" + q.Encode(), Method: "GET"}, nil
}

func (arxivEngine) ParseResponse(body []byte, params Params) (Results, error) {
	xml := string(body)
	var out Results

	for _, entry := range htmlx.GetElementsByTagName(xml, "entry") {
		title := collapseWhitespace(htmlx.GetTextContent(entry, "title"))
		summary := collapseWhitespace(htmlx.GetTextContent(entry, "summary"))
		id := strings.TrimSpace(htmlx.GetTextContent(entry, "id"))
		published := strings.TrimSpace(htmlx.GetTextContent(entry, "published"))
		doi := strings.TrimSpace(htmlx.GetTextContent(entry, "arxiv:doi"))
		journal := strings.TrimSpace(htmlx.GetTextContent(entry, "arxiv:journal_ref"))

		var authors []string
		for _, a := range htmlx.GetElementsByTagName(entry, "author") {
			if name := strings.TrimSpace(htmlx.GetTextContent(a, "name")); name != "" {
				authors = append(authors, name)
			}
		}

		pdfURL := id
		for _, link := range htmlx.GetElementsByTagName(entry, "link") {
			if htmlx.AttributeValue(link, "title") == "pdf" {
				if href := htmlx.AttributeValue(link, "href"); href != "" {
					pdfURL = href
				}
			}
		}

		if id == "" || title == "" {
			continue
		}

		res := Result{
			URL:      id,
			Title:    title,
			Content:  summary,
			Authors:  authors,
			DOI:      doi,
			Journal:  journal,
			Category: CategoryScience,
			Template: TemplatePaper,
			EmbedURL: pdfURL,
		}
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			res.PublishedAt = t.Format(time.RFC3339)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
