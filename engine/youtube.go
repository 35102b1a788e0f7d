package engine

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

type youtubeEngine struct{}

// NewYouTubeEngine returns the YouTube adapter (C2), which extracts the
// ytInitialData JSON blob embedded in the results HTML.
func NewYouTubeEngine() Engine { return youtubeEngine{} }

func (youtubeEngine) Descriptor() Descriptor {
	return Descriptor{
		Name:       "youtube",
		Shortcut:   "yt",
		Categories: []Category{CategoryVideos},
		TimeoutMs:  8000,
		Weight:     1.2,
	}
}

func (youtubeEngine) BuildRequest(query string, params Params) (Request, error) {
	q := url.Values{}
	q.Set("search_query", query)
	return Request{URL: "https://www.youtube.com/results?" + q.Encode(), Method: "GET"}, nil
}

var ytInitialDataRe = regexp.MustCompile(`(?s)ytInitialData\s*=\s*(\{.*?\});`)

func (youtubeEngine) ParseResponse(body []byte, params Params) (Results, error) {
	m := ytInitialDataRe.FindSubmatch(body)
	if m == nil {
		return Results{}, nil
	}

	var data struct {
		Contents struct {
			TwoColumnSearchResultsRenderer struct {
				PrimaryContents struct {
					SectionListRenderer struct {
						Contents []struct {
							ItemSectionRenderer struct {
								Contents []struct {
									VideoRenderer struct {
										VideoID string `json:"videoId"`
										Title   struct {
											Runs []struct {
												Text string `json:"text"`
											} `json:"runs"`
										} `json:"title"`
										LengthText struct {
											SimpleText string `json:"simpleText"`
										} `json:"lengthText"`
										OwnerText struct {
											Runs []struct {
												Text string `json:"text"`
											} `json:"runs"`
										} `json:"ownerText"`
										ViewCountText struct {
											SimpleText string `json:"simpleText"`
										} `json:"viewCountText"`
										DescriptionSnippet struct {
											Runs []struct {
												Text string `json:"text"`
											} `json:"runs"`
										} `json:"descriptionSnippet"`
									} `json:"videoRenderer"`
								} `json:"contents"`
							} `json:"itemSectionRenderer"`
						} `json:"contents"`
					} `json:"sectionListRenderer"`
				} `json:"primaryContents"`
			} `json:"twoColumnSearchResultsRenderer"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(m[1], &data); err != nil {
		return Results{}, nil
	}

	var out Results
	sections := data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, section := range sections {
		for _, item := range section.ItemSectionRenderer.Contents {
			v := item.VideoRenderer
			if v.VideoID == "" {
				continue
			}
			out.Results = append(out.Results, Result{
				URL:      "https://www.youtube.com/watch?v=" + v.VideoID,
				Title:    joinRuns(v.Title.Runs),
				Content:  joinRuns(v.DescriptionSnippet.Runs),
				EmbedURL: "https://www.youtube.com/embed/" + v.VideoID,
				Duration: v.LengthText.SimpleText,
				Channel:  joinRuns(v.OwnerText.Runs),
				Views:    parseViewCount(v.ViewCountText.SimpleText),
				Category: CategoryVideos,
				Template: TemplateVideos,
			})
		}
	}
	return out, nil
}

func joinRuns(runs []struct {
	Text string `json:"text"`
}) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

var digitsRe = regexp.MustCompile(`[\d,]+`)

func parseViewCount(s string) int64 {
	m := digitsRe.FindString(s)
	m = strings.ReplaceAll(m, ",", "")
	n, _ := strconv.ParseInt(m, 10, 64)
	return n
}
