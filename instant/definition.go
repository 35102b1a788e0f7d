package instant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/apierr"
	"github.com/wayfind/metasearch-core/utils"
)

// DefineResult is the dictionary widget's answer.
type DefineResult struct {
	Word         string   `json:"word"`
	Phonetic     string   `json:"phonetic"`
	PartOfSpeech string   `json:"part_of_speech"`
	Definitions  []string `json:"definitions"`
	Synonyms     []string `json:"synonyms"`
	Antonyms     []string `json:"antonyms"`
	Examples     []string `json:"examples"`
}

var defineQueryRe = regexp.MustCompile(`(?i)^\s*(?:define|meaning of)\s+(.+?)\s*$`)

// parseDefineQuery implements §4.8's pattern: `define WORD` / `meaning of
// WORD`.
func parseDefineQuery(q string) (word string, ok bool) {
	m := defineQueryRe.FindStringSubmatch(q)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return "", false
	}
	return m[1], true
}

type dictionaryEntry struct {
	Phonetic string `json:"phonetic"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string   `json:"definition"`
			Example    string   `json:"example"`
			Synonyms   []string `json:"synonyms"`
			Antonyms   []string `json:"antonyms"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// fetchDefinition calls the public dictionaryapi.dev API and caps each
// field per §4.8: up to 5 definitions, up to 10 synonyms/antonyms, up to
// 3 examples.
func fetchDefinition(ctx context.Context, client *http.Client, logger zerolog.Logger, word string) (*DefineResult, error) {
	endpoint := "https://api.dictionaryapi.dev/api/v2/entries/en/" + url.PathEscape(word)

	var entries []dictionaryEntry
	err := utils.RetryWithBackoff(ctx, logger, utils.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return apierr.Upstream("dictionaryapi", resp.StatusCode, nil)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &entries)
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apierr.NotFound(fmt.Sprintf("no definition found for %q", word))
	}

	result := &DefineResult{Word: word, Phonetic: entries[0].Phonetic}

	for _, entry := range entries {
		for _, meaning := range entry.Meanings {
			if result.PartOfSpeech == "" {
				result.PartOfSpeech = meaning.PartOfSpeech
			}
			for _, def := range meaning.Definitions {
				if len(result.Definitions) < 5 {
					result.Definitions = append(result.Definitions, def.Definition)
				}
				if def.Example != "" && len(result.Examples) < 3 {
					result.Examples = append(result.Examples, def.Example)
				}
				for _, syn := range def.Synonyms {
					if len(result.Synonyms) < 10 {
						result.Synonyms = append(result.Synonyms, syn)
					}
				}
				for _, ant := range def.Antonyms {
					if len(result.Antonyms) < 10 {
						result.Antonyms = append(result.Antonyms, ant)
					}
				}
			}
		}
	}

	return result, nil
}
