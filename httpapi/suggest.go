package httpapi

import (
	"net/http"

	"github.com/wayfind/metasearch-core/suggest"
)

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQuery(w, r, "q")
	if !ok {
		return
	}
	results, err := s.suggest.Suggest(r.Context(), q)
	s.logRequest(r, err)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// trendingEntry adds the frequency field §6.1's trending route names;
// Trending() itself has no notion of frequency (it's a fixed list), so a
// descending synthetic rank stands in for it here at the HTTP boundary.
type trendingEntry struct {
	Text      string `json:"text"`
	Type      string `json:"type"`
	Frequency int    `json:"frequency"`
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	fixed := suggest.Trending()
	out := make([]trendingEntry, len(fixed))
	for i, t := range fixed {
		out[i] = trendingEntry{Text: t.Text, Type: t.Type, Frequency: len(fixed) - i}
	}
	writeJSON(w, http.StatusOK, out)
}
