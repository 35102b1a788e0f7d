package httpapi

import (
	"net/http"
	"strconv"

	"github.com/wayfind/metasearch-core/pipeline"
)

// handleSearch backs /api/search and its image/video/news verticals; the
// vertical's file type is fixed per-route rather than read from the query
// string.
func (s *Server) handleSearch(fileType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := requireQuery(w, r, "q")
		if !ok {
			return
		}

		opts := pipeline.Options{
			Page:       atoiOr(r.URL.Query().Get("page"), 1),
			PerPage:    atoiOr(r.URL.Query().Get("per_page"), 10),
			TimeRange:  r.URL.Query().Get("time"),
			Region:     r.URL.Query().Get("region"),
			Language:   r.URL.Query().Get("lang"),
			SafeSearch: r.URL.Query().Get("safe"),
			Site:       r.URL.Query().Get("site"),
			Lens:       r.URL.Query().Get("lens"),
			FileType:   fileType,
		}

		resp, err := s.pipeline.Search(r.Context(), q, opts)
		s.logRequest(r, err)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func atoiOr(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
