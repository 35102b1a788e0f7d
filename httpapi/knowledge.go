package httpapi

import (
	"net/http"
	"strings"
)

// handleKnowledge backs GET /api/knowledge/:query — the query is the path
// suffix after the mount point rather than a ?q= parameter, per §6.1's
// table.
func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimPrefix(r.URL.Path, "/api/knowledge/")
	if query == "" {
		writeError(w, "Missing required parameter: query", http.StatusBadRequest)
		return
	}

	panel, err := s.knowledge.GetPanel(r.Context(), query)
	s.logRequest(r, err)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, panel)
}
