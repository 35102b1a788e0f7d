package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/wayfind/metasearch-core/bangs"
)

func (s *Server) handleListBangs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bangs.List(r.Context()))
}

func (s *Server) handleParseBang(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQuery(w, r, "q")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.bangs.Parse(r.Context(), q))
}

func (s *Server) handleCreateBang(w http.ResponseWriter, r *http.Request) {
	var b bangs.Bang
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.bangs.Create(r.Context(), b); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) handleDeleteBang(w http.ResponseWriter, r *http.Request) {
	if err := s.bangs.Delete(r.Context(), r.PathValue("trigger")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
