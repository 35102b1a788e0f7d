package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/wayfind/metasearch-core/records"
)

type successBody struct {
	Success bool `json:"success"`
}

// -- preferences --

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.records.ListPreferences(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleSetPreference(w http.ResponseWriter, r *http.Request) {
	var p records.Preference
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.records.SetPreference(r.Context(), p); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) handleDeletePreference(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeletePreference(r.Context(), r.PathValue("domain")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

// -- lenses --

func (s *Server) handleListLenses(w http.ResponseWriter, r *http.Request) {
	lenses, err := s.records.ListLenses(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lenses)
}

func (s *Server) handleCreateLens(w http.ResponseWriter, r *http.Request) {
	var l records.Lens
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	created, err := s.records.CreateLens(r.Context(), l)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleGetLens(w http.ResponseWriter, r *http.Request) {
	l, err := s.records.GetLens(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateLens(w http.ResponseWriter, r *http.Request) {
	var l records.Lens
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	l.ID = r.PathValue("id")
	if err := s.records.UpdateLens(r.Context(), l); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) handleDeleteLens(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteLens(r.Context(), r.PathValue("id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

// -- history --

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.records.ListHistory(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.records.ClearHistory(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.records.DeleteHistoryEntry(r.Context(), r.PathValue("id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

// -- settings / widgets --

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.records.GetSettings(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.records.GetSettings(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&current); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.records.PutSettings(r.Context(), current); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleGetWidgetSettings(w http.ResponseWriter, r *http.Request) {
	widgets, err := s.records.GetWidgetSettings(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, widgets)
}

func (s *Server) handlePutWidgetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.records.GetWidgetSettings(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&current); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.records.PutWidgetSettings(r.Context(), current); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}
