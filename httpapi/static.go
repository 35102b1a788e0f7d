package httpapi

import "net/http"

// cheatsheetEntry is one bang/operator tip surfaced in the search bar's
// help panel. The real cheatsheet content is an out-of-scope external
// collaborator's data (spec.md's OUT OF SCOPE list names "cheatsheet
// static data" explicitly); what's built in here is a minimal
// placeholder so the route is wired and exercises the built-in bang
// table rather than fabricating a full content database.
type cheatsheetEntry struct {
	Syntax      string `json:"syntax"`
	Description string `json:"description"`
}

var cheatsheets = map[string][]cheatsheetEntry{
	"en": {
		{Syntax: "!g query", Description: "Search Google directly"},
		{Syntax: "!gh query", Description: "Search GitHub directly"},
		{Syntax: "10 km to mi", Description: "Convert units"},
		{Syntax: "2 + 2", Description: "Evaluate a calculator expression"},
		{Syntax: "weather in Paris", Description: "Get current weather"},
		{Syntax: "define ephemeral", Description: "Look up a word's definition"},
	},
}

func (s *Server) handleCheatsheet(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("language")
	entries, ok := cheatsheets[lang]
	if !ok {
		writeError(w, "no cheatsheet for language: "+lang, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCheatsheets(w http.ResponseWriter, r *http.Request) {
	languages := make([]string, 0, len(cheatsheets))
	for lang := range cheatsheets {
		languages = append(languages, lang)
	}
	writeJSON(w, http.StatusOK, languages)
}

// handleRelated derives related queries from the same suggest pipeline
// §4.10 already builds; "related" has no distinct data source of its own
// in the spec, so it is the suggest service under a different route name.
func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	q, ok := requireQuery(w, r, "q")
	if !ok {
		return
	}
	related, err := s.suggest.Suggest(r.Context(), q)
	s.logRequest(r, err)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, related)
}
