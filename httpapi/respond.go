// Package httpapi mounts the §6.1 HTTP surface as a set of http.Handlers
// on a plain *http.ServeMux; no routing framework is vendored (§6.1
// implementation note) — this package is importable independent of any
// router, and main.go is the only place that actually listens.
package httpapi

import (
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/wayfind/metasearch-core/apierr"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeErr maps an apierr.Kind to a status code and writes the JSON error
// shape every handler shares: {"error": "..."}.
func writeErr(w http.ResponseWriter, err error) {
	switch apierr.KindOf(err) {
	case apierr.KindValidation:
		writeError(w, err.Error(), http.StatusBadRequest)
	case apierr.KindNotFound:
		writeError(w, err.Error(), http.StatusNotFound)
	case apierr.KindUpstream:
		writeError(w, err.Error(), http.StatusBadGateway)
	default:
		writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

func requireQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		writeError(w, "Missing required parameter: "+name, http.StatusBadRequest)
		return "", false
	}
	return v, true
}
