package httpapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/bangs"
	"github.com/wayfind/metasearch-core/instant"
	"github.com/wayfind/metasearch-core/knowledge"
	"github.com/wayfind/metasearch-core/pipeline"
	"github.com/wayfind/metasearch-core/records"
	"github.com/wayfind/metasearch-core/suggest"
)

// Server wires every component package's surface into the set of handlers
// §6.1 names. It logs at request granularity and, like the pipeline, the
// executor and the upstream-calling components, carries its logger as a
// field rather than using a package-global logger.
type Server struct {
	pipeline  *pipeline.Pipeline
	suggest   *suggest.Service
	instant   *instant.Engine
	knowledge *knowledge.Engine
	bangs     *bangs.Store
	records   *records.Store
	logger    zerolog.Logger
}

func New(p *pipeline.Pipeline, sg *suggest.Service, ie *instant.Engine, ke *knowledge.Engine, bs *bangs.Store, rs *records.Store, logger zerolog.Logger) *Server {
	return &Server{
		pipeline:  p,
		suggest:   sg,
		instant:   ie,
		knowledge: ke,
		bangs:     bs,
		records:   rs,
		logger:    logger,
	}
}

// Mux builds a fresh *http.ServeMux with every route mounted. main.go owns
// the listener, TLS, and graceful shutdown around it.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/search", s.handleSearch(""))
	mux.HandleFunc("GET /api/search/images", s.handleSearch("image"))
	mux.HandleFunc("GET /api/search/videos", s.handleSearch("video"))
	mux.HandleFunc("GET /api/search/news", s.handleSearch("news"))

	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/suggest/trending", s.handleTrending)

	mux.HandleFunc("GET /api/instant/calculate", s.handleInstant(widgetCalculate))
	mux.HandleFunc("GET /api/instant/convert", s.handleInstant(widgetConvert))
	mux.HandleFunc("GET /api/instant/currency", s.handleInstant(widgetCurrency))
	mux.HandleFunc("GET /api/instant/weather", s.handleInstant(widgetWeather))
	mux.HandleFunc("GET /api/instant/define", s.handleInstant(widgetDefine))
	mux.HandleFunc("GET /api/instant/time", s.handleInstant(widgetTime))

	mux.HandleFunc("GET /api/knowledge/", s.handleKnowledge)

	mux.HandleFunc("GET /api/preferences", s.handleListPreferences)
	mux.HandleFunc("POST /api/preferences", s.handleSetPreference)
	mux.HandleFunc("DELETE /api/preferences/{domain}", s.handleDeletePreference)

	mux.HandleFunc("GET /api/lenses", s.handleListLenses)
	mux.HandleFunc("POST /api/lenses", s.handleCreateLens)
	mux.HandleFunc("GET /api/lenses/{id}", s.handleGetLens)
	mux.HandleFunc("PUT /api/lenses/{id}", s.handleUpdateLens)
	mux.HandleFunc("DELETE /api/lenses/{id}", s.handleDeleteLens)

	mux.HandleFunc("GET /api/history", s.handleListHistory)
	mux.HandleFunc("DELETE /api/history", s.handleClearHistory)
	mux.HandleFunc("DELETE /api/history/{id}", s.handleDeleteHistoryEntry)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handlePutSettings)

	mux.HandleFunc("GET /api/widgets", s.handleGetWidgetSettings)
	mux.HandleFunc("PUT /api/widgets", s.handlePutWidgetSettings)

	mux.HandleFunc("GET /api/bangs", s.handleListBangs)
	mux.HandleFunc("GET /api/bangs/parse", s.handleParseBang)
	mux.HandleFunc("POST /api/bangs", s.handleCreateBang)
	mux.HandleFunc("DELETE /api/bangs/{trigger}", s.handleDeleteBang)

	mux.HandleFunc("GET /api/cheatsheet/{language}", s.handleCheatsheet)
	mux.HandleFunc("GET /api/cheatsheets", s.handleCheatsheets)
	mux.HandleFunc("GET /api/related", s.handleRelated)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "metasearch-core"})
}

// logRequest is called by handlers that reach an upstream or a store, the
// way the executor logs only at its own boundary rather than leaf engines
// logging directly.
func (s *Server) logRequest(r *http.Request, err error) {
	if err != nil {
		s.logger.Warn().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		return
	}
	s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request handled")
}
