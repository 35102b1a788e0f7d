package httpapi

import "net/http"

type widgetKind int

const (
	widgetCalculate widgetKind = iota
	widgetConvert
	widgetCurrency
	widgetWeather
	widgetDefine
	widgetTime
)

// instantAnswer is the §6.1 response shape {type,query,answer} — a
// flatter envelope than instant.Answer's tagged union, since here the
// widget is already known from the route.
type instantAnswer struct {
	Type   string `json:"type"`
	Query  string `json:"query"`
	Answer any    `json:"answer"`
}

func (s *Server) handleInstant(kind widgetKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := requireQuery(w, r, "q")
		if !ok {
			return
		}

		var typ string
		var answer any
		var err error

		switch kind {
		case widgetCalculate:
			typ = "calculator"
			answer, err = s.instant.CalculateQuery(q)
		case widgetConvert:
			typ = "unit_conversion"
			answer, err = s.instant.ConvertQuery(q)
		case widgetCurrency:
			typ = "currency"
			answer, err = s.instant.CurrencyQuery(r.Context(), q)
		case widgetWeather:
			typ = "weather"
			answer, err = s.instant.WeatherQuery(r.Context(), q)
		case widgetDefine:
			typ = "definition"
			answer, err = s.instant.DefineQuery(r.Context(), q)
		case widgetTime:
			typ = "time"
			answer, err = s.instant.TimeQuery(q)
		}

		s.logRequest(r, err)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, instantAnswer{Type: typ, Query: q, Answer: answer})
	}
}
