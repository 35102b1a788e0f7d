// Package instant implements the instant-answer engine (C8): six
// pattern-dispatched widgets (calculator, unit conversion, currency,
// weather, definition, time). The first matching pattern wins; if none
// match, Detect returns (nil, nil) per §4.8's "returns null" contract —
// a failed computation is likewise swallowed to nil, never propagated as
// an error, matching the teacher's posture of keeping leaf failures out
// of the user-facing response.
package instant

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/apierr"
)

// Answer is the tagged union every widget ultimately produces; exactly
// one of the typed fields is populated, matching Type.
type Answer struct {
	Type       string         `json:"type"`
	Calculator *CalcResult    `json:"calculator,omitempty"`
	Conversion *UnitResult    `json:"conversion,omitempty"`
	Currency   *FXResult      `json:"currency,omitempty"`
	Weather    *WeatherResult `json:"weather,omitempty"`
	Definition *DefineResult  `json:"definition,omitempty"`
	Time       *TimeResult    `json:"time,omitempty"`
}

// Engine dispatches a raw query string to the first matching widget.
type Engine struct {
	client   *http.Client
	currency *currencyResolver
	logger   zerolog.Logger
}

func New(client *http.Client, currency *currencyResolver, logger zerolog.Logger) *Engine {
	return &Engine{client: client, currency: currency, logger: logger}
}

// Detect runs every pattern in the order spec.md's §4.8 lists them and
// dispatches to the first match. A nil, nil return means no widget
// recognized the query; a nil Answer with a non-nil error is never
// returned to a caller outside this package — Detect itself swallows
// computation failures to (nil, nil).
func (e *Engine) Detect(ctx context.Context, query string) (*Answer, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	if looksLikeCalculation(q) {
		if result, err := Calculate(q); err == nil {
			return &Answer{Type: "calculator", Calculator: result}, nil
		}
		return nil, nil
	}

	if amount, unitFrom, unitTo, ok := parseConversionQuery(q); ok {
		if result, err := ConvertUnit(amount, unitFrom, unitTo); err == nil {
			return &Answer{Type: "unit_conversion", Conversion: result}, nil
		}
		return nil, nil
	}

	if amount, from, to, ok := parseCurrencyQuery(q); ok {
		if result, err := e.currency.Convert(ctx, amount, from, to); err == nil {
			return &Answer{Type: "currency", Currency: result}, nil
		}
		return nil, nil
	}

	if location, ok := parseWeatherQuery(q); ok {
		if result, err := fetchWeather(ctx, e.client, e.logger, location); err == nil {
			return &Answer{Type: "weather", Weather: result}, nil
		}
		return nil, nil
	}

	if word, ok := parseDefineQuery(q); ok {
		if result, err := fetchDefinition(ctx, e.client, e.logger, word); err == nil {
			return &Answer{Type: "definition", Definition: result}, nil
		}
		return nil, nil
	}

	if location, ok := parseTimeQuery(q); ok {
		if result, err := ResolveTime(location); err == nil {
			return &Answer{Type: "time", Time: result}, nil
		}
		return nil, nil
	}

	return nil, nil
}

// The following methods back /api/instant/{widget} (§6.1), where the
// caller already names which widget it wants — unlike Detect, a
// non-matching or failing query here surfaces as a typed apierr error
// instead of being swallowed to nil.

func (e *Engine) CalculateQuery(q string) (*CalcResult, error) {
	q = strings.TrimSpace(q)
	if !looksLikeCalculation(q) {
		return nil, apierr.Validation("not a calculator expression: " + q)
	}
	return Calculate(q)
}

func (e *Engine) ConvertQuery(q string) (*UnitResult, error) {
	amount, unitFrom, unitTo, ok := parseConversionQuery(strings.TrimSpace(q))
	if !ok {
		return nil, apierr.Validation("not a unit conversion query: " + q)
	}
	return ConvertUnit(amount, unitFrom, unitTo)
}

func (e *Engine) CurrencyQuery(ctx context.Context, q string) (*FXResult, error) {
	amount, from, to, ok := parseCurrencyQuery(strings.TrimSpace(q))
	if !ok {
		return nil, apierr.Validation("not a currency conversion query: " + q)
	}
	return e.currency.Convert(ctx, amount, from, to)
}

func (e *Engine) WeatherQuery(ctx context.Context, q string) (*WeatherResult, error) {
	location, ok := parseWeatherQuery(strings.TrimSpace(q))
	if !ok {
		return nil, apierr.Validation("not a weather query: " + q)
	}
	return fetchWeather(ctx, e.client, e.logger, location)
}

func (e *Engine) DefineQuery(ctx context.Context, q string) (*DefineResult, error) {
	word, ok := parseDefineQuery(strings.TrimSpace(q))
	if !ok {
		return nil, apierr.Validation("not a definition query: " + q)
	}
	return fetchDefinition(ctx, e.client, e.logger, word)
}

func (e *Engine) TimeQuery(q string) (*TimeResult, error) {
	location, ok := parseTimeQuery(strings.TrimSpace(q))
	if !ok {
		return nil, apierr.Validation("not a time query: " + q)
	}
	return ResolveTime(location)
}
