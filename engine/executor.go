package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/wayfind/metasearch-core/apierr"
)

// Executor applies the shared request lifecycle (timeout, cookies,
// user-agent, redirects, circuit breaking) around a pure Engine, the way
// the teacher's search engines each built their own *http.Client with a
// fixed Timeout and browser-like headers. Engines themselves never log;
// the executor is the boundary where an upstream failure becomes a
// logged event (§ ambient stack).
type Executor struct {
	client *http.Client
	logger zerolog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// NewExecutor builds an Executor sharing one *http.Client (and therefore
// one connection pool) across every engine; per-engine timeouts are
// applied via context, not the client's own Timeout field, since a single
// client is shared. A zero-value logger is a valid no-op logger.
func NewExecutor(logger zerolog.Logger) *Executor {
	return &Executor{
		client:   &http.Client{},
		logger:   logger,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (e *Executor) breakerFor(name string) *gobreaker.CircuitBreaker {
	e.mu.Lock()
	defer e.mu.Unlock()
	if b, ok := e.breakers[name]; ok {
		return b
	}
	b := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn().Str("engine", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	e.breakers[name] = b
	return b
}

// Execute builds, fetches and parses a single engine's response, applying
// descriptor.TimeoutMs as a hard per-engine deadline. A non-2xx status or
// a timeout both surface as an apierr.Upstream error naming the engine and
// the upstream status (0 for transport-level failures); the caller is
// expected to recover locally, per the error handling design.
func (e *Executor) Execute(ctx context.Context, eng Engine, query string, params Params) (Results, error) {
	desc := eng.Descriptor()

	timeout := time.Duration(desc.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	breaker := e.breakerFor(desc.Name)
	out, err := breaker.Execute(func() (any, error) {
		return e.doExecute(ctx, eng, desc, query, params)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			e.logger.Debug().Str("engine", desc.Name).Msg("circuit open, skipping request")
			return Results{}, apierr.Upstream(desc.Name, 0, err)
		}
		e.logger.Warn().Err(err).Str("engine", desc.Name).Msg("engine request failed")
		return Results{}, err
	}
	return out.(Results), nil
}

func (e *Executor) doExecute(ctx context.Context, eng Engine, desc Descriptor, query string, params Params) (Results, error) {
	req, err := eng.BuildRequest(query, params)
	if err != nil {
		return Results{}, apierr.Upstream(desc.Name, 0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, methodOrDefault(req.Method), req.URL, bodyReader(req.Body))
	if err != nil {
		return Results{}, apierr.Upstream(desc.Name, 0, err)
	}

	httpReq.Header.Set("User-Agent", defaultUserAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if cookie := mergeCookies(req.Cookies); cookie != "" {
		httpReq.Header.Set("Cookie", cookie)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return Results{}, apierr.Upstream(desc.Name, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Results{}, apierr.Upstream(desc.Name, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Results{}, apierr.Upstream(desc.Name, resp.StatusCode, err)
	}

	results, err := eng.ParseResponse(body, params)
	if err != nil {
		return Results{}, apierr.Upstream(desc.Name, resp.StatusCode, err)
	}

	for i := range results.Results {
		results.Results[i].Engine = desc.Name
		if results.Results[i].Score == 0 {
			results.Results[i].Score = desc.Weight
		}
	}

	return results, nil
}

func methodOrDefault(m string) string {
	if m == "" {
		return http.MethodGet
	}
	return m
}

func bodyReader(b []byte) io.Reader {
	if b == nil {
		return nil
	}
	return strings.NewReader(string(b))
}

func mergeCookies(cookies []Cookie) string {
	if len(cookies) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, fmt.Sprintf("%s=%s", c.Name, c.Value))
	}
	return strings.Join(parts, "; ")
}
