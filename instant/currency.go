package instant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfind/metasearch-core/apierr"
	"github.com/wayfind/metasearch-core/kv"
	"github.com/wayfind/metasearch-core/utils"
)

// FXResult is the currency widget's answer.
type FXResult struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
}

const currencyCacheTTL = 1 * time.Hour

// allowedCurrencies is the fixed 40-code set §4.8 names.
var allowedCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "CHF": true, "CAD": true,
	"AUD": true, "NZD": true, "CNY": true, "HKD": true, "SGD": true, "INR": true,
	"KRW": true, "MXN": true, "BRL": true, "ZAR": true, "SEK": true, "NOK": true,
	"DKK": true, "PLN": true, "RUB": true, "TRY": true, "THB": true, "MYR": true,
	"IDR": true, "PHP": true, "VND": true, "AED": true, "SAR": true, "ILS": true,
	"EGP": true, "NGN": true, "KES": true, "CZK": true, "HUF": true, "RON": true,
	"CLP": true, "COP": true, "ARS": true, "TWD": true,
}

var currencyQueryRe = regexp.MustCompile(`(?i)^\s*(-?\d+(?:\.\d+)?)\s*([a-zA-Z]{3})\s+(?:to|in)\s+([a-zA-Z]{3})\s*$`)

// parseCurrencyQuery implements §4.8's currency pattern: `N ccy {to|in} ccy`.
func parseCurrencyQuery(q string) (amount float64, from, to string, ok bool) {
	m := currencyQueryRe.FindStringSubmatch(q)
	if m == nil {
		return 0, "", "", false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", "", false
	}
	from = strings.ToUpper(m[2])
	to = strings.ToUpper(m[3])
	if !allowedCurrencies[from] || !allowedCurrencies[to] {
		return 0, "", "", false
	}
	return amount, from, to, true
}

type memoEntry struct {
	rate    float64
	fetched time.Time
}

// currencyResolver cascades rate lookup: in-process memo (<=1h) → KV
// cache under currency:{from}_{to} → upstream provider, populating both
// caches on success (§4.8).
type currencyResolver struct {
	mu     sync.Mutex
	memo   map[string]memoEntry
	client *http.Client
	kv     kv.Store
	logger zerolog.Logger
}

func NewCurrencyResolver(client *http.Client, store kv.Store, logger zerolog.Logger) *currencyResolver {
	return &currencyResolver{
		memo:   make(map[string]memoEntry),
		client: client,
		kv:     store,
		logger: logger,
	}
}

func (r *currencyResolver) Convert(ctx context.Context, amount float64, from, to string) (*FXResult, error) {
	rate, err := r.rate(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &FXResult{
		Amount:    amount,
		From:      from,
		To:        to,
		Rate:      rate,
		Converted: amount * rate,
	}, nil
}

func (r *currencyResolver) rate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1.0, nil
	}
	pairKey := from + "_" + to
	cacheKey := "currency:" + pairKey

	r.mu.Lock()
	if e, ok := r.memo[pairKey]; ok && time.Since(e.fetched) <= time.Hour {
		r.mu.Unlock()
		return e.rate, nil
	}
	r.mu.Unlock()

	if r.kv != nil {
		if raw, err := r.kv.Get(ctx, cacheKey); err == nil {
			var cached float64
			if json.Unmarshal(raw, &cached) == nil {
				r.memoize(pairKey, cached)
				return cached, nil
			}
		}
	}

	rate, err := fetchFrankfurterRate(ctx, r.client, r.logger, from, to)
	if err != nil {
		return 0, err
	}

	r.memoize(pairKey, rate)
	if r.kv != nil {
		if raw, err := json.Marshal(rate); err == nil {
			_ = r.kv.Set(ctx, cacheKey, raw, currencyCacheTTL)
		}
	}
	return rate, nil
}

func (r *currencyResolver) memoize(pairKey string, rate float64) {
	r.mu.Lock()
	r.memo[pairKey] = memoEntry{rate: rate, fetched: time.Now()}
	r.mu.Unlock()
}

type frankfurterResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func fetchFrankfurterRate(ctx context.Context, client *http.Client, logger zerolog.Logger, from, to string) (float64, error) {
	url := fmt.Sprintf("https://api.frankfurter.app/latest?from=%s&to=%s", from, to)

	var rate float64
	err := utils.RetryWithBackoff(ctx, logger, utils.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return apierr.Upstream("frankfurter", resp.StatusCode, nil)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		var parsed frankfurterResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return err
		}
		got, ok := parsed.Rates[to]
		if !ok {
			return apierr.Upstream("frankfurter", resp.StatusCode, fmt.Errorf("missing rate for %s", to))
		}
		rate = got
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rate, nil
}
