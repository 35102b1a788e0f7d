// Package cache implements the cache store (C5): typed getters/setters
// over a kv.Store, one TTL class per space, and a fast rolling hash for
// composite query keys (§4.5). Concurrent lookups for the same key are
// collapsed with golang.org/x/sync/singleflight, the way the teacher's
// retry helper collapses duplicate work at the call-site rather than at
// the transport.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wayfind/metasearch-core/kv"
)

// TTL classes (§3).
const (
	TTLSearch    = 300 * time.Second
	TTLSuggest   = 60 * time.Second
	TTLKnowledge = 3600 * time.Second
	TTLInstant   = 600 * time.Second
)

// Store wraps a kv.Store with the four typed cache spaces spec.md's C5
// defines: search, suggest, knowledge, instant.
type Store struct {
	kv    kv.Store
	group singleflight.Group
}

func New(backing kv.Store) *Store {
	return &Store{kv: backing}
}

// Key is the composite cache key from invariant I6: a query is never
// keyed on its text alone, but on the full tuple of parameters that can
// change the result set.
type Key struct {
	Query      string
	Page       int
	PerPage    int
	TimeRange  string
	Region     string
	Language   string
	SafeSearch string
	Site       string
	Lens       string
}

// Hash renders the composite key as a base36 rolling hash (§4.5):
// collision-tolerant, since a miss-on-collision degrades to a cache miss
// rather than returning a wrong value.
func (k Key) Hash() string {
	s := k.Query + "\x00" + strconv.Itoa(k.Page) + "\x00" + strconv.Itoa(k.PerPage) +
		"\x00" + k.TimeRange + "\x00" + k.Region + "\x00" + k.Language +
		"\x00" + k.SafeSearch + "\x00" + k.Site + "\x00" + k.Lens
	return rollingHash(s)
}

// rollingHash is a fast 32-bit hash (FNV-1a over the bytes), rendered in
// base36. It is not cryptographic; it only
// needs to be deterministic and low-collision for cache keys (P1).
func rollingHash(s string) string {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return strconv.FormatUint(uint64(h), 36)
}

func searchKey(hash string) string     { return "search:" + hash }
func suggestKey(hash string) string    { return "suggest:" + hash }
func knowledgeKey(query string) string { return "knowledge:" + query }
func instantKey(hash string) string    { return "instant:" + hash }

// GetSearch returns the cached bytes for a search composite key, or
// kv.ErrNotFound on miss.
func (s *Store) GetSearch(ctx context.Context, k Key) ([]byte, error) {
	return s.kv.Get(ctx, searchKey(k.Hash()))
}

func (s *Store) SetSearch(ctx context.Context, k Key, value []byte) error {
	return s.kv.Set(ctx, searchKey(k.Hash()), value, TTLSearch)
}

func (s *Store) GetSuggest(ctx context.Context, k Key) ([]byte, error) {
	return s.kv.Get(ctx, suggestKey(k.Hash()))
}

func (s *Store) SetSuggest(ctx context.Context, k Key, value []byte) error {
	return s.kv.Set(ctx, suggestKey(k.Hash()), value, TTLSuggest)
}

func (s *Store) GetKnowledge(ctx context.Context, query string) ([]byte, error) {
	return s.kv.Get(ctx, knowledgeKey(query))
}

func (s *Store) SetKnowledge(ctx context.Context, query string, value []byte) error {
	return s.kv.Set(ctx, knowledgeKey(query), value, TTLKnowledge)
}

func (s *Store) GetInstant(ctx context.Context, k Key) ([]byte, error) {
	return s.kv.Get(ctx, instantKey(k.Hash()))
}

func (s *Store) SetInstant(ctx context.Context, k Key, value []byte) error {
	return s.kv.Set(ctx, instantKey(k.Hash()), value, TTLInstant)
}

// GetOrCompute looks up space+hash, and on miss calls compute exactly
// once even under concurrent callers for the same key (singleflight),
// storing the JSON-marshaled result under ttl before returning it.
func GetOrCompute[T any](ctx context.Context, s *Store, space, hash string, ttl time.Duration, compute func() (T, error)) (T, error) {
	var zero T
	key := space + ":" + hash

	if raw, err := s.kv.Get(ctx, key); err == nil {
		var out T
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
			return out, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		value, computeErr := compute()
		if computeErr != nil {
			return nil, computeErr
		}
		if raw, marshalErr := json.Marshal(value); marshalErr == nil {
			_ = s.kv.Set(ctx, key, raw, ttl)
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
