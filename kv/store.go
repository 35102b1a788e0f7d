// Package kv defines the out-of-scope KV record store's contract (C6):
// the interface the settings/widget/preference/lens/history/bang record
// spaces and the cache store (C5) persist through. Only the interface and
// two implementations (an in-memory default and a go-redis-backed one)
// live here; the routing/ops surface around a real deployment is the
// out-of-scope collaborator's job.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key has no value (live or
// expired).
var ErrNotFound = errors.New("kv: not found")

// Store is the minimal persistence contract every keyed space (C5, C6)
// is built on: byte-string values, an optional TTL, and ordered list
// append/remove for the secondary index arrays spec.md's C6 describes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// ListAppend appends a member to the ordered list at key (used for
	// {space}:_index secondary indexes).
	ListAppend(ctx context.Context, key string, member string) error
	// ListRemove removes the first occurrence of member from the list at
	// key.
	ListRemove(ctx context.Context, key string, member string) error
	// ListRange returns the full list at key, in insertion order.
	ListRange(ctx context.Context, key string) ([]string, error)
}
