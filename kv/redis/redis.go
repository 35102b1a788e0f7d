// Package redis is the production kv.Store backend, wired when
// SEARCH_REDIS_ADDR is set (see main.go). List operations are implemented
// over a Redis list so ListAppend/ListRemove/ListRange match kv.Store's
// ordered semantics exactly.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wayfind/metasearch-core/kv"
)

type Store struct {
	client *redis.Client
}

// New connects to addr (parsed the way go-redis's own redis.ParseURL
// does for a "redis://" URL, or treated as a bare host:port otherwise)
// and pings it once so a bad address fails fast at startup.
func New(ctx context.Context, addr string) (*Store, error) {
	var opts *redis.Options
	if parsed, err := redis.ParseURL(addr); err == nil {
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, kv.ErrNotFound
	}
	return data, err
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Store) ListAppend(ctx context.Context, key string, member string) error {
	return s.client.RPush(ctx, key, member).Err()
}

func (s *Store) ListRemove(ctx context.Context, key string, member string) error {
	return s.client.LRem(ctx, key, 1, member).Err()
}

func (s *Store) ListRange(ctx context.Context, key string) ([]string, error) {
	return s.client.LRange(ctx, key, 0, -1).Result()
}
