package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is the minimal contract the cache layer needs from a backend.
// Implementations are treated as best-effort: callers must tolerate a
// nil Store or a failing one and fall through to live computation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisStore adapts a go-redis client to the Store interface.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Key builds a cache key from a prefix and the query fields that
// determine the cached value. Every field that shapes the result must
// be included, otherwise distinct queries collide on one entry.
func Key(prefix string, parts ...interface{}) string {
	b := strings.Builder{}
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(fmt.Sprint(p))
	}
	return b.String()
}

// GetOrCompute returns the cached value for key when present, otherwise
// runs compute and caches its JSON encoding with the given TTL.
//
// Cache failures never fail the call: a nil store skips caching
// entirely, read errors fall through to compute, and write errors are
// logged and swallowed. Concurrent writers for the same key are
// last-writer-wins; values are derived deterministically from the same
// query, so no locking is needed.
func GetOrCompute[T any](ctx context.Context, store Store, log *logger.Logger, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	if store != nil {
		cached, err := store.Get(ctx, key)
		if err == nil {
			var value T
			if err := json.Unmarshal([]byte(cached), &value); err == nil {
				return value, nil
			}
			// Corrupt entry, recompute and overwrite below.
			log.Warn("discarding undecodable cache entry", zap.String("key", key))
		} else if !errors.Is(err, ErrMiss) {
			log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	if store != nil {
		data, err := json.Marshal(value)
		if err != nil {
			log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
			return value, nil
		}
		if err := store.Set(ctx, key, string(data), ttl); err != nil {
			log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return value, nil
}
