// Package cache stores encoded edge results keyed by a hash of their inputs.
//
// Three implementations are provided:
//   - NullCache never stores anything; it is the default when no backend is configured.
//   - MemoryCache keeps entries in process memory with optional expiry.
//   - RedisCache stores entries in Redis so several service instances can share them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a miss as (nil, false, nil); the error return is reserved for
// backend failures. A zero TTL means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds a cache key of the form prefix:sha256(parts...).
func Key(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data as a 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// New returns a RedisCache when redisAddr is set, otherwise a MemoryCache when
// memory is true and a NullCache when it is not.
func New(ctx context.Context, redisAddr string, memory bool) (Cache, error) {
	switch {
	case redisAddr != "":
		return NewRedisCache(ctx, redisAddr)
	case memory:
		return NewMemoryCache(), nil
	default:
		return NewNullCache(), nil
	}
}
