// Package cache keeps fetched documents and lookup results between calls.
package cache

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/minio/highwayhash"

	"github.com/ppiankov/campusfaq/internal/model"
)

// keyHashSeed must stay 32 bytes; changing it orphans existing disk entries
var keyHashSeed = []byte("campusfaq-cache-key-seed-v1-0000")

// Cache defines the interface for caching. A ttl of 0 means the
// implementation's default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key namespaces and hashes a value into a cache key,
// e.g. Key("doc", url) or Key("lookup", query)
func Key(namespace, value string) string {
	hash := highwayhash.Sum64([]byte(value), keyHashSeed)
	return "campusfaq:v1:" + namespace + ":" + strconv.FormatUint(hash, 16)
}

// GetJSON decodes the cached value for key into v. A nil cache, a miss and
// an undecodable entry all report false.
func GetJSON(c Cache, key string, v any) bool {
	if c == nil {
		return false
	}
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON encodes v and stores it under key. A nil cache is a no-op.
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(key, data, ttl)
}

// New builds the fetched-document cache described by cfg: memory in front of
// disk, or memory only when no directory is configured. Returns nil when
// caching is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
