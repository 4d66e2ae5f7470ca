// Package cache stores rendered preference graphs so that an unchanged
// ledger is not laid out twice.
//
// Graphviz layout is by far the slowest step of drawing a graph. Keys are
// derived from the DOT source with [Key], so any change to the decisions or
// their styling misses the cache.
//
// Three implementations are provided: [FileCache] for the CLI, which keeps
// renders across runs under the user cache directory, [MemoryCache] for the
// HTTP server, and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key returns "kind:sha256(data)".
func Key(kind string, data []byte) string {
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
