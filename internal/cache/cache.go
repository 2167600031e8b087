// Package cache provides the in-memory cache used for fetched pages
// on the CLI extract path. LLM responses are never cached.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for page caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// PageKey generates a cache key from a URL.
func PageKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "claimlens:page:v1:" + hex.EncodeToString(hash[:])
}
