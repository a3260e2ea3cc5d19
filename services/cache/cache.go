package cache

import (
	"time"
)

// CacheService stores short-lived control state shared across fetchers.
// The worker currently uses it for provider cooldown markers set after an
// upstream rate limit.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
