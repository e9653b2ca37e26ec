// Package cache holds the read-side collection cache used by the storage
// layer. Entries expire by TTL and the cache is bounded by LRU eviction.
package cache

// Cache is a generic key/value cache.
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int
}
