package backend

import (
	"context"
	"time"

	"financeiro/internal/kv"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the key-value store and optional cleanup function
type BackendResult struct {
	Store   kv.Store
	Cleanup CleanupFunc
}

// Factory creates storage backends based on configuration
type Factory interface {
	// CreateBackend creates a key-value store based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// JSON file specific
	JSONFileDir string

	// Transaction cache, shared by every backend
	CacheSize int
	CacheTTL  time.Duration
}

// BackendType represents the type of storage backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	JSONFileBackend BackendType = "jsonfile"
	MemoryBackend   BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, JSONFileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
