// Package kv is the local key-value substrate behind every persisted
// collection. Each key holds one serialized blob; there is no cross-key
// atomicity and the last write wins.
package kv

import "context"

// Store is a local blob store. Get reports a missing key as
// (nil, false, nil) rather than an error; errors are reserved for
// storage-layer faults.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
