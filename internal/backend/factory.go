package backend

import (
	"context"
	"fmt"
	"log/slog"

	"financeiro/internal/kv"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case JSONFileBackend:
		return f.createJSONFileBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := kv.NewSQLite(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createJSONFileBackend(config Config) (*BackendResult, error) {
	store, err := kv.NewJSONFile(config.JSONFileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JSON file store: %w", err)
	}

	f.logger.Info("Initialized JSON file backend", "data_directory", config.JSONFileDir)

	return &BackendResult{
		Store:   store,
		Cleanup: nil, // No cleanup needed for file-backed store
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Store:   kv.NewMemory(),
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
