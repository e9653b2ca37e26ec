package kv

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// JSONFile stores one file per key under a data directory. Writes go
// through a temp file and rename, so a crashed write never leaves a
// half-written blob behind.
type JSONFile struct {
	dir string
}

func NewJSONFile(dir string) (*JSONFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONFile{dir: dir}, nil
}

func (s *JSONFile) path(key string) string {
	// Keys contain ':'; escape so every key maps to a safe filename.
	return filepath.Join(s.dir, url.QueryEscape(key)+".json")
}

func (s *JSONFile) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *JSONFile) Set(_ context.Context, key string, value []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (s *JSONFile) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *JSONFile) Close() error {
	return nil
}
