package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLKV persists values to a single YAML file.
type YAMLKV struct {
	mu        sync.RWMutex
	path      string
	data      values
	listeners listeners
}

// OpenYAML loads the file at path. A missing file yields an empty store.
func OpenYAML(path string) (*YAMLKV, error) {
	store := &YAMLKV{path: path, data: values{}}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var fileData map[string]any
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return nil, fmt.Errorf("parse store yaml: %w", err)
	}
	for key, value := range fileData {
		switch typed := value.(type) {
		case int, bool, string:
			store.data[key] = typed
		}
	}
	return store, nil
}

// Path returns the backing file path.
func (store *YAMLKV) Path() string {
	return store.path
}

func (store *YAMLKV) IntWithFallback(key string, fallback int) int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.data.IntWithFallback(key, fallback)
}

func (store *YAMLKV) BoolWithFallback(key string, fallback bool) bool {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.data.BoolWithFallback(key, fallback)
}

func (store *YAMLKV) LookupString(key string) (string, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.data.LookupString(key)
}

// Edit writes the staged map to a temporary file and renames it over the
// store file. The in-memory view only changes when the write succeeded.
func (store *YAMLKV) Edit(ctx context.Context, apply func(Editor)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store.mu.Lock()
	staged := store.data.clone()
	apply(staged)
	if err := store.writeLocked(staged); err != nil {
		store.mu.Unlock()
		return err
	}
	store.data = staged
	store.mu.Unlock()

	store.listeners.notify()
	return nil
}

func (store *YAMLKV) OnChange(listener func()) {
	store.listeners.add(listener)
}

func (store *YAMLKV) writeLocked(data values) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	serialized, err := yaml.Marshal(map[string]any(data))
	if err != nil {
		return fmt.Errorf("marshal store yaml: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
