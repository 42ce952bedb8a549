package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileBackend persists all entries in a single JSON document. Every mutation
// rewrites the file so the CLI keeps its cache between invocations.
type FileBackend struct {
	path    string
	mu      sync.Mutex
	entries map[string]json.RawMessage
}

// NewFileBackend loads the cache document at path, creating it lazily on the
// first write. A corrupt document is discarded rather than failing startup.
func NewFileBackend(path string) (*FileBackend, error) {
	fb := &FileBackend{
		path:    path,
		entries: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fb, nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return fb, nil
	}
	if err := json.Unmarshal(data, &fb.entries); err != nil {
		fb.entries = make(map[string]json.RawMessage)
	}
	return fb, nil
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (f *FileBackend) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("file cache backend only stores JSON values")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = append(json.RawMessage(nil), value...)
	return f.save()
}

func (f *FileBackend) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[key]; !ok {
		return nil
	}
	delete(f.entries, key)
	return f.save()
}

func (f *FileBackend) DeletePrefix(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.entries {
		if strings.HasPrefix(k, prefix) {
			delete(f.entries, k)
		}
	}
	return f.save()
}

func (f *FileBackend) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]json.RawMessage)
	return f.save()
}

func (f *FileBackend) Ping(context.Context) error {
	return os.MkdirAll(filepath.Dir(f.path), 0700)
}

func (f *FileBackend) Close() error { return nil }

// save writes the document to a temporary file and renames it into place.
// Callers must hold f.mu.
func (f *FileBackend) save() error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(f.entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set cache file permissions: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
