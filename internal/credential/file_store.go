package credential

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/teemow/motionmcp/internal/logging"
)

// document is the on-disk layout of the credentials file.
type document struct {
	APIKey    string `yaml:"motion-api-key,omitempty"`
	Encrypted bool   `yaml:"encrypted,omitempty"`
}

// FileStore keeps the API key in a YAML file readable only by the owner.
type FileStore struct {
	path        string
	encryption  *Encryption
	invalidator Invalidator
	logger      logging.Logger

	mu sync.Mutex
}

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	// Encryption seals the key at rest when enabled (optional).
	Encryption *Encryption
	// Invalidator is cleared whenever the stored key changes (optional).
	Invalidator Invalidator
	// Logger defaults to a discarding logger.
	Logger logging.Logger
}

// NewFileStore returns a store backed by the file at path. The file is
// created on the first Set.
func NewFileStore(path string, opts FileStoreOptions) *FileStore {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &FileStore{
		path:        path,
		encryption:  opts.Encryption,
		invalidator: opts.Invalidator,
		logger:      opts.Logger,
	}
}

// Path returns the credentials file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Set stores key and clears the cache if it differs from the stored key.
func (s *FileStore) Set(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	current, err := s.read()
	if err != nil {
		// An unreadable file is replaced, and treated as a change.
		s.logger.Warn("replacing unreadable credentials file", "path", s.path, logging.Err(err))
		current = ""
	}
	if current == key {
		s.mu.Unlock()
		return nil
	}

	doc := document{APIKey: key}
	if s.encryption.Enabled() {
		sealed, err := s.encryption.Encrypt(key)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to encrypt API key: %w", err)
		}
		doc = document{APIKey: sealed, Encrypted: true}
	}
	if err := s.write(doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.Info("API key updated", logging.APIKey(key))
	return s.invalidate(ctx)
}

// Clear removes the stored key and clears the cache.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := os.Remove(s.path)
	s.mu.Unlock()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}

	s.logger.Info("API key cleared")
	return s.invalidate(ctx)
}

func (s *FileStore) invalidate(ctx context.Context) error {
	if s.invalidator == nil {
		return nil
	}
	if err := s.invalidator.ClearAll(ctx); err != nil {
		return fmt.Errorf("credential changed but cache could not be cleared: %w", err)
	}
	return nil
}

func (s *FileStore) read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("failed to decode credentials file: %w", err)
	}
	if !doc.Encrypted {
		return doc.APIKey, nil
	}
	if !s.encryption.Enabled() {
		return "", fmt.Errorf("credentials file is encrypted but no encryption key is configured")
	}
	key, err := s.encryption.Decrypt(doc.APIKey)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt API key: %w", err)
	}
	return key, nil
}

func (s *FileStore) write(doc document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode credentials file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
