package credential

import (
	"context"
	"errors"
)

// StorageKey is the name the API key is stored under.
const StorageKey = "motion-api-key"

var (
	// ErrEmptyKey is returned when setting a blank API key.
	ErrEmptyKey = errors.New("API key cannot be empty")

	// ErrReadOnly is returned by stores that cannot be modified.
	ErrReadOnly = errors.New("credential store is read-only")
)

// Store persists the single Motion API key.
//
// Get returns an empty string when no key is configured; errors are reserved
// for storage failures.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Invalidator is notified when the credential changes. The cache implements
// it; every cached response belongs to the previous key.
type Invalidator interface {
	ClearAll(ctx context.Context) error
}

// Has reports whether s holds a non-empty key. Storage errors count as
// "no key".
func Has(ctx context.Context, s Store) bool {
	if s == nil {
		return false
	}
	key, err := s.Get(ctx)
	return err == nil && key != ""
}

// StaticStore serves a key fixed at startup, typically from MOTION_API_KEY.
type StaticStore struct {
	key string
}

// NewStaticStore returns a read-only store for key.
func NewStaticStore(key string) *StaticStore {
	return &StaticStore{key: key}
}

func (s *StaticStore) Get(context.Context) (string, error) {
	return s.key, nil
}

func (s *StaticStore) Set(context.Context, string) error {
	return ErrReadOnly
}

func (s *StaticStore) Clear(context.Context) error {
	return ErrReadOnly
}
