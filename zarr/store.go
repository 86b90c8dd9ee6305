package zarr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrKeyNotFound marks a store key with no value behind it. Inside a chunk
// grid a missing key means a fill-value chunk, not a failure.
var ErrKeyNotFound = errors.New("zarr: key not found")

// Store is a flat key-value backend for zarr data: metadata documents and
// chunk payloads are both plain values addressed by slash-separated keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// MemoryStore keeps all keys in a map. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return val, nil
}

func (s *MemoryStore) Put(key string, val []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = val
}

// DirectoryStore reads keys as files below a base directory.
type DirectoryStore struct {
	base string
}

var _ Store = (*DirectoryStore)(nil)

func NewDirectoryStore(base string) (*DirectoryStore, error) {
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, err
	}
	return &DirectoryStore{base: base}, nil
}

func (s *DirectoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.base, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return data, err
}
