// Package memory keeps blobs in a map. Used by tests and throwaway dev servers.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"dataroom/internal/blob"
)

type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// injected failures, keyed by blob key
	failPut    func(key string) error
	failDelete func(key string) error
}

func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// FailPutWith makes Put return the error produced by fn when it is non-nil
func (s *Store) FailPutWith(fn func(key string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut = fn
}

// FailDeleteWith makes Delete return the error produced by fn when it is non-nil
func (s *Store) FailDeleteWith(fn func(key string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete = fn
}

func (s *Store) Put(ctx context.Context, key string, body io.ReadSeeker) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := blob.ValidateKey(key); err != nil {
		return 0, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, fmt.Errorf("read blob body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut != nil {
		if err := s.failPut(key); err != nil {
			return 0, err
		}
	}
	s.blobs[key] = data
	return int64(len(data)), nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, blob.ErrBlobNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete != nil {
		if err := s.failDelete(key); err != nil {
			return err
		}
	}
	delete(s.blobs, key)
	return nil
}

// Has reports whether a blob exists under key
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok
}

// Len returns the number of stored blobs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Keys returns the stored keys in lexical order
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
