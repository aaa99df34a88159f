// Package fs stores blobs as regular files under a root directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dataroom/internal/blob"
)

// Store keeps each blob in a file named by its key below Root
type Store struct {
	root string
}

// New creates the root directory if needed and returns a store rooted there
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("filesystem blob store: path is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve blob root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute root directory
func (s *Store) Root() string {
	return s.root
}

func (s *Store) path(key string) (string, error) {
	if err := blob.ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Put writes to a temporary file in the target directory and renames it into place
func (s *Store) Put(ctx context.Context, key string, body io.ReadSeeker) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	target, err := s.path(key)
	if err != nil {
		return 0, err
	}
	tmp, err := s.createTemp(filepath.Dir(target))
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("write blob: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("place blob: %w", err)
	}
	return n, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, blob.ErrBlobNotFound)
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	s.pruneEmptyDirs(filepath.Dir(target))
	return nil
}

// createTemp makes dir and opens a temp file in it. A Delete on another
// goroutine may prune dir in between, so a missing directory is retried once.
func (s *Store) createTemp(dir string) (*os.File, error) {
	for attempt := 0; ; attempt++ {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create blob directory: %w", err)
		}
		tmp, err := os.CreateTemp(dir, ".upload-*")
		if err == nil {
			return tmp, nil
		}
		if attempt > 0 || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("create temp blob: %w", err)
		}
	}
}

// pruneEmptyDirs removes dir and its parents while they are empty, stopping
// below the root. os.Remove refuses non-empty directories.
func (s *Store) pruneEmptyDirs(dir string) {
	for dir != s.root && strings.HasPrefix(dir, s.root+string(filepath.Separator)) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
