// Package blob defines the byte store that holds file content.
//
// Keys are slash-separated locators such as datarooms/<dataroom>/<folder>/<uuid>.pdf.
// Metadata lives elsewhere; a Store only moves bytes.
package blob

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrBlobNotFound is returned by Open when no blob exists under the key
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for empty keys or keys that escape the store root
var ErrInvalidKey = errors.New("invalid blob key")

// Store persists opaque byte sequences under string keys.
type Store interface {
	// Put writes body under key, replacing nothing: keys are never reused.
	// Returns the number of bytes written.
	Put(ctx context.Context, key string, body io.ReadSeeker) (int64, error)

	// Open returns a reader over the blob. Callers must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys with empty, "." or ".." segments
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}

// Size reports the length of body and rewinds it to the start
func Size(body io.Seeker) (int64, error) {
	size, err := body.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
