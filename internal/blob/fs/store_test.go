package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/internal/blob"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	require.NoError(t, err)

	key := "datarooms/d1/f1/abc.pdf"
	n, err := store.Put(ctx, key, strings.NewReader("%PDF-1.4 body"))
	require.NoError(t, err)
	assert.EqualValues(t, 13, n)

	_, err = os.Stat(filepath.Join(store.Root(), "datarooms", "d1", "f1", "abc.pdf"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key), "deleting twice is fine")

	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, blob.ErrBlobNotFound)
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../outside.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, blob.ErrInvalidKey)
}

func TestStore_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(ctx, "a/b.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(store.Root(), "a"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.pdf", entries[0].Name())
}

func TestStore_DeletePrunesEmptyDirectories(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(ctx, "datarooms/d1/f1/a.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = store.Put(ctx, "datarooms/d1/f2/b.pdf", strings.NewReader("b"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "datarooms/d1/f1/a.pdf"))

	_, err = os.Stat(filepath.Join(store.Root(), "datarooms", "d1", "f1"))
	assert.True(t, os.IsNotExist(err), "empty folder directory should be removed")
	_, err = os.Stat(filepath.Join(store.Root(), "datarooms", "d1", "f2", "b.pdf"))
	assert.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "datarooms/d1/f2/b.pdf"))

	_, err = os.Stat(filepath.Join(store.Root(), "datarooms"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(store.Root())
	assert.NoError(t, err, "root is never pruned")
}
