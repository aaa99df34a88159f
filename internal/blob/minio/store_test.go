package minio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidatesConfig(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{Bucket: "docs"})
	assert.ErrorContains(t, err, "endpoint is required")

	_, err = New(ctx, Config{Endpoint: "localhost:9000"})
	assert.ErrorContains(t, err, "bucket is required")
}

func TestObjectKeyPrefix(t *testing.T) {
	store, err := New(context.Background(), Config{Endpoint: "localhost:9000", Bucket: "docs", KeyPrefix: "/dev/"})
	require.NoError(t, err)

	key, err := store.objectKey("datarooms/a/b/c.pdf")
	require.NoError(t, err)
	assert.Equal(t, "dev/datarooms/a/b/c.pdf", key)

	_, err = store.objectKey("../c.pdf")
	assert.Error(t, err)
}
