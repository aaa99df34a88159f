package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataroom/internal/blob"
)

// fakeClient is an in-memory bucket
type fakeClient struct {
	objects map[string][]byte
	lastPut *s3.PutObjectInput
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: map[string][]byte{}}
}

func (f *fakeClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lastPut = in
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeClient) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store, err := New(Config{Client: client, Bucket: "docs", KeyPrefix: "/prod/"})
	require.NoError(t, err)

	n, err := store.Put(ctx, "datarooms/d/f/x.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)
	assert.Equal(t, "prod/datarooms/d/f/x.pdf", aws.ToString(client.lastPut.Key))
	assert.EqualValues(t, 9, aws.ToInt64(client.lastPut.ContentLength))

	rc, err := store.Open(ctx, "datarooms/d/f/x.pdf")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "pdf-bytes", string(data))

	require.NoError(t, store.Delete(ctx, "datarooms/d/f/x.pdf"))
	_, err = store.Open(ctx, "datarooms/d/f/x.pdf")
	assert.True(t, errors.Is(err, blob.ErrBlobNotFound))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(Config{Client: newFakeClient()})
	assert.Error(t, err)
}
