package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// NewTestClient opens a private in-memory database with the schema applied.
// The database disappears when the test finishes.
func NewTestClient(t testing.TB) *Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := NewClient(dsn, WithNopLogger(), WithTablePrefix("test_"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := client.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
