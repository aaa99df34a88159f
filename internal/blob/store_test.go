package blob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"datarooms/a/b/c.pdf", false},
		{"c.pdf", false},
		{"", true},
		{"/abs/path.pdf", true},
		{"datarooms/../etc/passwd", true},
		{"datarooms//c.pdf", true},
		{"datarooms/./c.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSizeRewinds(t *testing.T) {
	r := strings.NewReader("hello")
	_, _ = r.Read(make([]byte, 2))

	size, err := Size(r)
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)

	rest := make([]byte, 5)
	n, _ := r.Read(rest)
	assert.Equal(t, "hello", string(rest[:n]))
}
