package docstore

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Q1 Report.pdf", "Q1_Report.pdf"},
		{"../../etc/passwd.pdf", "etc_passwd.pdf"},
		{`C:\Users\me\deck.pdf`, "C_Users_me_deck.pdf"},
		{"résumé.pdf", "resume.pdf"},
		{"report(final).pdf", "reportfinal.pdf"},
		{"  spaced \t out  .pdf", "spaced_out_.pdf"},
		{"***", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilename_TruncatesKeepingExtension(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 300) + ".pdf")

	assert.Len(t, got, 255)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestSanitizeRename(t *testing.T) {
	assert.Equal(t, "Q1 report.pdf", SanitizeRename("Q1_report.pdf"))
	assert.Equal(t, "Board deck.pdf", SanitizeRename("  Board deck.pdf "))
	assert.Equal(t, "", SanitizeRename("___"))
}

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("a.pdf", ""))
	assert.True(t, isPDF("A.PDF", "application/octet-stream"))
	assert.True(t, isPDF("scan", "application/pdf; charset=binary"))
	assert.False(t, isPDF("notes.txt", "text/plain"))
	assert.False(t, isPDF("pdf", ""))
}

func TestBlobExtension(t *testing.T) {
	assert.Equal(t, ".pdf", blobExtension("a.pdf"))
	assert.Equal(t, ".PDF", blobExtension("a.PDF"))
	assert.Equal(t, ".pdf", blobExtension("scan"))
	assert.Equal(t, ".gz", blobExtension("a.tar.gz"))
}

func TestChecksumSHA256(t *testing.T) {
	r := strings.NewReader("hello")

	sum, err := checksumSHA256(r)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(rest), "reader is rewound")
}

func TestChecksumSHA256_SpansChunks(t *testing.T) {
	data := strings.Repeat("0123456789abcdef", 10_000)
	want := sha256.Sum256([]byte(data))

	got, err := checksumSHA256(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestNewLocator(t *testing.T) {
	a := newLocator("dr", "f", "nda.pdf")
	b := newLocator("dr", "f", "nda.pdf")

	assert.Regexp(t, `^datarooms/dr/f/[0-9a-f]{32}\.pdf$`, a)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^datarooms/dr/f/[0-9a-f]{32}\.pdf$`, newLocator("dr", "f", "scan"))
}
