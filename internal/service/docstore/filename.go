package docstore

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"dataroom/internal/config"
	models "dataroom/internal/domain/models/docstore"
)

// SanitizeFilename reduces an uploaded name to a safe ASCII display name:
// NFKD-decomposed, non-ASCII dropped, path separators and whitespace runs
// turned into "_", anything outside [A-Za-z0-9_.-] removed, leading and
// trailing "." and "_" trimmed. The result may be empty.
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var ascii strings.Builder
	for _, r := range decomposed {
		if r >= utf8.RuneSelf {
			continue
		}
		if r == '/' || r == '\\' {
			r = ' '
		}
		ascii.WriteRune(r)
	}

	joined := strings.Join(strings.Fields(ascii.String()), "_")

	var safe strings.Builder
	for _, r := range joined {
		if r == '_' || r == '.' || r == '-' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			safe.WriteRune(r)
		}
	}

	return truncateName(strings.Trim(safe.String(), "._"), config.MaxFileNameLength)
}

// SanitizeRename applies SanitizeFilename and then reads underscores as spaces,
// so "Q1_report.pdf" becomes "Q1 report.pdf".
func SanitizeRename(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(SanitizeFilename(name), "_", " "))
}

// truncateName keeps the extension while shortening the base to maxLen bytes (input is ASCII)
func truncateName(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}
	ext := path.Ext(name)
	if len(ext) >= maxLen {
		return name[:maxLen]
	}
	return name[:maxLen-len(ext)] + ext
}

// isPDF accepts a ".pdf" suffix or an application/pdf content type
func isPDF(filename, contentType string) bool {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), models.PDFContentType)
}

// blobExtension is the locator extension: the sanitized name's, or ".pdf" when it has none
func blobExtension(sanitized string) string {
	if ext := path.Ext(sanitized); ext != "" && ext != "." {
		return ext
	}
	return ".pdf"
}
