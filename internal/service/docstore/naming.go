package docstore

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"dataroom/internal/config"
	models "dataroom/internal/domain/models/docstore"
)

// nameSet is the set of names already used in one sibling scope
type nameSet map[string]struct{}

// splitName splits at the first dot: "a.tar.gz" -> "a", ".tar.gz".
// A leading dot is part of the base, so ".git" has no extension and
// ".env.local" splits into ".env", ".local".
func splitName(name string) (base, ext string) {
	if name == "" {
		return "", ""
	}
	idx := strings.Index(name[1:], ".")
	if idx < 0 {
		return name, ""
	}
	idx++
	return name[:idx], name[idx:]
}

// ResolveUniqueName returns desired when it is free. Otherwise it probes
// "base (n)ext" for n = 2..MaxNameProbes and, past the cap, falls back to an
// 8 hex digit random suffix. Candidates are shortened to fit maxLen runes.
func ResolveUniqueName(desired string, taken nameSet, maxLen int) string {
	if _, ok := taken[desired]; !ok {
		return desired
	}

	base, ext := splitName(desired)
	for n := 2; n <= config.MaxNameProbes; n++ {
		candidate := suffixedName(base, fmt.Sprintf(" (%d)", n), ext, maxLen)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}

	for {
		candidate := suffixedName(base, " ("+randomSuffix()+")", ext, maxLen)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

// suffixedName joins base, suffix and ext within maxLen runes. The base is
// shortened first; when the extension leaves it no room, the extension is cut
// so at least one base rune survives.
func suffixedName(base, suffix, ext string, maxLen int) string {
	suffixLen := utf8.RuneCountInString(suffix)
	room := maxLen - suffixLen - utf8.RuneCountInString(ext)
	if room < 1 {
		room = 1
		if extRoom := maxLen - suffixLen - room; extRoom > 0 {
			ext = string([]rune(ext)[:extRoom])
		} else {
			ext = ""
		}
	}
	if utf8.RuneCountInString(base) > room {
		base = string([]rune(base)[:room])
	}
	return base + suffix + ext
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// folderNames collects sibling folder names, skipping excludeID
func folderNames(folders []models.Folder, excludeID string) nameSet {
	set := make(nameSet, len(folders))
	for _, f := range folders {
		if f.ID != excludeID {
			set[f.Name] = struct{}{}
		}
	}
	return set
}

// fileNames collects sibling file names, skipping excludeID
func fileNames(files []models.File, excludeID string) nameSet {
	set := make(nameSet, len(files))
	for _, f := range files {
		if f.ID != excludeID {
			set[f.Name] = struct{}{}
		}
	}
	return set
}
