package docstore

import (
	"strings"
	"time"
)

// PathSeparator joins folder names into a materialized path
const PathSeparator = "/"

type Folder struct {
	ID         string    `json:"id" db:"id"`
	DataroomID string    `json:"dataroom_id" db:"dataroom_id"`
	ParentID   *string   `json:"parent_id" db:"parent_id"` // NULL = root folder of the dataroom
	Name       string    `json:"name" db:"name"`
	Path       string    `json:"path" db:"path"` // Materialized: ancestor names joined by "/"
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the folder sits directly under its dataroom
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// ChildPath returns the path a child named name would have under f.
// A nil parent yields a root path.
func ChildPath(parent *Folder, name string) string {
	if parent == nil {
		return name
	}
	return parent.Path + PathSeparator + name
}

// SubtreePrefix is the prefix shared by the paths of every descendant of a folder at path
func SubtreePrefix(path string) string {
	return path + PathSeparator
}

// ReplaceLastSegment swaps the final path segment for name, keeping the parent portion
func ReplaceLastSegment(path, name string) string {
	idx := strings.LastIndex(path, PathSeparator)
	if idx < 0 {
		return name
	}
	return path[:idx+1] + name
}
