package docstore

import (
	"time"
)

// PDFContentType is the only content type stored for uploaded files
const PDFContentType = "application/pdf"

type File struct {
	ID               string    `json:"id" db:"id"`
	DataroomID       string    `json:"dataroom_id" db:"dataroom_id"`
	FolderID         string    `json:"folder_id" db:"folder_id"`
	Name             string    `json:"name" db:"name"`                           // Visible name, unique per folder
	OriginalFilename string    `json:"original_filename" db:"original_filename"` // Sanitized name given at upload, immutable
	ContentType      string    `json:"content_type" db:"content_type"`
	SizeBytes        int64     `json:"size_bytes" db:"size_bytes"`
	StoragePath      string    `json:"-" db:"storage_path"` // Blob store locator, never exposed over HTTP
	Checksum         *string   `json:"checksum_sha256,omitempty" db:"checksum_sha256"`
	Version          int       `json:"version" db:"version"`
	UploadedByID     *string   `json:"uploaded_by_id,omitempty" db:"uploaded_by_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
