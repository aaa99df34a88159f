package docstore

import (
	"context"
	"io"

	"dataroom/internal/domain/models/docstore"
)

// FileService handles file upload, retrieval and lifecycle
type FileService interface {
	// UploadFile validates, checksums and stores content, then records its metadata
	UploadFile(ctx context.Context, req *UploadFileRequest) (*docstore.File, error)

	// GetFile retrieves file metadata by ID
	GetFile(ctx context.Context, id string) (*docstore.File, error)

	// PhysicalLocation returns the blob store locator of a file
	PhysicalLocation(file *docstore.File) string

	// OpenContent returns file metadata and a reader over its bytes (caller closes)
	OpenContent(ctx context.Context, id string) (*docstore.File, io.ReadCloser, error)

	// RenameFile changes the visible name; content is untouched
	RenameFile(ctx context.Context, id, name string) (*docstore.File, error)

	// DeleteFile removes the metadata row and, best effort, the blob
	DeleteFile(ctx context.Context, id string) error
}

// UploadFileRequest carries one uploaded file.
// Content must be rewindable: it is read once for the checksum and once for storage.
type UploadFileRequest struct {
	DataroomID   string
	FolderID     string
	Filename     string
	ContentType  string
	Content      io.ReadSeeker
	UploadedByID *string
}
