package docstore

import (
	"context"

	"dataroom/internal/domain/models/docstore"
)

// FileRepository defines data access operations for file metadata
type FileRepository interface {
	// Create inserts a file row.
	// Returns *domain.ConflictError when the folder already holds the name
	// or the storage path was used before.
	Create(ctx context.Context, file *docstore.File) error

	// GetByID retrieves a file by ID
	GetByID(ctx context.Context, id string) (*docstore.File, error)

	// ListByFolder lists files directly inside a folder ordered by name
	ListByFolder(ctx context.Context, folderID string) ([]docstore.File, error)

	// ListByDataroom retrieves all files in a dataroom
	ListByDataroom(ctx context.Context, dataroomID string) ([]docstore.File, error)

	// ListBySubtree lists every file inside the folder at path or any of its descendants
	ListBySubtree(ctx context.Context, dataroomID, path string) ([]docstore.File, error)

	// Update persists the visible name and updated_at
	Update(ctx context.Context, file *docstore.File) error

	// Delete removes a file row
	Delete(ctx context.Context, id string) error
}
