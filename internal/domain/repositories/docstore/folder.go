package docstore

import (
	"context"

	"dataroom/internal/domain/models/docstore"
)

// FolderRepository defines data access operations for folders.
// Folder rows form an arena keyed by ID; children are always derived by query.
type FolderRepository interface {
	// Create inserts a folder with its precomputed path.
	// Returns *domain.ConflictError when a sibling already holds the name.
	Create(ctx context.Context, folder *docstore.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id string) (*docstore.Folder, error)

	// GetByIDForShare retrieves a folder and keeps its row from being renamed,
	// moved or deleted until the transaction ends. Used for the parent of a
	// folder being created or moved, so the child path is built on a path that
	// cannot change before commit.
	GetByIDForShare(ctx context.Context, id string) (*docstore.Folder, error)

	// LockSubtree locks the folder and every descendant row for writing, then
	// returns the folder as last committed. Renames, moves and deletes call it
	// before reading any path they derive new paths from.
	LockSubtree(ctx context.Context, id string) (*docstore.Folder, error)

	// ListChildren lists immediate child folders ordered by name (nil parentID = roots)
	ListChildren(ctx context.Context, dataroomID string, parentID *string) ([]docstore.Folder, error)

	// ListByDataroom retrieves all folders in a dataroom (flat list, ordered by path)
	ListByDataroom(ctx context.Context, dataroomID string) ([]docstore.Folder, error)

	// Update persists name, parent_id, path and updated_at.
	// Returns *domain.ConflictError when the new name collides with a sibling.
	Update(ctx context.Context, folder *docstore.Folder) error

	// RebaseDescendants rewrites the path of every folder in the dataroom whose path
	// starts with oldPath + "/", replacing the oldPath prefix with newPath.
	// Returns the number of rewritten rows.
	RebaseDescendants(ctx context.Context, dataroomID, oldPath, newPath string) (int64, error)

	// DeleteSubtree removes the folder, every descendant folder and every file
	// contained in any of them. Returns the number of deleted folders.
	DeleteSubtree(ctx context.Context, folder *docstore.Folder) (int64, error)
}
