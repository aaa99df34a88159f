package docstore

import (
	"context"

	"dataroom/internal/domain/models/docstore"
)

// FolderService handles folder hierarchy business logic
type FolderService interface {
	// CreateFolder creates a folder, suffixing the name when a sibling already holds it
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*docstore.Folder, error)

	// GetFolder retrieves a folder by ID
	GetFolder(ctx context.Context, id string) (*docstore.Folder, error)

	// ListRootFolders lists the top-level folders of a dataroom
	ListRootFolders(ctx context.Context, dataroomID string) ([]docstore.Folder, error)

	// ListContents lists immediate child folders and files of a folder
	ListContents(ctx context.Context, dataroomID, folderID string) (*FolderContents, error)

	// RenameFolder renames a folder and rewrites descendant paths
	RenameFolder(ctx context.Context, folderID, name string) (*docstore.Folder, error)

	// MoveFolder re-parents a folder (nil parent = root) and rewrites descendant paths
	MoveFolder(ctx context.Context, folderID string, parentID *string) (*docstore.Folder, error)

	// UpdateFolder applies a rename and/or move as one unit
	UpdateFolder(ctx context.Context, folderID string, req *UpdateFolderRequest) (*docstore.Folder, error)

	// DeleteFolder removes a folder with every descendant folder, file and blob
	DeleteFolder(ctx context.Context, folderID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	DataroomID string  `json:"-"`
	Name       string  `json:"name"`
	ParentID   *string `json:"parent_id,omitempty"` // nil = root folder
}

// OptionalParent tracks tri-state semantics for parent updates.
// Transport-agnostic; handlers map it from httputil.OptionalString.
//   - Present=false: keep the current parent
//   - Present=true, Value=nil: move to the dataroom root
//   - Present=true, Value=&id: move under folder id
type OptionalParent struct {
	Present bool
	Value   *string
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name     *string        // rename
	ParentID OptionalParent // move
}

// FolderContents represents a folder with its immediate children
type FolderContents struct {
	Folder  *docstore.Folder  `json:"folder"`
	Folders []docstore.Folder `json:"folders"`
	Files   []docstore.File   `json:"files"`
}
