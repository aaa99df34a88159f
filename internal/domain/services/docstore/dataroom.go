package docstore

import (
	"context"

	"dataroom/internal/domain/models/docstore"
)

// DataroomService handles dataroom business logic
type DataroomService interface {
	// CreateDataroom creates a dataroom with a unique name
	CreateDataroom(ctx context.Context, req *CreateDataroomRequest) (*docstore.Dataroom, error)

	// GetDataroom retrieves a dataroom by ID
	GetDataroom(ctx context.Context, id string) (*docstore.Dataroom, error)

	// ListDatarooms lists datarooms newest first
	ListDatarooms(ctx context.Context) ([]docstore.Dataroom, error)

	// DeleteDataroom removes the dataroom with all folders, files and blobs
	DeleteDataroom(ctx context.Context, id string) error
}

// CreateDataroomRequest represents a dataroom creation request
type CreateDataroomRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}
