package docstore

import (
	"context"

	"dataroom/internal/domain/models/docstore"
)

// DataroomRepository defines data access operations for datarooms
type DataroomRepository interface {
	// Create inserts a dataroom and fills in its generated ID and timestamps.
	// Returns *domain.ConflictError when the name is taken.
	Create(ctx context.Context, dataroom *docstore.Dataroom) error

	// GetByID retrieves a dataroom by ID
	GetByID(ctx context.Context, id string) (*docstore.Dataroom, error)

	// GetByName retrieves a dataroom by its unique name
	GetByName(ctx context.Context, name string) (*docstore.Dataroom, error)

	// List retrieves all datarooms, newest first
	List(ctx context.Context) ([]docstore.Dataroom, error)

	// Delete removes a dataroom together with every folder and file row it owns
	Delete(ctx context.Context, id string) error
}
