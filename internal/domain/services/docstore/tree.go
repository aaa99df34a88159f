package docstore

import (
	"context"

	"dataroom/internal/domain/models/docstore"
)

// TreeService defines operations for building dataroom trees
type TreeService interface {
	// GetTree builds the nested folder/file tree for a dataroom
	GetTree(ctx context.Context, dataroomID string) (*docstore.TreeNode, error)
}
