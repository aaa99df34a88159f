package docstore

import (
	"context"
	"log/slog"

	models "dataroom/internal/domain/models/docstore"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
	docstoreSvc "dataroom/internal/domain/services/docstore"
)

// treeService implements the TreeService interface
type treeService struct {
	validator  *ResourceValidator
	folderRepo docstoreRepo.FolderRepository
	fileRepo   docstoreRepo.FileRepository
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	validator *ResourceValidator,
	folderRepo docstoreRepo.FolderRepository,
	fileRepo docstoreRepo.FileRepository,
	logger *slog.Logger,
) docstoreSvc.TreeService {
	return &treeService{
		validator:  validator,
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		logger:     logger,
	}
}

// GetTree builds the nested folder/file tree for a dataroom.
// Folders arrive ordered by path, so siblings end up ordered by name.
func (s *treeService) GetTree(ctx context.Context, dataroomID string) (*models.TreeNode, error) {
	if _, err := s.validator.ValidateDataroom(ctx, dataroomID); err != nil {
		return nil, err
	}

	allFolders, err := s.folderRepo.ListByDataroom(ctx, dataroomID)
	if err != nil {
		return nil, err
	}

	allFiles, err := s.fileRepo.ListByDataroom(ctx, dataroomID)
	if err != nil {
		return nil, err
	}

	// First pass: create all folder nodes
	folderMap := make(map[string]*models.FolderTreeNode, len(allFolders))
	for _, folder := range allFolders {
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:        folder.ID,
			Name:      folder.Name,
			Path:      folder.Path,
			ParentID:  folder.ParentID,
			CreatedAt: folder.CreatedAt,
			Folders:   []*models.FolderTreeNode{},
			Files:     []models.FileTreeNode{},
		}
	}

	// Second pass: nest folders under their parents
	rootFolders := make([]*models.FolderTreeNode, 0)
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.IsRoot() {
			rootFolders = append(rootFolders, node)
			continue
		}
		if parent, exists := folderMap[*folder.ParentID]; exists {
			parent.Folders = append(parent.Folders, node)
		}
	}

	// Third pass: attach files
	for _, file := range allFiles {
		parent, exists := folderMap[file.FolderID]
		if !exists {
			continue
		}
		parent.Files = append(parent.Files, models.FileTreeNode{
			ID:        file.ID,
			Name:      file.Name,
			SizeBytes: file.SizeBytes,
			Version:   file.Version,
			UpdatedAt: file.UpdatedAt,
		})
	}

	s.logger.Debug("dataroom tree built",
		"dataroom_id", dataroomID,
		"folder_count", len(allFolders),
		"file_count", len(allFiles),
	)

	return &models.TreeNode{
		DataroomID: dataroomID,
		Folders:    rootFolders,
	}, nil
}
