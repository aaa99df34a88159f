package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dataroom/internal/blob"
	"dataroom/internal/config"
	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	"dataroom/internal/domain/repositories"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
	"dataroom/internal/domain/services"
	docstoreSvc "dataroom/internal/domain/services/docstore"
)

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

type folderService struct {
	folderRepo docstoreRepo.FolderRepository
	fileRepo   docstoreRepo.FileRepository
	txManager  repositories.TransactionManager
	validator  *ResourceValidator
	releaser   *blobReleaser
	audit      services.AuditRecorder
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo docstoreRepo.FolderRepository,
	fileRepo docstoreRepo.FileRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	blobs blob.Store,
	blobDeleteConcurrency int,
	audit services.AuditRecorder,
	logger *slog.Logger,
) docstoreSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		txManager:  txManager,
		validator:  validator,
		releaser:   newBlobReleaser(blobs, blobDeleteConcurrency, logger),
		audit:      audit,
		logger:     logger,
	}
}

// CreateFolder creates a new folder. A taken name gets a " (n)" suffix.
func (s *folderService) CreateFolder(ctx context.Context, req *docstoreSvc.CreateFolderRequest) (*models.Folder, error) {
	// Normalize empty string to nil for root-level folders
	parentID := req.ParentID
	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	desired := strings.TrimSpace(req.Name)

	if err := validateFolderName(desired); err != nil {
		return nil, err
	}

	var folder *models.Folder
	err := retryOnConflict(ctx, s.txManager, s.logger, "create folder", func(ctx context.Context) error {
		if _, err := s.validator.ValidateDataroom(ctx, req.DataroomID); err != nil {
			return err
		}

		var parent *models.Folder
		if parentID != nil {
			var err error
			parent, err = s.validator.LockParentInDataroom(ctx, *parentID, req.DataroomID)
			if err != nil {
				return err
			}
		}

		siblings, err := s.folderRepo.ListChildren(ctx, req.DataroomID, parentID)
		if err != nil {
			return fmt.Errorf("failed to list sibling folders: %w", err)
		}
		name := ResolveUniqueName(desired, folderNames(siblings, ""), config.MaxFolderNameLength)

		now := time.Now().UTC()
		folder = &models.Folder{
			DataroomID: req.DataroomID,
			ParentID:   parentID,
			Name:       name,
			Path:       models.ChildPath(parent, name),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return s.folderRepo.Create(ctx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"dataroom_id", folder.DataroomID,
		"parent_id", folder.ParentID,
		"path", folder.Path,
	)
	s.audit.Record(ctx, services.AuditEvent{
		Action:       "folder.create",
		DataroomID:   folder.DataroomID,
		ResourceType: "folder",
		ResourceID:   folder.ID,
		ActorID:      services.ActorID(ctx),
		Details:      map[string]any{"path": folder.Path},
	})

	return folder, nil
}

// GetFolder retrieves a folder by ID
func (s *folderService) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	return s.folderRepo.GetByID(ctx, id)
}

// ListRootFolders lists the top-level folders of a dataroom
func (s *folderService) ListRootFolders(ctx context.Context, dataroomID string) ([]models.Folder, error) {
	if _, err := s.validator.ValidateDataroom(ctx, dataroomID); err != nil {
		return nil, err
	}
	return s.folderRepo.ListChildren(ctx, dataroomID, nil)
}

// ListContents lists immediate child folders and files.
// A folder from another dataroom is reported as not found.
func (s *folderService) ListContents(ctx context.Context, dataroomID, folderID string) (*docstoreSvc.FolderContents, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.DataroomID != dataroomID {
		return nil, fmt.Errorf("folder %s in dataroom %s: %w", folderID, dataroomID, domain.ErrNotFound)
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, dataroomID, &folder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child folders: %w", err)
	}

	files, err := s.fileRepo.ListByFolder(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return &docstoreSvc.FolderContents{
		Folder:  folder,
		Folders: childFolders,
		Files:   files,
	}, nil
}

// RenameFolder renames a folder in place
func (s *folderService) RenameFolder(ctx context.Context, folderID, name string) (*models.Folder, error) {
	return s.UpdateFolder(ctx, folderID, &docstoreSvc.UpdateFolderRequest{Name: &name})
}

// MoveFolder moves a folder under parentID, or to the root when parentID is nil
func (s *folderService) MoveFolder(ctx context.Context, folderID string, parentID *string) (*models.Folder, error) {
	return s.UpdateFolder(ctx, folderID, &docstoreSvc.UpdateFolderRequest{
		ParentID: docstoreSvc.OptionalParent{Present: true, Value: parentID},
	})
}

// UpdateFolder renames and/or moves a folder. The folder row and every
// descendant path are rewritten in one transaction, after the subtree and the
// target parent are locked so no concurrent rename or create can interleave.
func (s *folderService) UpdateFolder(ctx context.Context, folderID string, req *docstoreSvc.UpdateFolderRequest) (*models.Folder, error) {
	if req.Name == nil && !req.ParentID.Present {
		return nil, &domain.ValidationError{Message: "at least one of name or parent_id is required"}
	}
	var newName *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if err := validateFolderName(trimmed); err != nil {
			return nil, err
		}
		newName = &trimmed
	}
	requestedParent := req.ParentID.Value
	if requestedParent != nil && *requestedParent == "" {
		requestedParent = nil
	}

	var (
		folder    *models.Folder
		oldPath   string
		rewritten int64
		changed   bool
	)
	err := retryOnConflict(ctx, s.txManager, s.logger, "update folder", func(ctx context.Context) error {
		var err error
		folder, err = s.folderRepo.LockSubtree(ctx, folderID)
		if err != nil {
			return err
		}
		oldPath = folder.Path

		targetParentID := folder.ParentID
		newPathFor := func(name string) string { return models.ReplaceLastSegment(folder.Path, name) }

		if req.ParentID.Present {
			targetParentID = requestedParent
			if targetParentID == nil {
				newPathFor = func(name string) string { return name }
			} else {
				parent, err := s.validator.LockParentInDataroom(ctx, *targetParentID, folder.DataroomID)
				if err != nil {
					return err
				}
				// Prevent cycles: can't move a folder under itself or its descendants
				if parent.ID == folder.ID || strings.HasPrefix(parent.Path, models.SubtreePrefix(folder.Path)) {
					return &domain.ValidationError{Message: "cannot move a folder into itself or one of its descendants"}
				}
				newPathFor = func(name string) string { return models.ChildPath(parent, name) }
			}
		}

		desired := folder.Name
		if newName != nil {
			desired = *newName
		}

		siblings, err := s.folderRepo.ListChildren(ctx, folder.DataroomID, targetParentID)
		if err != nil {
			return fmt.Errorf("failed to list sibling folders: %w", err)
		}
		name := ResolveUniqueName(desired, folderNames(siblings, folder.ID), config.MaxFolderNameLength)
		newPath := newPathFor(name)

		if newPath == folder.Path && sameParent(folder.ParentID, targetParentID) {
			changed = false
			return nil
		}
		changed = true

		folder.Name = name
		folder.ParentID = targetParentID
		folder.Path = newPath
		folder.UpdatedAt = time.Now().UTC()

		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}

		rewritten, err = s.folderRepo.RebaseDescendants(ctx, folder.DataroomID, oldPath, newPath)
		if err != nil {
			return fmt.Errorf("failed to rewrite descendant paths: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		s.logger.Debug("folder update is a no-op", "id", folder.ID)
		return folder, nil
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"old_path", oldPath,
		"path", folder.Path,
		"descendants_rewritten", rewritten,
	)
	s.audit.Record(ctx, services.AuditEvent{
		Action:       "folder.update",
		DataroomID:   folder.DataroomID,
		ResourceType: "folder",
		ResourceID:   folder.ID,
		ActorID:      services.ActorID(ctx),
		Details:      map[string]any{"old_path": oldPath, "path": folder.Path},
	})

	return folder, nil
}

// DeleteFolder deletes a folder with all descendant folders and files.
// Rows go in one transaction; blobs are released afterwards, best effort.
func (s *folderService) DeleteFolder(ctx context.Context, folderID string) error {
	var (
		folder  *models.Folder
		files   []models.File
		folders int64
	)
	err := retryOnConflict(ctx, s.txManager, s.logger, "delete folder", func(ctx context.Context) error {
		var err error
		folder, err = s.folderRepo.LockSubtree(ctx, folderID)
		if err != nil {
			return err
		}

		files, err = s.fileRepo.ListBySubtree(ctx, folder.DataroomID, folder.Path)
		if err != nil {
			return fmt.Errorf("failed to list subtree files: %w", err)
		}

		folders, err = s.folderRepo.DeleteSubtree(ctx, folder)
		return err
	})
	if err != nil {
		return err
	}

	failed := s.releaser.Release(ctx, storagePaths(files))

	s.logger.Info("folder deleted",
		"id", folder.ID,
		"path", folder.Path,
		"dataroom_id", folder.DataroomID,
		"folders", folders,
		"files", len(files),
		"blob_failures", failed,
	)
	s.audit.Record(ctx, services.AuditEvent{
		Action:       "folder.delete",
		DataroomID:   folder.DataroomID,
		ResourceType: "folder",
		ResourceID:   folder.ID,
		ActorID:      services.ActorID(ctx),
		Details:      map[string]any{"path": folder.Path, "folders": folders, "files": len(files)},
	})

	return nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func validateFolderName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.RuneLength(1, config.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
	)
	if err != nil {
		return fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
	}
	return nil
}
