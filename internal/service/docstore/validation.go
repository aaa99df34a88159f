package docstore

import (
	"context"
	"fmt"

	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
)

// ResourceValidator checks that parent resources exist and contain each other
// before operations on child resources
type ResourceValidator struct {
	dataroomRepo docstoreRepo.DataroomRepository
	folderRepo   docstoreRepo.FolderRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(
	dataroomRepo docstoreRepo.DataroomRepository,
	folderRepo docstoreRepo.FolderRepository,
) *ResourceValidator {
	return &ResourceValidator{
		dataroomRepo: dataroomRepo,
		folderRepo:   folderRepo,
	}
}

// ValidateDataroom ensures a dataroom exists.
// Returns domain.ErrNotFound if it doesn't.
func (v *ResourceValidator) ValidateDataroom(ctx context.Context, dataroomID string) (*models.Dataroom, error) {
	dataroom, err := v.dataroomRepo.GetByID(ctx, dataroomID)
	if err != nil {
		return nil, fmt.Errorf("invalid dataroom: %w", err)
	}
	return dataroom, nil
}

// ValidateFolderInDataroom ensures a folder exists and belongs to the dataroom.
// Returns domain.ErrNotFound if it is absent and domain.ErrValidation if it lives elsewhere.
func (v *ResourceValidator) ValidateFolderInDataroom(ctx context.Context, folderID, dataroomID string) (*models.Folder, error) {
	folder, err := v.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("invalid folder: %w", err)
	}
	if folder.DataroomID != dataroomID {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("folder %s does not belong to dataroom %s", folderID, dataroomID),
		}
	}
	return folder, nil
}

// LockParentInDataroom is ValidateFolderInDataroom for a folder about to
// receive a child folder. The parent row stays share-locked until the
// transaction ends, so its path cannot change before the child's path commits.
func (v *ResourceValidator) LockParentInDataroom(ctx context.Context, folderID, dataroomID string) (*models.Folder, error) {
	folder, err := v.folderRepo.GetByIDForShare(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("invalid parent folder: %w", err)
	}
	if folder.DataroomID != dataroomID {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("folder %s does not belong to dataroom %s", folderID, dataroomID),
		}
	}
	return folder, nil
}
