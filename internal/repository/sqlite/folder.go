package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
)

// path starts with the bound prefix; length() counts characters like substr()
const underPrefix = "substr(path, 1, length(?)) = ?"

// FolderRepository implements docstore.FolderRepository on gorm
type FolderRepository struct {
	client *Client
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(client *Client) docstoreRepo.FolderRepository {
	return &FolderRepository{client: client}
}

func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	record := folderRecord(folder)
	if err := r.client.conn(ctx).Create(&record).Error; err != nil {
		if isDuplicate(err) {
			return conflict("folder", folder.Name)
		}
		if isForeignKey(err) {
			return fmt.Errorf("folder parent or dataroom: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}
	folder.CreatedAt = record.CreatedAt
	folder.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *FolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	var record Folder
	if err := r.client.conn(ctx).Where("id = ?", id).Take(&record).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	folder := record.toModel()
	return &folder, nil
}

// GetByIDForShare is a plain read. The client runs on one connection, so a
// write transaction already excludes every other writer.
func (r *FolderRepository) GetByIDForShare(ctx context.Context, id string) (*models.Folder, error) {
	return r.GetByID(ctx, id)
}

// LockSubtree is a plain read for the same reason as GetByIDForShare
func (r *FolderRepository) LockSubtree(ctx context.Context, id string) (*models.Folder, error) {
	return r.GetByID(ctx, id)
}

func (r *FolderRepository) ListChildren(ctx context.Context, dataroomID string, parentID *string) ([]models.Folder, error) {
	query := r.client.conn(ctx).Where("dataroom_id = ?", dataroomID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	return r.find(query.Order("name ASC"))
}

func (r *FolderRepository) ListByDataroom(ctx context.Context, dataroomID string) ([]models.Folder, error) {
	return r.find(r.client.conn(ctx).Where("dataroom_id = ?", dataroomID).Order("path ASC"))
}

func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	result := r.client.conn(ctx).Model(&Folder{}).Where("id = ?", folder.ID).Updates(map[string]any{
		"name":       folder.Name,
		"parent_id":  folder.ParentID,
		"path":       folder.Path,
		"updated_at": folder.UpdatedAt,
	})
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return conflict("folder", folder.Name)
		}
		return fmt.Errorf("update folder: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *FolderRepository) RebaseDescendants(ctx context.Context, dataroomID, oldPath, newPath string) (int64, error) {
	prefix := models.SubtreePrefix(oldPath)
	result := r.client.conn(ctx).Model(&Folder{}).
		Where("dataroom_id = ?", dataroomID).
		Where(underPrefix, prefix, prefix).
		Updates(map[string]any{
			"path":       gorm.Expr("? || substr(path, length(?) + 1)", newPath, oldPath),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return 0, conflict("folder", newPath)
		}
		return 0, fmt.Errorf("rebase folder paths: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *FolderRepository) DeleteSubtree(ctx context.Context, folder *models.Folder) (int64, error) {
	db := r.client.conn(ctx)
	prefix := models.SubtreePrefix(folder.Path)

	subtree := db.Session(&gorm.Session{NewDB: true}).Model(&Folder{}).Select("id").
		Where("dataroom_id = ?", folder.DataroomID).
		Where("id = ? OR "+underPrefix, folder.ID, prefix, prefix)

	// SQLite leaves rows removed by ON DELETE CASCADE out of its change
	// count, so the subtree is counted before anything is deleted.
	var count int64
	if err := db.Model(&Folder{}).
		Where("dataroom_id = ?", folder.DataroomID).
		Where("id = ? OR "+underPrefix, folder.ID, prefix, prefix).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count subtree folders: %w", err)
	}
	if count == 0 {
		return 0, fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	if err := db.Where("folder_id IN (?)", subtree).Delete(&File{}).Error; err != nil {
		return 0, fmt.Errorf("delete subtree files: %w", err)
	}

	result := db.Where("dataroom_id = ?", folder.DataroomID).
		Where("id = ? OR "+underPrefix, folder.ID, prefix, prefix).
		Delete(&Folder{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete subtree folders: %w", result.Error)
	}
	return count, nil
}

func (r *FolderRepository) find(query *gorm.DB) ([]models.Folder, error) {
	var records []Folder
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	folders := make([]models.Folder, 0, len(records))
	for _, record := range records {
		folders = append(folders, record.toModel())
	}
	return folders, nil
}
