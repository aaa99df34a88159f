package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
)

// FileRepository implements docstore.FileRepository on gorm
type FileRepository struct {
	client *Client
}

// NewFileRepository creates a new file repository
func NewFileRepository(client *Client) docstoreRepo.FileRepository {
	return &FileRepository{client: client}
}

func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	record := fileRecord(file)
	if err := r.client.conn(ctx).Create(&record).Error; err != nil {
		if isDuplicate(err) {
			if strings.Contains(err.Error(), "storage_path") {
				return conflict("storage path", file.StoragePath)
			}
			return conflict("file", file.Name)
		}
		if isForeignKey(err) {
			return fmt.Errorf("file folder or dataroom: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}
	file.CreatedAt = record.CreatedAt
	file.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	var record File
	if err := r.client.conn(ctx).Where("id = ?", id).Take(&record).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}
	file := record.toModel()
	return &file, nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	return r.find(r.client.conn(ctx).Where("folder_id = ?", folderID).Order("name ASC"))
}

func (r *FileRepository) ListByDataroom(ctx context.Context, dataroomID string) ([]models.File, error) {
	return r.find(r.client.conn(ctx).Where("dataroom_id = ?", dataroomID).Order("name ASC"))
}

func (r *FileRepository) ListBySubtree(ctx context.Context, dataroomID, path string) ([]models.File, error) {
	db := r.client.conn(ctx)
	prefix := models.SubtreePrefix(path)
	subtree := db.Session(&gorm.Session{NewDB: true}).Model(&Folder{}).Select("id").
		Where("dataroom_id = ?", dataroomID).
		Where("path = ? OR "+underPrefix, path, prefix, prefix)
	return r.find(db.Where("folder_id IN (?)", subtree).Order("name ASC"))
}

func (r *FileRepository) Update(ctx context.Context, file *models.File) error {
	result := r.client.conn(ctx).Model(&File{}).Where("id = ?", file.ID).Updates(map[string]any{
		"name":       file.Name,
		"updated_at": file.UpdatedAt,
	})
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return conflict("file", file.Name)
		}
		return fmt.Errorf("update file: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	result := r.client.conn(ctx).Where("id = ?", id).Delete(&File{})
	if result.Error != nil {
		return fmt.Errorf("delete file: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *FileRepository) find(query *gorm.DB) ([]models.File, error) {
	var records []File
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	files := make([]models.File, 0, len(records))
	for _, record := range records {
		files = append(files, record.toModel())
	}
	return files, nil
}
