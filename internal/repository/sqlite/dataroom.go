package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
)

// DataroomRepository implements docstore.DataroomRepository on gorm
type DataroomRepository struct {
	client *Client
}

// NewDataroomRepository creates a new dataroom repository
func NewDataroomRepository(client *Client) docstoreRepo.DataroomRepository {
	return &DataroomRepository{client: client}
}

func (r *DataroomRepository) Create(ctx context.Context, dataroom *models.Dataroom) error {
	if dataroom.ID == "" {
		dataroom.ID = uuid.NewString()
	}
	record := Dataroom{
		ID:          dataroom.ID,
		Name:        dataroom.Name,
		Description: dataroom.Description,
		CreatedAt:   dataroom.CreatedAt,
		UpdatedAt:   dataroom.UpdatedAt,
	}
	if err := r.client.conn(ctx).Create(&record).Error; err != nil {
		if isDuplicate(err) {
			return conflict("dataroom", dataroom.Name)
		}
		return fmt.Errorf("create dataroom: %w", err)
	}
	dataroom.CreatedAt = record.CreatedAt
	dataroom.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *DataroomRepository) GetByID(ctx context.Context, id string) (*models.Dataroom, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *DataroomRepository) GetByName(ctx context.Context, name string) (*models.Dataroom, error) {
	return r.take(ctx, "name = ?", name)
}

func (r *DataroomRepository) take(ctx context.Context, cond string, arg string) (*models.Dataroom, error) {
	var record Dataroom
	if err := r.client.conn(ctx).Where(cond, arg).Take(&record).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("dataroom %s: %w", arg, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get dataroom: %w", err)
	}
	dataroom := record.toModel()
	return &dataroom, nil
}

func (r *DataroomRepository) List(ctx context.Context) ([]models.Dataroom, error) {
	var records []Dataroom
	if err := r.client.conn(ctx).Order("created_at DESC").Order("name ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list datarooms: %w", err)
	}
	datarooms := make([]models.Dataroom, 0, len(records))
	for _, record := range records {
		datarooms = append(datarooms, record.toModel())
	}
	return datarooms, nil
}

// Delete removes the files, folders and the dataroom row in that order
func (r *DataroomRepository) Delete(ctx context.Context, id string) error {
	db := r.client.conn(ctx)
	if err := db.Where("dataroom_id = ?", id).Delete(&File{}).Error; err != nil {
		return fmt.Errorf("delete dataroom files: %w", err)
	}
	if err := db.Where("dataroom_id = ?", id).Delete(&Folder{}).Error; err != nil {
		return fmt.Errorf("delete dataroom folders: %w", err)
	}
	result := db.Where("id = ?", id).Delete(&Dataroom{})
	if result.Error != nil {
		return fmt.Errorf("delete dataroom: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("dataroom %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
