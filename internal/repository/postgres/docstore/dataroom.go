package docstore

import (
	"context"
	"fmt"

	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
	"dataroom/internal/repository/postgres"
)

// PostgresDataroomRepository implements the DataroomRepository interface
type PostgresDataroomRepository struct {
	pool   postgres.Pool
	tables *postgres.TableNames
}

// NewDataroomRepository creates a new dataroom repository
func NewDataroomRepository(config *postgres.RepositoryConfig) docstoreRepo.DataroomRepository {
	return &PostgresDataroomRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new dataroom
func (r *PostgresDataroomRepository) Create(ctx context.Context, dataroom *models.Dataroom) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Datarooms)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		dataroom.Name,
		dataroom.Description,
		dataroom.CreatedAt,
		dataroom.UpdatedAt,
	).Scan(&dataroom.ID, &dataroom.CreatedAt, &dataroom.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return postgres.NewConflictError("dataroom", dataroom.Name, "")
		}
		return postgres.WrapQueryError("create dataroom", err)
	}

	return nil
}

// GetByID retrieves a dataroom by ID
func (r *PostgresDataroomRepository) GetByID(ctx context.Context, id string) (*models.Dataroom, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Datarooms)

	return r.getOne(ctx, query, id)
}

// GetByName retrieves a dataroom by its unique name
func (r *PostgresDataroomRepository) GetByName(ctx context.Context, name string) (*models.Dataroom, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at
		FROM %s
		WHERE name = $1
	`, r.tables.Datarooms)

	return r.getOne(ctx, query, name)
}

func (r *PostgresDataroomRepository) getOne(ctx context.Context, query string, arg string) (*models.Dataroom, error) {
	var dataroom models.Dataroom
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&dataroom.ID,
		&dataroom.Name,
		&dataroom.Description,
		&dataroom.CreatedAt,
		&dataroom.UpdatedAt,
	)

	if err != nil {
		return nil, postgres.WrapLookupError("dataroom", arg, err)
	}

	return &dataroom, nil
}

// List retrieves all datarooms, ordered by created_at DESC
func (r *PostgresDataroomRepository) List(ctx context.Context) ([]models.Dataroom, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at
		FROM %s
		ORDER BY created_at DESC, name ASC
	`, r.tables.Datarooms)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, postgres.WrapQueryError("list datarooms", err)
	}
	defer rows.Close()

	datarooms := []models.Dataroom{}
	for rows.Next() {
		var dataroom models.Dataroom
		if err := rows.Scan(
			&dataroom.ID,
			&dataroom.Name,
			&dataroom.Description,
			&dataroom.CreatedAt,
			&dataroom.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan dataroom: %w", err)
		}
		datarooms = append(datarooms, dataroom)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datarooms: %w", err)
	}

	return datarooms, nil
}

// Delete removes a dataroom. Folder and file rows go with it through ON DELETE CASCADE.
func (r *PostgresDataroomRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Datarooms)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.WrapQueryError("delete dataroom", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("dataroom %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
