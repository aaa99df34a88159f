package docstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dataroom/internal/domain"
	models "dataroom/internal/domain/models/docstore"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
	"dataroom/internal/repository/postgres"
)

const fileColumns = `id, dataroom_id, folder_id, name, original_filename, content_type, size_bytes,
	storage_path, checksum_sha256, version, uploaded_by_id, created_at, updated_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   postgres.Pool
	tables *postgres.TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) docstoreRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts file metadata
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (dataroom_id, folder_id, name, original_filename, content_type, size_bytes,
			storage_path, checksum_sha256, version, uploaded_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.DataroomID,
		file.FolderID,
		file.Name,
		file.OriginalFilename,
		file.ContentType,
		file.SizeBytes,
		file.StoragePath,
		file.Checksum,
		file.Version,
		file.UploadedByID,
		file.CreatedAt,
		file.UpdatedAt,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			if postgres.ConstraintName(err) == r.tables.Files+"_storage_path_key" {
				return postgres.NewConflictError("storage path", file.StoragePath, "")
			}
			return postgres.NewConflictError("file", file.Name, "")
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("file folder or dataroom: %w", domain.ErrNotFound)
		}
		return postgres.WrapQueryError("create file", err)
	}

	return nil
}

// GetByID retrieves a file by ID
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, postgres.WrapLookupError("file", id, err)
	}

	return file, nil
}

// ListByFolder lists files in a folder ordered by name
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = $1
		ORDER BY name ASC
	`, fileColumns, r.tables.Files)

	return r.list(ctx, query, folderID)
}

// ListByDataroom retrieves all files in a dataroom
func (r *PostgresFileRepository) ListByDataroom(ctx context.Context, dataroomID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE dataroom_id = $1
		ORDER BY name ASC
	`, fileColumns, r.tables.Files)

	return r.list(ctx, query, dataroomID)
}

// ListBySubtree lists files in the folder at path and every descendant folder
func (r *PostgresFileRepository) ListBySubtree(ctx context.Context, dataroomID, path string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id IN (
			SELECT id FROM %s
			WHERE dataroom_id = $1 AND (path = $2 OR starts_with(path, $3::text))
		)
		ORDER BY name ASC
	`, fileColumns, r.tables.Files, r.tables.Folders)

	return r.list(ctx, query, dataroomID, path, models.SubtreePrefix(path))
}

// Update persists the visible name
func (r *PostgresFileRepository) Update(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, file.Name, file.UpdatedAt, file.ID)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return postgres.NewConflictError("file", file.Name, "")
		}
		return postgres.WrapQueryError("update file", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a file row
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return postgres.WrapQueryError("delete file", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *PostgresFileRepository) list(ctx context.Context, query string, args ...any) ([]models.File, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.WrapQueryError("list files", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

func scanFile(row pgx.Row) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID,
		&file.DataroomID,
		&file.FolderID,
		&file.Name,
		&file.OriginalFilename,
		&file.ContentType,
		&file.SizeBytes,
		&file.StoragePath,
		&file.Checksum,
		&file.Version,
		&file.UploadedByID,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
