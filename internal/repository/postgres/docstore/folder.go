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

const folderColumns = "id, dataroom_id, parent_id, name, path, created_at, updated_at"

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   postgres.Pool
	tables *postgres.TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) docstoreRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (dataroom_id, parent_id, name, path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.DataroomID,
		folder.ParentID,
		folder.Name,
		folder.Path,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return postgres.NewConflictError("folder", folder.Name, "")
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("folder parent or dataroom: %w", domain.ErrNotFound)
		}
		return postgres.WrapQueryError("create folder", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, postgres.WrapLookupError("folder", id, err)
	}

	return folder, nil
}

// GetByIDForShare retrieves a folder holding a FOR SHARE lock on its row.
// A concurrent LockSubtree on an ancestor waits for this transaction, and this
// read waits for one already holding it, then sees its committed path.
func (r *PostgresFolderRepository) GetByIDForShare(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR SHARE`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, postgres.WrapLookupError("folder", id, err)
	}

	return folder, nil
}

// LockSubtree takes FOR UPDATE locks on the folder, then on its descendants in
// path order. The folder is read after its lock is granted, so under READ
// COMMITTED its path reflects any rename that committed while we waited.
// Statements issued after this one see children inserted before the locks
// were granted; later inserts wait on the parent's share lock.
func (r *PostgresFolderRepository) LockSubtree(ctx context.Context, id string) (*models.Folder, error) {
	folderQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, folderQuery, id))
	if err != nil {
		return nil, postgres.WrapLookupError("folder", id, err)
	}

	descendantsQuery := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE dataroom_id = $1 AND starts_with(path, $2::text)
		ORDER BY path ASC
		FOR UPDATE
	`, r.tables.Folders)

	rows, err := executor.Query(ctx, descendantsQuery, folder.DataroomID, models.SubtreePrefix(folder.Path))
	if err != nil {
		return nil, postgres.WrapQueryError("lock folder subtree", err)
	}
	defer rows.Close()
	// Locks are taken as rows are fetched, so the result is drained.
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.WrapQueryError("lock folder subtree", err)
	}

	return folder, nil
}

// ListChildren lists immediate child folders ordered by name
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, dataroomID string, parentID *string) ([]models.Folder, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE dataroom_id = $1 AND parent_id IS NULL
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = []any{dataroomID}
	} else {
		query = fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE dataroom_id = $1 AND parent_id = $2
			ORDER BY name ASC
		`, folderColumns, r.tables.Folders)
		args = []any{dataroomID, *parentID}
	}

	return r.list(ctx, query, args...)
}

// ListByDataroom retrieves all folders in a dataroom ordered by path
func (r *PostgresFolderRepository) ListByDataroom(ctx context.Context, dataroomID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE dataroom_id = $1
		ORDER BY path ASC
	`, folderColumns, r.tables.Folders)

	return r.list(ctx, query, dataroomID)
}

// Update persists name, parent and path
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, path = $3, updated_at = $4
		WHERE id = $5
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.Path,
		folder.UpdatedAt,
		folder.ID,
	)

	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return postgres.NewConflictError("folder", folder.Name, "")
		}
		return postgres.WrapQueryError("update folder", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// RebaseDescendants replaces the oldPath prefix of every descendant path with newPath
func (r *PostgresFolderRepository) RebaseDescendants(ctx context.Context, dataroomID, oldPath, newPath string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET path = $1::text || substr(path, char_length($2::text) + 1), updated_at = NOW()
		WHERE dataroom_id = $3 AND starts_with(path, $4::text)
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		newPath,
		oldPath,
		dataroomID,
		models.SubtreePrefix(oldPath),
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return 0, postgres.NewConflictError("folder", newPath, "")
		}
		return 0, postgres.WrapQueryError("rebase folder paths", err)
	}

	return result.RowsAffected(), nil
}

// DeleteSubtree removes the folder, its descendants and their files
func (r *PostgresFolderRepository) DeleteSubtree(ctx context.Context, folder *models.Folder) (int64, error) {
	filesQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE folder_id IN (
			SELECT id FROM %s
			WHERE dataroom_id = $1 AND (id = $2 OR starts_with(path, $3::text))
		)
	`, r.tables.Files, r.tables.Folders)

	foldersQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE dataroom_id = $1 AND (id = $2 OR starts_with(path, $3::text))
	`, r.tables.Folders)

	prefix := models.SubtreePrefix(folder.Path)
	executor := postgres.GetExecutor(ctx, r.pool)

	if _, err := executor.Exec(ctx, filesQuery, folder.DataroomID, folder.ID, prefix); err != nil {
		return 0, postgres.WrapQueryError("delete subtree files", err)
	}

	result, err := executor.Exec(ctx, foldersQuery, folder.DataroomID, folder.ID, prefix)
	if err != nil {
		return 0, postgres.WrapQueryError("delete subtree folders", err)
	}

	if result.RowsAffected() == 0 {
		return 0, fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return result.RowsAffected(), nil
}

func (r *PostgresFolderRepository) list(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.WrapQueryError("list folders", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.DataroomID,
		&folder.ParentID,
		&folder.Name,
		&folder.Path,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
