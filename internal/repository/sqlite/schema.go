package sqlite

import (
	"context"
	"fmt"
)

// Migrate creates the metadata tables. Indexes are written by hand because gorm
// tags cannot express the partial unique index on root folders.
func (c *Client) Migrate(ctx context.Context) error {
	datarooms := c.TableName("Dataroom")
	folders := c.TableName("Folder")
	files := c.TableName("File")

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL CHECK (length(name) <= 200),
			description TEXT CHECK (description IS NULL OR length(description) <= 500),
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, datarooms),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_name_key ON %[1]s (name)`, datarooms),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
			id TEXT PRIMARY KEY,
			dataroom_id TEXT NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			parent_id TEXT REFERENCES %[1]s(id) ON DELETE CASCADE,
			name TEXT NOT NULL CHECK (length(name) <= 255),
			path TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			CHECK (parent_id IS NULL OR id <> parent_id)
		)`, folders, datarooms),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_sibling_name_key ON %[1]s (dataroom_id, parent_id, name) WHERE parent_id IS NOT NULL`, folders),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_root_name_key ON %[1]s (dataroom_id, name) WHERE parent_id IS NULL`, folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_path_idx ON %[1]s (dataroom_id, path)`, folders),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
			id TEXT PRIMARY KEY,
			dataroom_id TEXT NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
			folder_id TEXT NOT NULL REFERENCES %[3]s(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			original_filename TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			storage_path TEXT NOT NULL,
			checksum_sha256 TEXT,
			version INTEGER NOT NULL DEFAULT 1,
			uploaded_by_id TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, files, datarooms, folders),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_folder_name_key ON %[1]s (folder_id, name)`, files),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_storage_path_key ON %[1]s (storage_path)`, files),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_dataroom_idx ON %[1]s (dataroom_id)`, files),
	}

	db := c.db.WithContext(ctx)
	for i, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// Drop removes the metadata tables, children first
func (c *Client) Drop(ctx context.Context) error {
	db := c.db.WithContext(ctx)
	for _, record := range []string{"File", "Folder", "Dataroom"} {
		if err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, c.TableName(record))).Error; err != nil {
			return fmt.Errorf("drop %s: %w", record, err)
		}
	}
	return nil
}
