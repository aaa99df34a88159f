package postgres

import (
	"context"
	"fmt"
	"log/slog"
)

// SchemaStatements returns the DDL that creates the metadata tables for the given names.
// Every statement is idempotent.
func SchemaStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name VARCHAR(200) NOT NULL,
				description VARCHAR(500),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT %[1]s_name_key UNIQUE (name)
			)`, t.Datarooms),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				dataroom_id UUID NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
				parent_id UUID REFERENCES %[1]s(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				path TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT %[1]s_not_self_parent CHECK (id <> parent_id)
			)`, t.Folders, t.Datarooms),
		// parent_id IS NULL never compares equal, so roots need their own partial index
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_sibling_name_key ON %[1]s (dataroom_id, parent_id, name) WHERE parent_id IS NOT NULL`, t.Folders),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_root_name_key ON %[1]s (dataroom_id, name) WHERE parent_id IS NULL`, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_path_idx ON %[1]s (dataroom_id, path text_pattern_ops)`, t.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				dataroom_id UUID NOT NULL REFERENCES %[2]s(id) ON DELETE CASCADE,
				folder_id UUID NOT NULL REFERENCES %[3]s(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				original_filename VARCHAR(255) NOT NULL,
				content_type VARCHAR(100) NOT NULL,
				size_bytes BIGINT NOT NULL,
				storage_path TEXT NOT NULL,
				checksum_sha256 CHAR(64),
				version INTEGER NOT NULL DEFAULT 1,
				uploaded_by_id TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT %[1]s_folder_name_key UNIQUE (folder_id, name),
				CONSTRAINT %[1]s_storage_path_key UNIQUE (storage_path)
			)`, t.Files, t.Datarooms, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_dataroom_idx ON %[1]s (dataroom_id)`, t.Files),
	}
}

// DropStatements returns DDL removing the metadata tables, children first
func DropStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, t.Files),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, t.Folders),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, t.Datarooms),
	}
}

// Migrate creates the schema inside a single transaction
func Migrate(ctx context.Context, pool Pool, tables *TableNames, logger *slog.Logger) error {
	return runStatements(ctx, pool, SchemaStatements(tables), logger)
}

// Drop removes the schema inside a single transaction
func Drop(ctx context.Context, pool Pool, tables *TableNames, logger *slog.Logger) error {
	return runStatements(ctx, pool, DropStatements(tables), logger)
}

func runStatements(ctx context.Context, pool Pool, statements []string, logger *slog.Logger) error {
	tm := NewTransactionManager(pool, logger)
	return tm.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, pool)
		for i, stmt := range statements {
			if _, err := executor.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d: %w", i+1, err)
			}
		}
		if logger != nil {
			logger.Info("schema applied", "statements", len(statements))
		}
		return nil
	})
}
