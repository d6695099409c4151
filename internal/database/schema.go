package database

import (
	"context"
	"fmt"
	"log/slog"
)

// SchemaProgressCallback is called during schema creation to report progress
type SchemaProgressCallback func(current int, total int, description string)

// catalogDDL holds the statements that create the lump catalog, in
// dependency order
var catalogDDL = []struct {
	name string
	ddl  string
}{
	{"archives", `CREATE TABLE IF NOT EXISTS archives (
    id INTEGER PRIMARY KEY,
    path TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('IWAD', 'PWAD')),
    lump_count INTEGER NOT NULL,
    directory_offset INTEGER NOT NULL,
    load_order INTEGER NOT NULL UNIQUE,
    size INTEGER NOT NULL
)`},
	{"lumps", `CREATE TABLE IF NOT EXISTS lumps (
    archive_id INTEGER NOT NULL REFERENCES archives(id),
    lump_index INTEGER NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    size INTEGER NOT NULL,
    marker INTEGER NOT NULL,
    digest TEXT,
    active INTEGER NOT NULL,
    PRIMARY KEY (archive_id, lump_index)
)`},
	{"lumps_name_idx", `CREATE INDEX IF NOT EXISTS lumps_name_idx ON lumps(name)`},
	{"_meta", `CREATE TABLE IF NOT EXISTS _meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`},
	{"overrides", `CREATE VIEW IF NOT EXISTS overrides AS
SELECT w.name AS name,
       wa.path AS winner,
       w.lump_index AS winner_index,
       sa.path AS shadowed,
       s.lump_index AS shadowed_index,
       w.digest = s.digest AS identical
FROM lumps w
JOIN archives wa ON wa.id = w.archive_id
JOIN lumps s ON s.name = w.name AND s.active = 0
JOIN archives sa ON sa.id = s.archive_id
WHERE w.active = 1`},
}

// DDLManager handles catalog schema creation
type DDLManager struct {
	db *Database
}

// NewDDLManager creates a new DDL manager
func NewDDLManager(db *Database) *DDLManager {
	return &DDLManager{db: db}
}

// CreateSchemas creates the catalog tables, index and views inside a
// single transaction
func (dm *DDLManager) CreateSchemas(ctx context.Context, progressCallback SchemaProgressCallback) error {
	if dm.db == nil {
		return fmt.Errorf("database cannot be nil")
	}

	tx, err := dm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Safe to call even after commit

	for i, stmt := range catalogDDL {
		if _, err := tx.ExecContext(ctx, stmt.ddl); err != nil {
			return fmt.Errorf("creating %s: %w", stmt.name, err)
		}
		if progressCallback != nil {
			progressCallback(i+1, len(catalogDDL), stmt.name)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}

	slog.Debug("Created catalog schema", "statements", len(catalogDDL))
	return nil
}

// DropSchemas removes an existing catalog so it can be rebuilt
func (dm *DDLManager) DropSchemas(ctx context.Context) error {
	for _, stmt := range []string{
		"DROP VIEW IF EXISTS overrides",
		"DROP TABLE IF EXISTS lumps",
		"DROP TABLE IF EXISTS archives",
		"DROP TABLE IF EXISTS _meta",
	} {
		if _, err := dm.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("dropping catalog: %w", err)
		}
	}
	return nil
}
