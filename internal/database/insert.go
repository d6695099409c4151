package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// BulkInserter handles efficient batch insertion of catalog rows
type BulkInserter struct {
	db        *Database
	batchSize int
}

// BulkInsertOptions configures bulk insertion behavior
type BulkInsertOptions struct {
	// BatchSize determines how many lump rows go into one INSERT statement
	BatchSize int
}

// DefaultBulkInsertOptions returns sensible defaults for bulk insertion
func DefaultBulkInsertOptions() *BulkInsertOptions {
	return &BulkInsertOptions{
		BatchSize: 1000,
	}
}

// NewBulkInserter creates a new bulk inserter with the given database and options
func NewBulkInserter(db *Database, options *BulkInsertOptions) *BulkInserter {
	if options == nil {
		options = DefaultBulkInsertOptions()
	}
	if options.BatchSize <= 0 {
		options.BatchSize = DefaultBulkInsertOptions().BatchSize
	}

	return &BulkInserter{
		db:        db,
		batchSize: options.BatchSize,
	}
}

// ArchiveRow is one row of the archives table
type ArchiveRow struct {
	ID              int64
	Path            string
	Type            string
	LumpCount       int32
	DirectoryOffset int32
	LoadOrder       int
	Size            int64
}

// LumpRow is one row of the lumps table
type LumpRow struct {
	Index    int
	Name     string
	Position int32
	Size     int32
	Marker   bool
	Digest   string // empty for markers
	Active   bool
}

const insertArchiveSQL = `INSERT INTO archives (id, path, type, lump_count, directory_offset, load_order, size)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertLumpSQL = `INSERT INTO lumps (archive_id, lump_index, name, position, size, marker, digest, active)
VALUES `

const lumpPlaceholders = "(?, ?, ?, ?, ?, ?, ?, ?)"

// InsertArchive inserts an archive row and its lumps in one transaction.
// Lumps are written BatchSize rows per statement. On failure nothing of
// the archive is left behind.
func (bi *BulkInserter) InsertArchive(ctx context.Context, archive *ArchiveRow, lumps []LumpRow) error {
	if archive == nil {
		return fmt.Errorf("archive row cannot be nil")
	}

	tx, err := bi.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.ExecContext(ctx, insertArchiveSQL,
		archive.ID, archive.Path, archive.Type, archive.LumpCount,
		archive.DirectoryOffset, archive.LoadOrder, archive.Size); err != nil {
		return fmt.Errorf("inserting archive %s: %w", archive.Path, err)
	}

	for i := 0; i < len(lumps); i += bi.batchSize {
		end := min(i+bi.batchSize, len(lumps))

		if err := insertBatch(ctx, tx, archive.ID, lumps[i:end]); err != nil {
			return fmt.Errorf("inserting lumps %d-%d for archive %s: %w", i, end-1, archive.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing archive %s: %w", archive.Path, err)
	}

	slog.Debug("Inserted archive", "path", archive.Path, "lumps", len(lumps))
	return nil
}

// insertBatch writes a batch of lump rows as a single multi-row INSERT
func insertBatch(ctx context.Context, tx *sql.Tx, archiveID int64, batch []LumpRow) error {
	var query strings.Builder
	query.WriteString(insertLumpSQL)
	args := make([]any, 0, len(batch)*8)

	for i, row := range batch {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString(lumpPlaceholders)

		var digest any
		if row.Digest != "" {
			digest = row.Digest
		}
		args = append(args, archiveID, row.Index, row.Name, row.Position, row.Size,
			boolToInt(row.Marker), digest, boolToInt(row.Active))
	}

	if _, err := tx.ExecContext(ctx, query.String(), args...); err != nil {
		return err
	}
	return nil
}

// SetMeta records a key/value pair describing how the catalog was built
func (bi *BulkInserter) SetMeta(ctx context.Context, key, value string) error {
	_, err := bi.db.Exec(ctx, `INSERT INTO _meta (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %s: %w", key, err)
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
