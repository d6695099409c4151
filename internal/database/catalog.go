package database

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/zeebo/blake3"

	"github.com/jchantrell/waddb/internal/cache"
	"github.com/jchantrell/waddb/internal/wad"
)

// CatalogStats summarizes a catalog build
type CatalogStats struct {
	Archives int
	Lumps    int
	Active   int
	Shadowed int
	Markers  int
	Bytes    int64
}

// CatalogOptions configures BuildCatalog
type CatalogOptions struct {
	// Digest computes a blake3 digest of every non-marker lump. This reads
	// every lump's data.
	Digest bool

	// Progress is called once per lump processed
	Progress func(current int, total int, description string)
}

// BuildCatalog records every archive and lump of m into the database.
// A lump is active when it is what m resolves its name to under m's
// override policy. If any step fails the partial catalog is dropped.
func BuildCatalog(ctx context.Context, db *Database, m *wad.Manager, options *CatalogOptions) (*CatalogStats, error) {
	if options == nil {
		options = &CatalogOptions{}
	}

	ddl := NewDDLManager(db)
	err := ddl.CreateSchemas(ctx, func(current, total int, description string) {
		slog.Debug("Created catalog object", "name", description, "step", current, "of", total)
	})
	if err != nil {
		return nil, fmt.Errorf("creating schemas: %w", err)
	}

	stats, err := buildCatalog(ctx, db, m, options)
	if err != nil {
		if dropErr := ddl.DropSchemas(context.WithoutCancel(ctx)); dropErr != nil {
			slog.Error("Failed to drop partial catalog", "database", db.Path(), "error", dropErr)
		}
		return nil, err
	}
	return stats, nil
}

func buildCatalog(ctx context.Context, db *Database, m *wad.Manager, options *CatalogOptions) (*CatalogStats, error) {
	inserter := NewBulkInserter(db, nil)
	if err := inserter.SetMeta(ctx, "policy", m.Policy().String()); err != nil {
		return nil, err
	}

	total := 0
	for i := 0; i < m.Len(); i++ {
		a, _ := m.Archive(i)
		total += a.Len()
	}

	stats := &CatalogStats{}
	files := cache.CacheManager()
	processed := 0

	for i := 0; i < m.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, err := m.Archive(i)
		if err != nil {
			return nil, err
		}

		header := a.Header()
		archiveRow := &ArchiveRow{
			ID:              int64(i + 1),
			Path:            a.Path(),
			Type:            string(header.Type()),
			LumpCount:       header.LumpCount,
			DirectoryOffset: header.DirectoryOffset,
			LoadOrder:       i,
			Size:            files.GetFileSize(a.Path()),
		}

		rows := make([]LumpRow, 0, a.Len())
		for j, lump := range a.Lumps() {
			row, err := catalogLump(m, wad.LumpIndex{Archive: i, Lump: int32(j)}, lump, options.Digest)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)

			stats.Lumps++
			stats.Bytes += int64(lump.Size)
			switch {
			case row.Marker:
				stats.Markers++
			case row.Active:
				stats.Active++
			default:
				stats.Shadowed++
			}

			processed++
			if options.Progress != nil {
				options.Progress(processed, total, lump.Name)
			}
		}

		if err := inserter.InsertArchive(ctx, archiveRow, rows); err != nil {
			return nil, err
		}
		stats.Archives++
	}

	slog.Info("Catalog built",
		"archives", stats.Archives,
		"lumps", stats.Lumps,
		"active", stats.Active,
		"shadowed", stats.Shadowed,
		"markers", stats.Markers)

	return stats, nil
}

func catalogLump(m *wad.Manager, idx wad.LumpIndex, lump wad.Lump, digest bool) (LumpRow, error) {
	row := LumpRow{
		Index:    int(idx.Lump),
		Name:     lump.Name,
		Position: lump.Position,
		Size:     lump.Size,
		Marker:   lump.IsMarker(),
	}

	winner, err := m.Resolve(lump.Name)
	if err != nil {
		return LumpRow{}, fmt.Errorf("resolving %s: %w", lump.Name, err)
	}
	row.Active = winner == idx

	if digest && !row.Marker {
		data, err := m.Data(idx)
		if err != nil {
			return LumpRow{}, fmt.Errorf("reading %s for digest: %w", lump.Name, err)
		}
		row.Digest = Digest(data)
	}

	return row, nil
}

// Digest returns the hex encoded blake3 digest of data
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
