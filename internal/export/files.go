package export

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jchantrell/waddb/internal/utils"
	"github.com/jchantrell/waddb/internal/wad"
)

// LumpExt is the extension given to exported lump files
const LumpExt = ".lmp"

// LumpLoader defines the interface for resolving and reading lumps
type LumpLoader interface {
	Resolve(name string) (wad.LumpIndex, error)
	Lump(idx wad.LumpIndex) (wad.Lump, error)
	Data(idx wad.LumpIndex) ([]byte, error)
}

// Exporter handles exporting lumps from archives to disk
type Exporter struct {
	loader    LumpLoader
	outputDir string
}

// NewExporter creates a new lump exporter
func NewExporter(loader LumpLoader, outputDir string) *Exporter {
	return &Exporter{
		loader:    loader,
		outputDir: outputDir,
	}
}

// ProgressCallback is called to report export progress
type ProgressCallback func(current int, total int, description string)

// Stats summarizes an export run
type Stats struct {
	Written  int
	Markers  int
	Missing  int
	Failed   int
	Bytes    int64
	Paths    []string
	Failures []error
}

// ExportLumps resolves each name and writes the winning lump to the output
// directory. Names that resolve nowhere are counted and skipped; marker
// lumps have no payload and are not written.
func (e *Exporter) ExportLumps(names []string, progressCallback ProgressCallback) (*Stats, error) {
	stats := &Stats{}
	if len(names) == 0 {
		return stats, nil
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	seen := make(map[string]bool, len(names))
	owners := make(map[string]string, len(names))
	for i, name := range names {
		if progressCallback != nil {
			progressCallback(i+1, len(names), name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		path, size, err := e.exportLump(name, owners)
		switch {
		case errors.Is(err, wad.ErrNotFound):
			slog.Warn("Lump not found in any archive", "lump", name)
			stats.Missing++
		case errors.Is(err, errMarker):
			slog.Debug("Skipping marker lump", "lump", name)
			stats.Markers++
		case err != nil:
			slog.Error("Failed to export lump", "lump", name, "error", err)
			stats.Failed++
			stats.Failures = append(stats.Failures, err)
		default:
			stats.Written++
			stats.Bytes += size
			stats.Paths = append(stats.Paths, path)
		}
	}

	return stats, nil
}

var errMarker = errors.New("marker lump")

// ErrFileCollision is returned when two lump names map to the same output
// file, such as "A/B" and "A_B".
var ErrFileCollision = errors.New("output file already written by another lump")

// exportLump writes a single lump and returns the file path and size.
// owners maps each output path written so far to its lump name.
func (e *Exporter) exportLump(name string, owners map[string]string) (string, int64, error) {
	idx, err := e.loader.Resolve(name)
	if err != nil {
		return "", 0, err
	}

	lump, err := e.loader.Lump(idx)
	if err != nil {
		return "", 0, fmt.Errorf("reading directory entry for %s: %w", name, err)
	}
	if lump.IsMarker() {
		return "", 0, errMarker
	}

	data, err := e.loader.Data(idx)
	if err != nil {
		return "", 0, fmt.Errorf("reading lump %s: %w", name, err)
	}

	outputPath := filepath.Join(e.outputDir, utils.LumpFileName(lump.Name, LumpExt))
	if owner, ok := owners[outputPath]; ok {
		return "", 0, fmt.Errorf("%w: %s and %s both map to %s", ErrFileCollision, owner, lump.Name, outputPath)
	}
	owners[outputPath] = lump.Name

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", 0, fmt.Errorf("writing %s: %w", outputPath, err)
	}

	slog.Debug("Exported lump", "lump", name, "archive", idx.Archive, "index", idx.Lump, "size", len(data), "path", outputPath)
	return outputPath, int64(len(data)), nil
}
