package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jchantrell/waddb/internal/wad"
	"github.com/jchantrell/waddb/internal/wad/wadtest"
)

func TestExportLumps(t *testing.T) {
	t.Parallel()

	base := wadtest.WriteWAD(t, "doom.wad", "IWAD",
		wadtest.Lump{Name: "PLAYPAL", Data: []byte("base palette")},
		wadtest.Lump{Name: "S_START"},
		wadtest.Lump{Name: "COLORMAP", Data: []byte("colormap")},
	)
	patch := wadtest.WriteWAD(t, "patch.wad", "PWAD",
		wadtest.Lump{Name: "PLAYPAL", Data: []byte("patch palette")},
	)

	m := wad.NewManager(wad.WithPolicy(wad.LastWins))
	t.Cleanup(func() { m.Close() })
	require.NoError(t, m.AddArchive(base))
	require.NoError(t, m.AddArchive(patch))

	outputDir := filepath.Join(t.TempDir(), "out")
	exporter := NewExporter(m, outputDir)

	var calls int
	stats, err := exporter.ExportLumps(
		[]string{"PLAYPAL", "COLORMAP", "S_START", "NOPE", "PLAYPAL"},
		func(current, total int, description string) {
			calls++
			assert.Equal(t, 5, total)
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 5, calls)
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, 1, stats.Markers)
	assert.Equal(t, 1, stats.Missing)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, int64(len("patch palette")+len("colormap")), stats.Bytes)

	got, err := os.ReadFile(filepath.Join(outputDir, "PLAYPAL.lmp"))
	require.NoError(t, err)
	assert.Equal(t, []byte("patch palette"), got)

	assert.FileExists(t, filepath.Join(outputDir, "COLORMAP.lmp"))
	assert.NoFileExists(t, filepath.Join(outputDir, "S_START.lmp"))
}

func TestExportNothing(t *testing.T) {
	t.Parallel()

	outputDir := filepath.Join(t.TempDir(), "never")
	stats, err := NewExporter(wad.NewManager(), outputDir).ExportLumps(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Written)
	assert.NoDirExists(t, outputDir)
}

func TestExportReadFailure(t *testing.T) {
	t.Parallel()

	payload := []byte("ok")
	data := wadtest.Raw(t, "PWAD", 1, int32(12+len(payload)), payload, []wadtest.Entry{
		{Position: 12, Size: 500, Name: "BROKEN"},
	})
	m := wad.NewManager()
	t.Cleanup(func() { m.Close() })
	require.NoError(t, m.AddArchive(wadtest.WriteFile(t, "broken.wad", data)))

	stats, err := NewExporter(m, t.TempDir()).ExportLumps([]string{"BROKEN"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Failures, 1)
	assert.ErrorIs(t, stats.Failures[0], wad.ErrShortRead)
}

func TestExportFileNameCollision(t *testing.T) {
	t.Parallel()

	path := wadtest.WriteWAD(t, "slash.wad", "PWAD",
		wadtest.Lump{Name: "A/B", Data: []byte("nested")},
		wadtest.Lump{Name: "A_B", Data: []byte("flat")},
	)
	m := wad.NewManager()
	t.Cleanup(func() { m.Close() })
	require.NoError(t, m.AddArchive(path))

	outputDir := t.TempDir()
	stats, err := NewExporter(m, outputDir).ExportLumps([]string{"A/B", "A_B"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, 1, stats.Failed)
	require.Len(t, stats.Failures, 1)
	assert.ErrorIs(t, stats.Failures[0], ErrFileCollision)

	got, err := os.ReadFile(filepath.Join(outputDir, "A_B.lmp"))
	require.NoError(t, err)
	assert.Equal(t, []byte("nested"), got, "the first lump keeps the file")
}
