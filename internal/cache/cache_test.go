package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	c := NewCache(root)

	assert.Equal(t, root, c.GetCacheDir())
	assert.Equal(t, filepath.Join(root, "waddb.db"), c.GetDatabasePath())
	assert.Equal(t, filepath.Join(root, "export", "doom2"), c.GetExportDir("/games/DOOM2.WAD"))
	assert.Equal(t, filepath.Join(root, "export", "my_mod"), c.GetExportDir("My Mod.wad"))
}

func TestCacheFiles(t *testing.T) {
	t.Parallel()

	c := NewCache(t.TempDir())
	file := filepath.Join(c.GetCacheDir(), "f.lmp")
	assert.False(t, c.FileExists(file))
	assert.Zero(t, c.GetFileSize(file))

	require.NoError(t, os.WriteFile(file, []byte("12345"), 0o644))
	assert.True(t, c.FileExists(file))
	assert.Equal(t, int64(5), c.GetFileSize(file))
}
