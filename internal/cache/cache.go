package cache

import (
	"os"
	"path/filepath"
	"strings"
)

// Cache resolves the per-user workspace where waddb keeps its catalog and
// exported lumps
type Cache struct {
	root string
}

// CacheManager creates a cache rooted in the user's home directory
func CacheManager() *Cache {
	return &Cache{}
}

// NewCache creates a cache rooted at dir
func NewCache(dir string) *Cache {
	return &Cache{root: dir}
}

// GetCacheDir returns the workspace root
func (m *Cache) GetCacheDir() string {
	if m.root != "" {
		return m.root
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".waddb")
	}
	return filepath.Join(homeDir, ".waddb")
}

// GetDatabasePath returns the default catalog database path
func (m *Cache) GetDatabasePath() string {
	return filepath.Join(m.GetCacheDir(), "waddb.db")
}

// GetExportDir returns the directory lumps of an archive are exported to
func (m *Cache) GetExportDir(archivePath string) string {
	base := filepath.Base(archivePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	safeName := strings.ReplaceAll(strings.ToLower(base), " ", "_")
	return filepath.Join(m.GetCacheDir(), "export", safeName)
}

// FileExists checks if a file exists
func (m *Cache) FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// GetFileSize returns the size of a file, or 0 if it doesn't exist
func (m *Cache) GetFileSize(filename string) int64 {
	info, err := os.Stat(filename)
	if err != nil {
		return 0
	}
	return info.Size()
}
