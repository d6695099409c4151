package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waddb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
archives:
  - doom2.wad
  - mymod.wad
policy: last
database: catalog.db
log_level: debug
`)

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"doom2.wad", "mymod.wad"}, cfg.Archives)
	assert.Equal(t, PolicyLast, cfg.Policy)
	assert.Equal(t, "catalog.db", cfg.Database)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "unset keys fall back to defaults")
	assert.Empty(t, cfg.Output, "extract picks a cache directory when unset")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Archives)
	assert.Equal(t, PolicyFirst, cfg.Policy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, cfg.Cache().GetDatabasePath(), cfg.Database)
	assert.Empty(t, cfg.CacheDir)
}

func TestLoadCacheDir(t *testing.T) {
	dir := t.TempDir()
	cfg, err := load(viper.New(), writeConfig(t, "cache_dir: '"+dir+"'\n"))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Cache().GetCacheDir())
	assert.Equal(t, filepath.Join(dir, "waddb.db"), cfg.Database, "database follows cache_dir when unset")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"unknown policy", "policy: newest\n", "unsupported policy"},
		{"empty archive", "archives: [doom.wad, '']\n", "cannot be empty"},
		{"duplicate archive", "archives: [doom.wad, doom.wad]\n", "more than once"},
		{"unknown log format", "log_format: xml\n", "unsupported log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(viper.New(), writeConfig(t, tt.body))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.message)
		})
	}
}

func TestValidateAfterOverride(t *testing.T) {
	cfg := &Config{Policy: PolicyFirst, LogFormat: "json"}
	require.NoError(t, cfg.Validate())

	cfg.Policy = "random"
	assert.Error(t, cfg.Validate())
}
