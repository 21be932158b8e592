package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlasmtools/hlasm-ls/config"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, int32(4096), cfg.BranchCounterLimit)
	assert.Empty(t, cfg.LibraryPaths)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hlasm-ls.toml")
	content := `
library_paths = ["copybooks", "macros"]
branch_counter_limit = 100
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"copybooks", "macros"}, cfg.LibraryPaths)
	assert.Equal(t, int32(100), cfg.BranchCounterLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hlasm-ls.toml")
	require.NoError(t, os.WriteFile(path, []byte("library_paths = ["), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
