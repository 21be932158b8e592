package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlasmtools/hlasm-ls/library"
)

func TestFileSystemProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "MYCOPY.hlasm"), []byte("&A SETA 1\n"), 0o644))

	p := &library.FileSystemProvider{SearchPaths: []string{dir}}

	text, ok := p.Fetch("MYCOPY")
	require.True(t, ok)
	assert.Contains(t, text, "SETA")

	_, ok = p.Fetch("MISSING")
	assert.False(t, ok)
}

func TestMapProviderIsCaseInsensitive(t *testing.T) {
	p := library.MapProvider{"MEM": "text"}

	text, ok := p.Fetch("mem")
	require.True(t, ok)
	assert.Equal(t, "text", text)
}
