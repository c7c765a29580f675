package fetcher

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractZIP(t *testing.T) {
	data := buildZip(t, map[string]string{
		"counties.shp":   "shape data",
		"counties.dbf":   "attribute data",
		"doc/readme.txt": "notes",
	})

	dest := t.TempDir()
	paths, err := ExtractZIP(bytes.NewReader(data), dest)
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	content, err := os.ReadFile(filepath.Join(dest, "counties.shp"))
	require.NoError(t, err)
	assert.Equal(t, "shape data", string(content))

	content, err = os.ReadFile(filepath.Join(dest, "doc", "readme.txt"))
	require.NoError(t, err)
	assert.Equal(t, "notes", string(content))
}

func TestExtractZIPFile(t *testing.T) {
	data := buildZip(t, map[string]string{"grid.asc": "ncols 2"})
	zipPath := filepath.Join(t.TempDir(), "grid.zip")
	require.NoError(t, os.WriteFile(zipPath, data, 0o644))

	dest := t.TempDir()
	paths, err := ExtractZIPFile(zipPath, dest)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dest, "grid.asc"), paths[0])
}

func TestExtractZIPRejectsEscape(t *testing.T) {
	data := buildZip(t, map[string]string{"../escape.txt": "bad"})

	_, err := ExtractZIP(bytes.NewReader(data), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")
}
