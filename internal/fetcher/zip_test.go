package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func createTestZIP(t *testing.T, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return zipPath
}

func TestExtractZIP_Shapefile(t *testing.T) {
	zipPath := createTestZIP(t, map[string]string{
		"bto/bto.shp": "shp",
		"bto/bto.shx": "shx",
		"bto/bto.dbf": "dbf",
	})

	destDir := t.TempDir()
	extracted, err := ExtractZIP(zipPath, destDir)
	require.NoError(t, err)
	assert.Len(t, extracted, 3)

	data, err := os.ReadFile(filepath.Join(destDir, "bto", "bto.dbf"))
	require.NoError(t, err)
	assert.Equal(t, "dbf", string(data))

	shpPath, err := FindFileByExt(destDir, ".shp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "bto", "bto.shp"), shpPath)
}

func TestExtractZIP_ZipSlip(t *testing.T) {
	zipPath := createTestZIP(t, map[string]string{"../../evil.txt": "x"})

	_, err := ExtractZIP(zipPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zip slip")
}

func TestExtractZIP_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.zip")
	require.NoError(t, writeFile(path, "plain text"))

	_, err := ExtractZIP(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zip: open archive")
}

func TestFindFileByExt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(filepath.Join(dir, "b.SHP"), ""))
	require.NoError(t, writeFile(filepath.Join(dir, "a.shp"), ""))
	require.NoError(t, writeFile(filepath.Join(dir, "a.dbf"), ""))

	got, err := FindFileByExt(dir, ".shp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.shp"), got)

	_, err = FindFileByExt(dir, ".geojson")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .geojson file")
}
