package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{"b.yaml", "a.YML", "sub/c.json", "notes.txt"} {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
	}

	files, err := FindFilesByExtension(root, ".yaml", ".yml", ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.YML"),
		filepath.Join(root, "b.yaml"),
		filepath.Join(root, "sub", "c.json"),
	}, files)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".yaml")
	assert.Error(t, err)
	assert.Panics(t, func() { _, _ = FindFilesByExtension(root) })
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "main", BaseName("/tmp/graphs/main.yaml"))
	assert.Equal(t, "plain", BaseName("plain"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	err = WriteFileAtomic(filepath.Join(dir, "missing", "graph.yaml"), []byte("x"), 0o644)
	assert.Error(t, err)
}
