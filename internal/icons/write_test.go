package icons

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadExisting(t *testing.T) {
	dir := t.TempDir()

	data, err := ReadExisting(filepath.Join(dir, "missing.svg"))
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = ReadExisting(dir)
	assert.Error(t, err, "reading a directory should fail")
}

func TestWriteIfChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "sprite.svg")

	changed, err := WriteIfChanged(path, []byte("one"))
	require.NoError(t, err)
	assert.True(t, changed, "first write creates the file")
	assert.Equal(t, "one", readFile(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	changed, err = WriteIfChanged(path, []byte("one"))
	require.NoError(t, err)
	assert.False(t, changed, "identical content is not rewritten")

	changed, err = WriteIfChanged(path, []byte("two"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "two", readFile(t, path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
