package icons

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	checkSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24"><path d="M1 1"/></svg>`
	arrowSVG = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" version="1.1" width="16" height="16" viewBox="0 0 16 16"><path d="M10 2L4 8l6 6"/></svg>`
)

// writeFiles creates each relative path under dir with the given content.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

// testProject lays out an input directory and returns a config whose
// outputs live in a separate directory.
func testProject(t *testing.T, files map[string]string) Config {
	t.Helper()
	root := t.TempDir()
	input := filepath.Join(root, "svg-icons")
	require.NoError(t, os.MkdirAll(input, 0o750))
	writeFiles(t, input, files)
	return Config{
		InputDir:     input,
		SpritePath:   filepath.Join(root, "public", "icons", "sprite.svg"),
		ManifestPath: filepath.Join(root, "components", "icon", "icon-names.ts"),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
