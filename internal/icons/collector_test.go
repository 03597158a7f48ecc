package icons

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/leapstack-labs/iconsprite/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoIcons = map[string]string{
	"check.svg":      checkSVG,
	"arrow/left.svg": arrowSVG,
}

func TestCollectorRun_TwoIcons(t *testing.T) {
	cfg := testProject(t, twoIcons)
	cfg.Logger = testutil.NewTestLogger(t)

	res, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Icons: 2, SpriteChanged: true, ManifestChanged: true}, res)
	assert.True(t, res.Changed())

	g := newGoldie(t)
	g.Assert(t, "sprite_two_icons", []byte(readFile(t, cfg.SpritePath)))
	g.Assert(t, "manifest_two_icons", []byte(readFile(t, cfg.ManifestPath)))
}

func TestCollectorRun_Idempotent(t *testing.T) {
	cfg := testProject(t, twoIcons)
	c := New(cfg)

	_, err := c.Run(context.Background())
	require.NoError(t, err)
	sprite := readFile(t, cfg.SpritePath)
	manifest := readFile(t, cfg.ManifestPath)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
	assert.False(t, res.Changed())
	assert.Equal(t, sprite, readFile(t, cfg.SpritePath))
	assert.Equal(t, manifest, readFile(t, cfg.ManifestPath))

	res, err = New(Config{
		InputDir:     cfg.InputDir,
		SpritePath:   cfg.SpritePath,
		ManifestPath: cfg.ManifestPath,
		Force:        true,
	}).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.UpToDate, "force renders")
	assert.False(t, res.Changed(), "force still skips identical writes")
}

func TestCollectorRun_Deterministic(t *testing.T) {
	names := []string{"zeta.svg", "alpha.svg", "mid/beta.svg", "mid/alpha.svg"}

	render := func(order []string) (string, string) {
		cfg := testProject(t, nil)
		for _, rel := range order {
			writeFiles(t, cfg.InputDir, map[string]string{rel: checkSVG})
		}
		cfg.Concurrency = 3
		_, err := New(cfg).Run(context.Background())
		require.NoError(t, err)
		return readFile(t, cfg.SpritePath), readFile(t, cfg.ManifestPath)
	}

	sprite1, manifest1 := render(names)
	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	sprite2, manifest2 := render(reversed)

	assert.Equal(t, sprite1, sprite2)
	assert.Equal(t, manifest1, manifest2)
	assert.Less(t, strings.Index(manifest1, `"alpha"`), strings.Index(manifest1, `"mid/alpha"`))
	assert.Less(t, strings.Index(manifest1, `"mid/beta"`), strings.Index(manifest1, `"zeta"`))
}

func TestCollectorRun_UpToDateIgnoresUnrelatedContent(t *testing.T) {
	cfg := testProject(t, twoIcons)
	sprite := `<svg><!-- hand edited --><symbol id="arrow/left"/><symbol id="check"/><symbol id="old"/></svg>`
	manifest := `export type IconName = "arrow/left" | "check" | "old"; // hand edited`
	writeFiles(t, filepath.Dir(cfg.SpritePath), map[string]string{"sprite.svg": sprite})
	writeFiles(t, filepath.Dir(cfg.ManifestPath), map[string]string{"icon-names.ts": manifest})

	res, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
	assert.Equal(t, sprite, readFile(t, cfg.SpritePath))
	assert.Equal(t, manifest, readFile(t, cfg.ManifestPath))
}

func TestCollectorRun_NewIconRegenerates(t *testing.T) {
	cfg := testProject(t, twoIcons)
	c := New(cfg)
	_, err := c.Run(context.Background())
	require.NoError(t, err)

	writeFiles(t, cfg.InputDir, map[string]string{"star.svg": checkSVG})
	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Icons)
	assert.True(t, res.SpriteChanged)
	assert.True(t, res.ManifestChanged)
	assert.Contains(t, readFile(t, cfg.SpritePath), `<symbol id="star" fill="inherit">`)
	assert.Contains(t, readFile(t, cfg.ManifestPath), "\t| \"star\";\n")
}

func TestCollectorRun_EmptyInput(t *testing.T) {
	cfg := testProject(t, nil)

	res, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Icons)
	assert.True(t, res.Changed(), "missing outputs are always generated")

	g := newGoldie(t)
	g.Assert(t, "sprite_empty", []byte(readFile(t, cfg.SpritePath)))
	g.Assert(t, "manifest_empty", []byte(readFile(t, cfg.ManifestPath)))
}

func TestCollectorRun_MalformedIconAborts(t *testing.T) {
	cfg := testProject(t, twoIcons)
	c := New(cfg)
	_, err := c.Run(context.Background())
	require.NoError(t, err)
	sprite := readFile(t, cfg.SpritePath)
	manifest := readFile(t, cfg.ManifestPath)

	writeFiles(t, cfg.InputDir, map[string]string{"broken.svg": "<p>not a vector</p>"})
	_, err = c.Run(context.Background())
	require.ErrorIs(t, err, ErrNoSVG)
	assert.Contains(t, err.Error(), "broken.svg")

	assert.Equal(t, sprite, readFile(t, cfg.SpritePath), "sprite untouched")
	assert.Equal(t, manifest, readFile(t, cfg.ManifestPath), "manifest untouched")
}

func TestCollectorRun_MissingInputDir(t *testing.T) {
	cfg := testProject(t, nil)
	cfg.InputDir = filepath.Join(cfg.InputDir, "missing")

	_, err := New(cfg).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollectorRun_Formatter(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	record := FormatterFunc(func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		paths = append(paths, path)
		return nil
	})

	cfg := testProject(t, twoIcons)
	cfg.Formatter = record
	c := New(cfg)

	_, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.SpritePath, cfg.ManifestPath}, paths)

	paths = nil
	_, err = New(Config{
		InputDir:     cfg.InputDir,
		SpritePath:   cfg.SpritePath,
		ManifestPath: cfg.ManifestPath,
		Formatter:    record,
		Force:        true,
	}).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, paths, "formatter only runs after a write")
}

func TestCollectorRun_FormatterFailurePolicy(t *testing.T) {
	errFormat := errors.New("prettier not found")
	failing := FormatterFunc(func(context.Context, string) error { return errFormat })

	t.Run("strict propagates", func(t *testing.T) {
		cfg := testProject(t, twoIcons)
		cfg.Formatter = failing
		cfg.StrictFormat = true

		res, err := New(cfg).Run(context.Background())
		require.ErrorIs(t, err, errFormat)
		assert.True(t, res.SpriteChanged, "sprite was written before formatting failed")
	})

	t.Run("best effort continues", func(t *testing.T) {
		cfg := testProject(t, twoIcons)
		cfg.Formatter = failing
		cfg.Logger = testutil.NewTestLogger(t)

		res, err := New(cfg).Run(context.Background())
		require.NoError(t, err)
		assert.True(t, res.SpriteChanged)
		assert.True(t, res.ManifestChanged)
	})
}

func TestCollectorCheck(t *testing.T) {
	cfg := testProject(t, twoIcons)
	c := New(cfg)

	status, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, status.SpriteStale)
	assert.True(t, status.ManifestStale)
	_, statErr := os.Stat(cfg.SpritePath)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "check never writes outputs")

	_, err = c.Run(context.Background())
	require.NoError(t, err)

	status, err = c.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Stale())
	assert.Equal(t, 2, status.Icons)

	require.NoError(t, os.Remove(filepath.Join(cfg.InputDir, "check.svg")))
	status, err = c.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, status.SpriteStale, "removed icons are detected")
	assert.True(t, status.ManifestStale)
}

func TestCollectorCheck_FormattedOutputs(t *testing.T) {
	upper := FormatterFunc(func(_ context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, append(data, []byte("// formatted\n")...), 0o600)
	})

	cfg := testProject(t, twoIcons)
	cfg.Formatter = upper
	c := New(cfg)

	_, err := c.Run(context.Background())
	require.NoError(t, err)

	status, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Stale(), "check compares against formatted output")

	entries, err := os.ReadDir(filepath.Dir(cfg.SpritePath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "scratch directory is removed")
}

func TestCollectorRender_Cancelled(t *testing.T) {
	cfg := testProject(t, twoIcons)
	c := New(cfg)
	icons, err := c.Discover()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Render(ctx, icons)
	assert.ErrorIs(t, err, context.Canceled)
}
