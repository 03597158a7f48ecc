package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/iconsprite/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startWatcher runs w in the background and returns a run counter. The
// watcher is stopped when the test ends.
func startWatcher(t *testing.T, w *Watcher) *atomic.Int32 {
	t.Helper()
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	// Give the watcher time to register its directories.
	time.Sleep(50 * time.Millisecond)
	return &runs
}

func isSVG(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".svg")
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	runs := startWatcher(t, New(Config{
		Dir:      dir,
		Debounce: 50 * time.Millisecond,
		Match:    isSVG,
		Logger:   testutil.NewTestLogger(t),
	}))

	for _, name := range []string{"a.svg", "b.svg", "c.svg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<svg/>"), 0o600))
	}

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load(), "a burst of writes triggers one run")
}

func TestWatcher_IgnoresUnmatchedFiles(t *testing.T) {
	dir := t.TempDir()
	runs := startWatcher(t, New(Config{Dir: dir, Debounce: 20 * time.Millisecond, Match: isSVG}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	runs := startWatcher(t, New(Config{Dir: dir, Debounce: 20 * time.Millisecond, Match: isSVG}))

	sub := filepath.Join(dir, "arrow")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	before := runs.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "left.svg"), []byte("<svg/>"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() > before }, 2*time.Second, 10*time.Millisecond,
		"files in a new directory are watched")
}

func TestWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	icon := filepath.Join(dir, "check.svg")
	require.NoError(t, os.WriteFile(icon, []byte("<svg/>"), 0o600))
	runs := startWatcher(t, New(Config{Dir: dir, Debounce: 20 * time.Millisecond, Match: isSVG}))

	require.NoError(t, os.Remove(icon))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New(Config{Dir: filepath.Join(t.TempDir(), "missing")})
	err := w.Run(context.Background(), func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestNew_Defaults(t *testing.T) {
	w := New(Config{Dir: "."})
	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.True(t, w.match("anything"))
	assert.NotNil(t, w.logger)
}

func TestWatcher_ErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	logger, logs := testutil.NewCaptureLogger()
	w := New(Config{Dir: dir, Debounce: 20 * time.Millisecond, Match: isSVG, Logger: logger})

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			if runs.Add(1) == 1 {
				return errors.New("no SVG element found")
			}
			return nil
		})
	}()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.svg"), []byte("<p/>"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "rebuild failed")
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, logs.String(), "no SVG element found")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.svg"), []byte("<svg/>"), 0o600))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}
