package watcher_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conjurekit/conjure/pkg/logger"
	"github.com/conjurekit/conjure/pkg/watcher"
)

func newWatcher(t *testing.T, exclude []string) *watcher.Watcher {
	t.Helper()
	var buf bytes.Buffer
	w, err := watcher.New(logger.CreateLoggerWithOutput("", "error", &buf), exclude)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWatcher_WatchesSubdirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "nested"), 0755))

	w := newWatcher(t, nil)
	require.NoError(t, w.Watch(root, func(watcher.FileEvent) {}))

	watched := w.List()
	assert.Contains(t, watched, root)
	assert.Contains(t, watched, filepath.Join(root, "src"))
	assert.Contains(t, watched, filepath.Join(root, "src", "nested"))
}

func TestWatcher_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "generated"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))

	w := newWatcher(t, []string{"generated"})
	require.NoError(t, w.Watch(root, func(watcher.FileEvent) {}))

	watched := w.List()
	assert.Contains(t, watched, filepath.Join(root, "src"))
	assert.NotContains(t, watched, filepath.Join(root, "generated"))
	// Default exclusions apply without configuration
	assert.NotContains(t, watched, filepath.Join(root, "node_modules"))
}

func TestWatcher_ReportsSettledWrite(t *testing.T) {
	root := t.TempDir()

	w := newWatcher(t, nil)
	w.SetSettlingDelay(20 * time.Millisecond)

	events := make(chan watcher.FileEvent, 16)
	require.NoError(t, w.Watch(root, func(e watcher.FileEvent) { events <- e }))

	path := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0644))

	select {
	case e := <-events:
		assert.Equal(t, path, e.Path)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for file event")
	}
}
