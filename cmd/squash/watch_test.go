package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdewolff/test"
	"go.uber.org/goleak"
)

func receive(t *testing.T, changes chan string) (string, bool) {
	t.Helper()
	select {
	case file, ok := <-changes:
		return file, ok
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for change")
	}
	return "", false
}

func TestWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	filename := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(filename, []byte("a()"), 0644))

	watcher, err := NewWatcher(true)
	require.NoError(t, err)
	changes := watcher.Run()
	require.NoError(t, watcher.AddPath(dir))

	require.NoError(t, os.WriteFile(filename, []byte("b()"), 0644))
	file, ok := receive(t, changes)
	test.That(t, ok)
	test.String(t, file, filename)

	require.NoError(t, watcher.Close())
	for range changes {
	}
}

func TestWatcherUnchanged(t *testing.T) {
	w := &Watcher{hashes: map[string]uint64{}}
	filename := filepath.Join(t.TempDir(), "a.js")
	require.NoError(t, os.WriteFile(filename, []byte("a()"), 0644))

	test.That(t, w.changed(filename))
	test.That(t, !w.changed(filename))
	require.NoError(t, os.WriteFile(filename, []byte("b()"), 0644))
	test.That(t, w.changed(filename))
	test.That(t, !w.changed(filepath.Join(t.TempDir(), "missing.js")))
}

func TestWatcherWatched(t *testing.T) {
	dir := t.TempDir()
	w := &Watcher{paths: map[string]bool{dir: true, "single.js": true}}
	test.That(t, w.watched(filepath.Join(dir, "sub", "a.js")))
	test.That(t, w.watched("single.js"))
	test.That(t, !w.watched("other.js"))
}
