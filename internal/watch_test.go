package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcher(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".rxgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\n"), 0o644))

	changes := make(chan string, 4)
	logger, _ := zap.NewProduction()
	w, err := NewWatcher(path, logger, func(p string) { changes <- p })
	require.NoError(t, err)
	w.SetDebounce(50 * time.Millisecond)

	require.NoError(t, w.StartWatching())
	defer w.StopWatching()
	assert.Error(t, w.StartWatching(), "second start must fail")

	// a sibling file is ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	require.NoError(t, os.WriteFile(path, []byte("name: b\n"), 0o644))
	select {
	case got := <-changes:
		assert.Equal(t, path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("change was not reported")
	}

	// rewriting identical content is not a change
	require.NoError(t, os.WriteFile(path, []byte("name: b\n"), 0o644))
	select {
	case got := <-changes:
		t.Fatalf("unexpected change for %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()
	w, err := NewWatcher(filepath.Join(t.TempDir(), "cfg.yaml"), nil, func(string) {})
	require.NoError(t, err)

	assert.NoError(t, w.StopWatching())
	require.NoError(t, w.StartWatching())
	assert.NoError(t, w.StopWatching())
	assert.NoError(t, w.StopWatching())
}

func TestGetFileHash(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	hash, err := getFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", hash)

	_, err = getFileHash(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
