package volume

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsNewMount(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)

	require.NoError(t, w.AddRoot(root))
	require.NoError(t, w.AddRoot(root))
	assert.Equal(t, []string{root}, w.Roots())

	require.NoError(t, w.Start())
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start())

	mount := filepath.Join(root, "usb1")
	require.NoError(t, os.Mkdir(mount, 0o755))

	select {
	case ev := <-w.Events():
		assert.Equal(t, mount, ev.Path)
		assert.True(t, ev.Op.Has(fsnotify.Create))
	case <-time.After(2 * time.Second):
		t.Fatal("no mount event")
	}

	w.Stop()
	assert.False(t, w.IsRunning())
	// The channel is closed once the loop exits
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-w.Events():
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestWatcherRejectsFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.AddRoot(file))
	assert.Error(t, w.AddRoot(filepath.Join(dir, "missing")))
	assert.Empty(t, w.Roots())
}
