package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"ferret/internal/config"
	"ferret/internal/log"
	"ferret/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogChanges(t *testing.T) {
	var buf bytes.Buffer
	log.Configure(log.WithOutput(&buf))
	t.Cleanup(func() { log.Configure() })

	old := []types.VolumeInfo{{Mountpoint: "/"}, {Mountpoint: "/media/usb1"}}
	cur := []types.VolumeInfo{{Mountpoint: "/"}, {Mountpoint: "/media/cam", Kind: types.SSD, IsRemovable: true, TotalGB: 32}}
	logChanges(old, cur)

	out := buf.String()
	assert.Contains(t, out, "Volume added")
	assert.Contains(t, out, "mountpoint=/media/cam")
	assert.Contains(t, out, "removable=true")
	assert.Contains(t, out, "Volume removed")
	assert.Contains(t, out, "mountpoint=/media/usb1")
}

func TestConfigureLogging(t *testing.T) {
	t.Cleanup(func() {
		log.Configure()
		require.NoError(t, log.SetLevel("info"))
	})

	assert.NoError(t, configureLogging(config.Logging{Level: "debug", Format: "json"}))
	assert.True(t, log.IsDebug())
	assert.Error(t, configureLogging(config.Logging{Level: "loud", Format: "text"}))
}

func TestRootCmdRejectsArguments(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"stray"})
	assert.Error(t, root.Execute())
}

func TestLoadConfigFromFlag(t *testing.T) {
	t.Cleanup(func() {
		log.Configure()
		require.NoError(t, log.SetLevel("info"))
	})

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("volumes:\n  poll_interval: 30\nlogging:\n  level: debug\n"), 0644))

	root := NewRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--config", path}))
	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Volumes.PollInterval)
	assert.True(t, log.IsDebug())

	// An invalid file falls back to the defaults with a warning
	require.NoError(t, os.WriteFile(path, []byte("volumes:\n  poll_interval: 0\n"), 0644))
	var errOut bytes.Buffer
	root = NewRootCmd()
	root.SetErr(&errOut)
	require.NoError(t, root.ParseFlags([]string{"--config", path}))
	cfg, err = loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, config.New(), cfg)
	assert.Contains(t, errOut.String(), "Using default settings")
}
