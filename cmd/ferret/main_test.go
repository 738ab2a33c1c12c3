package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"ferret/internal/backend"
	"ferret/internal/config"
	"ferret/internal/errors"
	"ferret/internal/volume"
	"ferret/pkg/testutils"
	"ferret/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCli executes the root command in-process against a throwaway config path.
func runCli(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func lines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestCliHelp(t *testing.T) {
	out, _, err := runCli(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"ls", "find", "volumes", "open", "rm", "config"} {
		assert.Contains(t, out, name)
	}
}

func TestLsFoldersFirst(t *testing.T) {
	root := testutils.BuildTree(t, "b.txt", "a/", ".hidden", "C.md")

	out, _, err := runCli(t, "ls", root)
	require.NoError(t, err)
	sep := string(filepath.Separator)
	assert.Equal(t, []string{"a" + sep, ".hidden", "b.txt", "C.md"}, lines(out))

	out, _, err = runCli(t, "ls", "--hidden=false", root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a" + sep, "b.txt", "C.md"}, lines(out))
}

func TestLsJSON(t *testing.T) {
	root := testutils.BuildTree(t, "dir/", "file.go")

	out, _, err := runCli(t, "ls", "--json", root)
	require.NoError(t, err)

	var entries []types.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsFolder)
	assert.Equal(t, "go", entries[1].Extension)
	assert.Equal(t, filepath.Join(root, "file.go"), entries[1].Path)
}

func TestLsMissingDirectory(t *testing.T) {
	_, _, err := runCli(t, "ls", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsFileNotFound(err))
}

func TestFindMask(t *testing.T) {
	root := testutils.BuildTree(t, "x/notes.txt", "x/a.txt.bak", "y.txt", "z.txtx")

	out, errOut, err := runCli(t, "find", "--kind", "mask", "*.txt", root)
	require.NoError(t, err)

	got := lines(out)
	sort.Strings(got)
	assert.Equal(t, []string{filepath.Join(root, "x", "notes.txt"), filepath.Join(root, "y.txt")}, got)
	assert.Contains(t, errOut, "2 matches")
	assert.NotContains(t, errOut, "stopped")
}

func TestFindStemOnly(t *testing.T) {
	root := testutils.BuildTree(t, "report.txt", "txt-notes.md")

	out, _, err := runCli(t, "find", "--ext=false", "txt", root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "txt-notes.md")}, lines(out))
}

func TestFindJSON(t *testing.T) {
	root := testutils.BuildTree(t, "abz", "abc")

	out, _, err := runCli(t, "find", "-k", "regex", "--json", "^a.*z$", root)
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 1)
	var e types.Entry
	require.NoError(t, json.Unmarshal([]byte(got[0]), &e))
	assert.Equal(t, "abz", e.Name)
}

func TestFindRejectsBadInput(t *testing.T) {
	root := t.TempDir()

	_, errOut, err := runCli(t, "find", "-k", "regex", "([", root)
	assert.True(t, errors.IsInvalidPattern(err))
	assert.Contains(t, errOut, "--kind")

	_, _, err = runCli(t, "find", "-k", "fuzzy", "x", root)
	assert.ErrorContains(t, err, "unknown pattern kind")
}

func TestVolumes(t *testing.T) {
	vols := []types.VolumeInfo{
		{Mountpoint: "/", Kind: types.SSD, TotalGB: 10, UsedGB: 2.5, AvailableGB: 7.5},
		{Mountpoint: "/media/usb1", Kind: types.HDD, IsRemovable: true, TotalGB: 64, UsedGB: 32, AvailableGB: 32},
	}
	prev := newBackend
	newBackend = func(c *config.Config, opts ...backend.Option) *backend.Backend {
		src := volume.SourceFunc(func() ([]types.VolumeInfo, error) { return vols, nil })
		return prev(c, append(opts, backend.WithVolumeSource(src))...)
	}
	t.Cleanup(func() { newBackend = prev })

	out, _, err := runCli(t, "volumes")
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "MOUNTPOINT")
	assert.Contains(t, got[1], "10 GB")
	assert.Contains(t, got[1], "2.5 GB")
	assert.Contains(t, got[1], "25%")
	assert.Contains(t, got[2], "/media/usb1")
	assert.Contains(t, got[2], "yes")

	out, _, err = runCli(t, "volumes", "--json")
	require.NoError(t, err)
	var decoded []types.VolumeInfo
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, vols, decoded)
}

func TestRm(t *testing.T) {
	root := testutils.BuildTree(t, "keep.txt", "gone.txt", "dir/inner.txt")

	_, _, err := runCli(t, "rm", filepath.Join(root, "gone.txt"))
	assert.ErrorContains(t, err, "--yes")
	assert.FileExists(t, filepath.Join(root, "gone.txt"))

	out, _, err := runCli(t, "rm", "--dry-run", filepath.Join(root, "gone.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "Would delete")
	assert.FileExists(t, filepath.Join(root, "gone.txt"))

	out, _, err = runCli(t, "rm", "--yes", filepath.Join(root, "gone.txt"), filepath.Join(root, "dir"))
	require.NoError(t, err)
	assert.Len(t, lines(out), 2)
	assert.NoFileExists(t, filepath.Join(root, "gone.txt"))
	assert.NoDirExists(t, filepath.Join(root, "dir"))
	assert.FileExists(t, filepath.Join(root, "keep.txt"))

	out, _, err = runCli(t, "rm", "--yes", filepath.Join(root, "missing"))
	assert.ErrorContains(t, err, "1 of 1")
	assert.Contains(t, out, "no such file or folder")
}

func TestOpenDryRun(t *testing.T) {
	root := testutils.BuildTree(t, "doc.pdf")

	out, _, err := runCli(t, "open", "--dry-run", filepath.Join(root, "doc.pdf"))
	require.NoError(t, err)
	assert.Contains(t, out, "Would open")

	_, _, err = runCli(t, "open", "--dry-run", filepath.Join(root, "missing.pdf"))
	assert.True(t, errors.IsFileNotFound(err))
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ferret", "config.yaml")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, root.Execute())
	assert.FileExists(t, path)

	root = NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	assert.ErrorContains(t, root.Execute(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_kind: plain")

	shown, _, err := runCli(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, shown, "poll_interval: 5")
}

func TestInvalidConfigFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("volumes:\n  poll_interval: 0\n"), 0644))

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"--config", path, "config", "show"})
	require.NoError(t, root.Execute())

	assert.Contains(t, errOut.String(), "config init --force")
	assert.Contains(t, out.String(), "poll_interval: 5")
}

func TestNoColorWhenStdoutIsNotATerminal(t *testing.T) {
	root := testutils.BuildTree(t, "dir/", "a.txt")
	out, _, err := runCli(t, "ls", root)
	require.NoError(t, err)
	assert.False(t, useColor)
	assert.NotContains(t, out, "\033[")
}

func TestColoredTableStaysAligned(t *testing.T) {
	prev := useColor
	useColor = true
	t.Cleanup(func() { useColor = prev })

	var buf bytes.Buffer
	require.NoError(t, printTable(&buf,
		[]string{"MOUNTPOINT", "KIND", "SIZE"},
		[][]string{{"/media/usb10", "SSD", "64 GB"}, {"/", "HDD", "1 TB"}}))

	got := lines(buf.String())
	require.Len(t, got, 3)
	assert.True(t, strings.HasPrefix(got[0], colorBold))
	header := strings.TrimSuffix(strings.TrimPrefix(got[0], colorBold), colorReset)
	assert.NotContains(t, header, "\033[")
	assert.Equal(t, strings.Index(header, "KIND"), strings.Index(got[1], "SSD"))
	assert.Equal(t, strings.Index(header, "SIZE"), strings.Index(got[2], "1 TB"))
	assert.Equal(t, strings.Index(got[1], "64 GB"), strings.Index(got[2], "1 TB"))
}
