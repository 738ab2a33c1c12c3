package fileops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"ferret/internal/errors"
	"ferret/internal/log"
	"ferret/pkg/types"
)

// Engine performs open and delete operations
type Engine struct {
	dryRun bool
	// command builds the process that opens a path; replaced in tests
	command func(path string) (*exec.Cmd, error)
}

// New creates a new Engine instance
func New() *Engine {
	return &Engine{command: openCommand}
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// openCommand returns the platform launcher for path.
func openCommand(path string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	}
	return nil, fmt.Errorf("open not supported on %s", runtime.GOOS)
}

// Open launches the default application for path without waiting for it.
func (e *Engine) Open(path string) error {
	cleanPath := filepath.Clean(path)
	if _, err := os.Stat(cleanPath); err != nil {
		if os.IsNotExist(err) {
			return errors.NewFileError("file not found", cleanPath, errors.FileNotFound, err)
		}
		return errors.NewFileError("cannot access file", cleanPath, errors.FileAccessDenied, err)
	}

	if e.dryRun {
		log.Info("[DRY RUN] Would open %s", cleanPath)
		return nil
	}

	cmd, err := e.command(cleanPath)
	if err != nil {
		return errors.NewFileError("cannot open file", cleanPath, errors.FileOperationFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return errors.NewFileError("cannot open file", cleanPath, errors.FileOperationFailed, err)
	}
	// Reap the launcher in the background.
	go func() { _ = cmd.Wait() }()

	log.LogWithFields(log.F("path", cleanPath)).Debug("Opened in default application")
	return nil
}

// Delete removes each path, folders recursively. Failures are reported per path
// and do not stop the remaining deletions.
func (e *Engine) Delete(paths []string) []types.DeleteResult {
	results := make([]types.DeleteResult, 0, len(paths))
	for _, p := range paths {
		results = append(results, e.deleteOne(p))
	}
	return results
}

func (e *Engine) deleteOne(path string) types.DeleteResult {
	res := types.DeleteResult{Path: path}

	cleanPath := filepath.Clean(path)
	if path == "" || cleanPath == filepath.Dir(cleanPath) {
		// Refuse "" and filesystem roots.
		res.Error = errors.NewFileError("refusing to delete", path, errors.InvalidPath, nil)
		return res
	}

	info, err := os.Lstat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			res.Error = errors.NewFileError("file not found", cleanPath, errors.FileNotFound, err)
		} else {
			res.Error = errors.NewFileError("cannot access file", cleanPath, errors.FileAccessDenied, err)
		}
		return res
	}

	if e.dryRun {
		log.Info("[DRY RUN] Would delete %s", cleanPath)
		return res
	}

	if info.IsDir() {
		err = os.RemoveAll(cleanPath)
	} else {
		err = os.Remove(cleanPath)
	}
	if err != nil {
		kind := errors.FileOperationFailed
		if os.IsPermission(err) {
			kind = errors.FileAccessDenied
		}
		res.Error = errors.NewFileError("delete failed", cleanPath, kind, err)
		log.LogWithError(res.Error).Warn("Delete failed")
		return res
	}

	res.Deleted = true
	log.LogWithFields(log.F("path", cleanPath), log.F("folder", info.IsDir())).Info("Deleted")
	return res
}
