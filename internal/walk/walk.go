// Package walk enumerates directory trees lazily.
package walk

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"ferret/internal/errors"
	"ferret/pkg/types"
)

// Options controls a walk.
type Options struct {
	// Recursive descends into subdirectories; otherwise only the root's children are produced.
	Recursive bool
	// IncludeHidden yields hidden entries and descends hidden directories.
	IncludeHidden bool
	// FollowSymlinks descends directories reached through symbolic links.
	FollowSymlinks bool
}

// Walk returns a sequence over the entries below root. The root itself is not
// produced. Nothing is read until the sequence is ranged over, each range is an
// independent walk, and stopping the range stops the walk before the next entry.
//
// Entries that cannot be read are skipped. Every directory is descended at most
// once per walk, so symlink loops terminate.
func Walk(root string, opts Options) iter.Seq[types.Entry] {
	return func(yield func(types.Entry) bool) {
		visited := make(map[string]struct{})
		if canon, err := filepath.EvalSymlinks(root); err == nil {
			visited[canon] = struct{}{}
		}

		stack := []string{root}
		for len(stack) > 0 {
			dir := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}

			for _, d := range entries {
				full := filepath.Join(dir, d.Name())
				if !opts.IncludeHidden && IsHidden(full, d.Name()) {
					continue
				}

				isDir, descend, ok := classify(full, d, opts.FollowSymlinks)
				if !ok {
					continue
				}
				if !yield(types.NewEntry(full, isDir)) {
					return
				}

				if !isDir || !descend || !opts.Recursive {
					continue
				}
				canon, err := filepath.EvalSymlinks(full)
				if err != nil {
					continue
				}
				if _, seen := visited[canon]; seen {
					continue
				}
				visited[canon] = struct{}{}
				stack = append(stack, full)
			}
		}
	}
}

// classify resolves symlinks. Broken links are reported as not ok.
func classify(full string, d fs.DirEntry, followSymlinks bool) (isDir, descend, ok bool) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.IsDir(), true, true
	}
	info, err := os.Stat(full)
	if err != nil {
		return false, false, false
	}
	return info.IsDir(), followSymlinks, true
}

// Stat checks that root exists and is a readable directory.
func Stat(root string) error {
	if root == "" {
		return errors.NewFileError("empty root path", root, errors.InvalidPath, nil)
	}
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		return errors.NewFileError("root not found", root, errors.FileNotFound, err)
	case os.IsPermission(err):
		return errors.NewFileError("root not accessible", root, errors.FileAccessDenied, err)
	case err != nil:
		return errors.NewFileError("invalid root", root, errors.InvalidPath, err)
	case !info.IsDir():
		return errors.NewFileError("root is not a directory", root, errors.InvalidPath, nil)
	}
	return nil
}

// List collects a flat listing of dir.
func List(dir string, includeHidden bool) ([]types.Entry, error) {
	if err := Stat(dir); err != nil {
		return nil, err
	}
	var out []types.Entry
	for e := range Walk(dir, Options{IncludeHidden: includeHidden}) {
		out = append(out, e)
	}
	return out, nil
}
