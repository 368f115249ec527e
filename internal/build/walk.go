package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// treeEntry is one visited node of the source tree. Info describes the link target
// when Path is a symbolic link.
type treeEntry struct {
	Path string // path under the source root, never resolved through links
	Info fs.FileInfo
}

// walker performs a pre-order, depth-first traversal that follows symbolic links.
// Children are visited in lexical order so builds are deterministic.
type walker struct {
	ctx   context.Context
	skip  func(path string) bool
	visit func(e treeEntry) error
}

func (w *walker) walk(root string) error {
	return w.walkPath(root, nil)
}

// walkPath visits path and, for directories, its children. ancestors holds the
// resolved locations of the directories above path; revisiting one of them means a
// link cycle.
func (w *walker) walkPath(path string, ancestors []string) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fsFailure(err, "stat", path)
	}

	var resolved string
	if info.IsDir() {
		resolved, err = filepath.EvalSymlinks(path)
		if err != nil {
			return fsFailure(err, "resolve", path)
		}
		if slices.Contains(ancestors, resolved) {
			return fsFailure(fmt.Errorf("%w: %s -> %s", ErrSymlinkLoop, path, resolved), "walk", path)
		}
	} else if !info.Mode().IsRegular() {
		return fsFailure(fmt.Errorf("%w: %s", ErrUnsupportedFile, info.Mode().Type()), "walk", path)
	}

	if err := w.visit(treeEntry{Path: path, Info: info}); err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	children, err := os.ReadDir(path)
	if err != nil {
		return fsFailure(err, "read directory", path)
	}
	ancestors = append(ancestors, resolved)
	for _, child := range children {
		childPath := filepath.Join(path, child.Name())
		if w.skip != nil && w.skip(childPath) {
			continue
		}
		if err := w.walkPath(childPath, ancestors); err != nil {
			return err
		}
	}
	return nil
}
