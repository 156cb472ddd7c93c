// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package fscopy

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFile copies the regular file at source to destination,
// overwriting an existing destination file. The destination receives
// the source's permission bits. Parent directories are not created;
// callers decide the destination layout first.
func CopyFile(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("stat %s: %w", source, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", source)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", destination, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", source, destination, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", destination, err)
	}

	// An overwritten destination keeps its old permission bits from
	// OpenFile; align them with the source.
	if err := os.Chmod(destination, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", destination, err)
	}
	return nil
}

// CopyTree copies the contents of the directory at source into
// destination, creating destination if needed and merging into its
// existing contents. Relative structure and symlinks are preserved;
// the source directory node itself is not reproduced as an extra
// nesting level.
func CopyTree(source, destination string) error {
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", destination, err)
	}

	return filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		relative, err := filepath.Rel(source, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		if relative == "." {
			return nil
		}
		target := filepath.Join(destination, relative)

		switch {
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			// Merge: an existing directory at the target is fine.
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			return nil

		case entry.Type()&fs.ModeSymlink != 0:
			return copySymlink(path, target)

		case entry.Type().IsRegular():
			return CopyFile(path, target)

		default:
			return fmt.Errorf("copy %s: unsupported file type %s", path, entry.Type())
		}
	})
}

// copySymlink recreates the symlink at path as target, replacing
// whatever non-directory entry already occupies target.
func copySymlink(path, target string) error {
	linkTarget, err := os.Readlink(path)
	if err != nil {
		return fmt.Errorf("reading symlink %s: %w", path, err)
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing %s: %w", target, err)
	}
	if err := os.Symlink(linkTarget, target); err != nil {
		return fmt.Errorf("creating symlink %s: %w", target, err)
	}
	return nil
}
