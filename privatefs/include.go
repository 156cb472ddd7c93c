// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package privatefs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crucible-harness/crucible/lib/fscopy"
)

// Include stages one file or one directory tree into the sandbox.
//
// A relative source resolves against the launch directory
// ([Sandbox.RanFrom]), never against the sandbox itself — the
// process's working directory already moved at construction time. An
// absolute source is used verbatim.
//
// destination chooses where the staged content lands, relative to the
// sandbox root; missing parent directories are created. The empty
// string selects the default placement: a file lands at the sandbox
// root under its own base name, a directory merges its contents
// directly into the sandbox root. A directory source always merges
// contents — no nesting level named after the source is introduced,
// with or without a destination. Colliding files are overwritten;
// files the source doesn't carry are left alone. Calls are cumulative
// and last write wins.
//
// An absolute destination, or a source that is neither an existing
// file nor a directory, returns a [UsageError] before any filesystem
// mutation. I/O failures during the copy return a [StagingError].
func (s *Sandbox) Include(source, destination string) error {
	if destination != "" && filepath.IsAbs(destination) {
		return &UsageError{Path: destination, Reason: "destination must be a relative path"}
	}

	resolved := source
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(s.ranFrom, source)
	}

	info, err := os.Stat(resolved)
	if err != nil || !(info.IsDir() || info.Mode().IsRegular()) {
		return &UsageError{Path: resolved, Reason: "source must be an existing file or directory"}
	}

	if info.IsDir() {
		return s.includeDirectory(resolved, destination)
	}
	return s.includeFile(resolved, destination)
}

// includeFile copies a single file into the sandbox, overwriting any
// file already at the destination.
func (s *Sandbox) includeFile(source, destination string) error {
	root := s.directory.Path()

	var target string
	if destination == "" {
		target = filepath.Join(root, filepath.Base(source))
	} else {
		target = filepath.Join(root, destination)
		if err := createParents(root, destination); err != nil {
			return &StagingError{Source: source, Destination: target, Err: err}
		}
	}

	if err := fscopy.CopyFile(source, target); err != nil {
		return &StagingError{Source: source, Destination: target, Err: err}
	}
	return nil
}

// includeDirectory merges a directory's contents into the sandbox.
func (s *Sandbox) includeDirectory(source, destination string) error {
	root := s.directory.Path()

	target := root
	if destination != "" {
		target = filepath.Join(root, destination)
		if err := createParents(root, destination); err != nil {
			return &StagingError{Source: source, Destination: target, Err: err}
		}
	}

	if err := fscopy.CopyTree(source, target); err != nil {
		return &StagingError{Source: source, Destination: target, Err: err}
	}
	return nil
}

// createParents creates the parent directories of the relative
// destination inside root.
func createParents(root, destination string) error {
	parent := filepath.Dir(destination)
	if parent == "." {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(root, parent), 0o755); err != nil {
		return fmt.Errorf("creating destination parent: %w", err)
	}
	return nil
}
