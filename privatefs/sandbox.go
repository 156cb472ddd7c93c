// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package privatefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TempPrefix is the directory name prefix for temporary sandboxes,
// so stray instances are identifiable under the system temp area.
const TempPrefix = "crucible-"

// Sandbox is a private working directory for a single test
// execution. Construction switches the process's current working
// directory into the sandbox; the directory the process ran from is
// retained as the anchor for resolving relative fixture paths in
// [Sandbox.Include].
//
// One sandbox per process: the working directory is global state, and
// a second concurrent sandbox in the same process corrupts the
// first's path resolution. See the package documentation.
type Sandbox struct {
	ranFrom   string
	directory WorkingDirectory
	closed    bool
}

// Temporary creates a sandbox in a new, uniquely named directory
// under the system temporary area and switches the process into it.
// The directory and its entire contents are removed by
// [Sandbox.Close].
func Temporary() (*Sandbox, error) {
	ranFrom, err := os.Getwd()
	if err != nil {
		return nil, &SetupError{Step: "capturing the launch directory", Err: err}
	}
	directory, err := os.MkdirTemp("", TempPrefix)
	if err != nil {
		return nil, &SetupError{Step: "creating the temporary directory", Err: err}
	}
	if err := os.Chdir(directory); err != nil {
		// The directory is ours and empty; don't leak it.
		_ = os.Remove(directory)
		return nil, &SetupError{Step: "switching into the temporary directory", Err: err}
	}
	return &Sandbox{
		ranFrom:   ranFrom,
		directory: WorkingDirectory{path: directory, owned: true},
	}, nil
}

// Rooted creates a sandbox pinned to root, creating root and any
// missing parents if needed, and switches the process into it. An
// existing root is used as-is: its contents are never cleared, and
// staging merges into them. Close leaves the directory and everything
// in it on disk — use this mode to inspect a failing test's
// artifacts.
func Rooted(root string) (*Sandbox, error) {
	ranFrom, err := os.Getwd()
	if err != nil {
		return nil, &SetupError{Step: "capturing the launch directory", Err: err}
	}
	absolute, err := filepath.Abs(root)
	if err != nil {
		return nil, &SetupError{Step: fmt.Sprintf("resolving root directory %s", root), Err: err}
	}
	if err := os.MkdirAll(absolute, 0o755); err != nil {
		return nil, &SetupError{Step: fmt.Sprintf("creating root directory %s", absolute), Err: err}
	}
	if err := os.Chdir(absolute); err != nil {
		return nil, &SetupError{Step: fmt.Sprintf("switching into root directory %s", absolute), Err: err}
	}
	return &Sandbox{
		ranFrom:   ranFrom,
		directory: WorkingDirectory{path: absolute, owned: false},
	}, nil
}

// Path returns the sandbox's working directory.
func (s *Sandbox) Path() string {
	return s.directory.Path()
}

// RanFrom returns the absolute directory the process was in before
// the sandbox took over. Relative Include sources resolve against it.
func (s *Sandbox) RanFrom() string {
	return s.ranFrom
}

// Directory returns the sandbox's working directory handle.
func (s *Sandbox) Directory() WorkingDirectory {
	return s.directory
}

// Close ends the sandbox's lifetime. The process's working directory
// is restored to the launch directory, and a temporary sandbox's
// directory tree is deleted. Rooted directories are left untouched.
// Close is idempotent.
func (s *Sandbox) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// Restore first: removing the directory the process still sits
	// in would leave it with a deleted working directory.
	var errs []error
	if err := os.Chdir(s.ranFrom); err != nil {
		errs = append(errs, fmt.Errorf("restoring working directory to %s: %w", s.ranFrom, err))
	}
	if s.directory.Temporary() {
		if err := os.RemoveAll(s.directory.Path()); err != nil {
			errs = append(errs, fmt.Errorf("removing temporary sandbox %s: %w", s.directory.Path(), err))
		}
	}
	return errors.Join(errs...)
}
