// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package privatefs

import "fmt"

// SetupError reports that establishing the sandbox failed: the
// directory could not be created, or the process could not switch its
// working directory into it. The test should be reported as failed,
// never silently skipped.
type SetupError struct {
	// Step describes which setup step failed.
	Step string
	// Err is the underlying I/O cause.
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("sandbox setup: %s: %v", e.Step, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// UsageError reports a structurally invalid staging request: an
// absolute destination path, or a source that is neither a file nor a
// directory. This is a defect in the test's own declaration, not an
// environment condition — retrying cannot change the argument.
type UsageError struct {
	// Path is the offending argument.
	Path string
	// Reason describes the violated rule.
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid include: %s: %s", e.Path, e.Reason)
}

// StagingError reports an I/O failure while copying a fixture into
// the sandbox: source unreadable, destination parent uncreatable,
// permission denied, disk full.
type StagingError struct {
	// Source is the resolved source path being staged.
	Source string
	// Destination is the in-sandbox path being written.
	Destination string
	// Err is the underlying I/O cause.
	Err error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("staging %s into %s: %v", e.Source, e.Destination, e.Err)
}

func (e *StagingError) Unwrap() error {
	return e.Err
}
