// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

// Package privatefs gives each test execution a private filesystem to
// work in. A [Sandbox] owns a working directory — either a uniquely
// named temporary directory that is deleted when the sandbox closes
// ([Temporary]), or a caller-pinned persistent directory that survives
// for post-mortem inspection ([Rooted]) — and switches the process's
// current working directory into it at construction time.
//
// Fixture files and directories are staged into the sandbox with
// [Sandbox.Include]. Relative source paths resolve against the
// directory the process ran from, captured before the working
// directory moved; by the time Include is called the process is
// already inside the sandbox, so the launch directory is the only
// surviving anchor for "the file next to my test". Directory sources
// are merged content-first: their entries land directly at the
// destination with no extra nesting level, overwriting colliding
// paths. Repeated Include calls are cumulative and last write wins.
//
// Failures split into three kinds. [SetupError] and [StagingError]
// are environment conditions (directory creation, the chdir, or the
// copy failed) and wrap the underlying I/O cause. [UsageError] marks
// a structurally invalid staging request — an absolute destination
// path, or a source that is neither a file nor a directory — which no
// retry can repair.
//
// The working directory is process-wide mutable state, so exactly one
// Sandbox may exist per process at a time. The package does not lock
// against a second construction: locking would not fix relative-path
// resolution across two sandboxes sharing a process. Run each test
// body in its own process (see the runner package) and the guarantee
// holds structurally. [Sandbox.Close] restores the working directory
// the sandbox started from, so strictly sequential sandboxes within
// one process — construct, use, close, construct the next — are also
// safe.
package privatefs
