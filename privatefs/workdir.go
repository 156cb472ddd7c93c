// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package privatefs

// WorkingDirectory is the directory a sandbox runs in, together with
// its ownership mode. A temporary directory is exclusively owned by
// the sandbox and removed when the sandbox closes; a rooted directory
// belongs to the caller and is never touched on close.
//
// Exactly one mode is active per value, and the directory exists at
// the time the constructing operation returns it.
type WorkingDirectory struct {
	path  string
	owned bool
}

// Path returns the directory's filesystem path. It has no side
// effects and returns the same value for the lifetime of the sandbox.
func (d WorkingDirectory) Path() string {
	return d.path
}

// Temporary reports whether the sandbox owns the directory and will
// delete it on close.
func (d WorkingDirectory) Temporary() bool {
	return d.owned
}
