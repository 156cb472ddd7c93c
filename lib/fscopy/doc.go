// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

// Package fscopy is the copy engine behind fixture staging.
//
// [CopyFile] copies a single regular file byte-for-byte, carrying the
// source's permission bits and truncating any file already at the
// destination. [CopyTree] recursively copies a directory's contents —
// not the directory node itself — into a destination, preserving
// relative structure and symlinks, merging into whatever already
// exists there. Files at colliding paths are overwritten; destination
// files absent from the source are left alone. Entries that are
// neither regular files, directories, nor symlinks (sockets, device
// nodes) are an error: fixtures have no business containing them.
//
// Both functions return plain wrapped errors naming the failing path;
// the privatefs package layers its staging error type on top.
package fscopy
