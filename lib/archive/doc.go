// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive packs directory trees into zstd-compressed tar
// archives and extracts them again.
//
// Archives hold a tree's contents with relative entry names — the
// packed directory node itself is not an entry — matching the
// content-merge semantics of fixture staging: extracting into a
// directory merges the archived tree into whatever is already there.
//
// Two uses: fixture manifests may stage from a .tar.zst archive
// instead of a loose directory, and `crucible snapshot` packs a
// sandbox directory for post-mortem inspection after a failing run.
//
// [Extract] refuses entries with absolute names or parent-directory
// components, and resolves entry paths inside the destination with
// filepath-securejoin so a hostile archive cannot write outside it.
package archive
