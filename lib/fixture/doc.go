// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

// Package fixture provides declarative staging manifests for test
// sandboxes.
//
// A manifest names the sandbox mode (temporary, or rooted at a pinned
// directory) and an ordered list of include directives. Each
// directive stages either a loose file or directory (source) or a
// zstd-compressed tar archive (archive), at an optional in-sandbox
// destination, optionally pinned to an expected BLAKE3 digest.
// Directives apply in order with the same semantics as
// privatefs.Include: cumulative, last write wins.
//
// Manifests are authored as YAML (the default) or as JSONC — JSON
// extended with comments and trailing commas — selected by file
// extension in [ReadFile]. Validation runs before any staging:
// structurally invalid directives (absolute destinations, a directive
// naming both source and archive, malformed digests) are usage
// errors and reject the whole manifest up front.
//
// The typical flow:
//
//  1. ReadFile or Parse: manifest bytes → [Manifest]
//  2. [Manifest.Validate]: structural checks
//  3. [Manifest.Build]: construct the sandbox and apply every
//     directive, or [Manifest.Apply] against an existing sandbox
package fixture
