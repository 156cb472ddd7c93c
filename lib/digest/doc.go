// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides BLAKE3 content hashing for fixture files.
//
// Fixture manifests may pin an expected digest per staged file; after
// staging, the copy in the sandbox is hashed and compared so that a
// stale or corrupted fixture fails the test's setup instead of
// producing a confusing assertion failure later.
//
// The API surface is three functions:
//
//   - [HashFile] -- streams a file through BLAKE3, returning a
//     [32]byte digest with constant memory usage regardless of size
//   - [Format] -- converts a digest to its canonical hex encoding,
//     the form used in manifests and log output
//   - [Parse] -- parses a hex-encoded digest back to a [32]byte
//     array, validating length and encoding
//
// This package has no dependencies on other crucible packages.
package digest
