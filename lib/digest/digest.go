// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// HashFile computes the BLAKE3 digest of the file at path. The file
// is streamed through the hash function (via io.Copy) to keep memory
// usage constant regardless of file size.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d, nil
}

// Format returns the hex-encoded string representation of a digest.
// This is the canonical form used in fixture manifests and log
// output.
func Format(d Digest) string {
	return hex.EncodeToString(d[:])
}

// Parse parses a hex-encoded BLAKE3 digest string into a Digest.
// Returns an error if the string is not a valid 64-character hex
// encoding of 32 bytes.
func Parse(hexString string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != 32 {
		return d, fmt.Errorf("digest is %d bytes, want 32", len(decoded))
	}
	copy(d[:], decoded)
	return d, nil
}
