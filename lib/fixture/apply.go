// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/crucible-harness/crucible/lib/archive"
	"github.com/crucible-harness/crucible/lib/digest"
	"github.com/crucible-harness/crucible/privatefs"
)

// Build validates the manifest, constructs its sandbox (temporary,
// or rooted when Root is set), and applies every directive. On any
// failure the sandbox is closed before the error is returned, so a
// half-staged temporary directory never outlives the call.
func (m *Manifest) Build(logger *slog.Logger) (*privatefs.Sandbox, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	var sandbox *privatefs.Sandbox
	var err error
	if m.Root == "" {
		sandbox, err = privatefs.Temporary()
	} else {
		sandbox, err = privatefs.Rooted(m.Root)
	}
	if err != nil {
		return nil, err
	}

	if err := m.Apply(sandbox, logger); err != nil {
		closeErr := sandbox.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("%w (and closing the sandbox failed: %v)", err, closeErr)
		}
		return nil, err
	}
	return sandbox, nil
}

// Apply stages every directive into sandbox, in order. Directives
// are cumulative; later directives overwrite colliding paths from
// earlier ones.
func (m *Manifest) Apply(sandbox *privatefs.Sandbox, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for i, directive := range m.Include {
		if err := applyDirective(sandbox, directive, logger); err != nil {
			return fmt.Errorf("include[%d]: %w", i, err)
		}
	}
	return nil
}

func applyDirective(sandbox *privatefs.Sandbox, d Directive, logger *slog.Logger) error {
	if d.Archive != "" {
		return applyArchive(sandbox, d, logger)
	}

	logger.Debug("staging fixture",
		"source", d.Source,
		"destination", d.Destination,
		"sandbox", sandbox.Path())
	if err := sandbox.Include(d.Source, d.Destination); err != nil {
		return err
	}
	if d.Digest == "" {
		return nil
	}
	return verifyStaged(sandbox, d)
}

// applyArchive extracts a fixture archive into the sandbox. Relative
// archive paths resolve against the launch directory, the same
// anchor Include uses for sources.
func applyArchive(sandbox *privatefs.Sandbox, d Directive, logger *slog.Logger) error {
	archivePath := d.Archive
	if !filepath.IsAbs(archivePath) {
		archivePath = filepath.Join(sandbox.RanFrom(), d.Archive)
	}

	target := sandbox.Path()
	if d.Destination != "" {
		target = filepath.Join(sandbox.Path(), d.Destination)
	}

	logger.Debug("staging fixture archive",
		"archive", archivePath,
		"destination", target)
	if err := archive.Extract(archivePath, target); err != nil {
		return &privatefs.StagingError{Source: archivePath, Destination: target, Err: err}
	}
	return nil
}

// verifyStaged hashes the copy staged into the sandbox and compares
// it against the directive's pinned digest. Hashing the in-sandbox
// copy (rather than the source) also catches a corrupted copy.
func verifyStaged(sandbox *privatefs.Sandbox, d Directive) error {
	staged := stagedPath(sandbox, d)

	info, err := os.Stat(staged)
	if err != nil {
		return &privatefs.StagingError{Source: d.Source, Destination: staged, Err: err}
	}
	if info.IsDir() {
		return &privatefs.UsageError{Path: d.Source, Reason: "digest pinning applies to file sources, not directories"}
	}

	want, err := digest.Parse(d.Digest)
	if err != nil {
		return &privatefs.UsageError{Path: d.Source, Reason: fmt.Sprintf("invalid digest: %v", err)}
	}
	got, err := digest.HashFile(staged)
	if err != nil {
		return &privatefs.StagingError{Source: d.Source, Destination: staged, Err: err}
	}
	if got != want {
		return &privatefs.StagingError{
			Source:      d.Source,
			Destination: staged,
			Err:         fmt.Errorf("digest mismatch: want %s, got %s", d.Digest, digest.Format(got)),
		}
	}
	return nil
}

// stagedPath computes where a file directive landed: the declared
// destination, or the source's base name at the sandbox root.
func stagedPath(sandbox *privatefs.Sandbox, d Directive) string {
	if d.Destination != "" {
		return filepath.Join(sandbox.Path(), d.Destination)
	}
	return filepath.Join(sandbox.Path(), filepath.Base(d.Source))
}
