// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/crucible-harness/crucible/lib/digest"
	"github.com/crucible-harness/crucible/privatefs"
)

// Manifest describes how to assemble a sandbox for one test.
type Manifest struct {
	// Root pins the sandbox to a persistent directory. Empty means a
	// temporary sandbox, removed when the sandbox closes.
	Root string `yaml:"root" json:"root"`

	// Include lists the staging directives, applied in order.
	Include []Directive `yaml:"include" json:"include"`
}

// Directive stages one fixture into the sandbox. Exactly one of
// Source or Archive must be set.
type Directive struct {
	// Source is a file or directory to stage. Relative paths resolve
	// against the directory the process ran from.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`

	// Archive is a .tar.zst archive whose contents are extracted
	// into the sandbox. Relative paths resolve like Source.
	Archive string `yaml:"archive,omitempty" json:"archive,omitempty"`

	// Destination is the in-sandbox target path, relative to the
	// sandbox root. Empty selects the default placement.
	Destination string `yaml:"destination,omitempty" json:"destination,omitempty"`

	// Digest is the hex-encoded BLAKE3 digest the staged file must
	// match. Only valid for file sources.
	Digest string `yaml:"digest,omitempty" json:"digest,omitempty"`
}

// Parse unmarshals a YAML manifest.
func Parse(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &manifest, nil
}

// ParseJSONC strips JSONC comments and trailing commas from data,
// then unmarshals the result. The format is plain JSON extended with
// // line comments, /* block comments */, and trailing commas.
func ParseJSONC(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &manifest, nil
}

// ReadFile reads and parses a manifest file. Files ending in .json
// or .jsonc parse as JSONC; everything else parses as YAML.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var manifest *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		manifest, err = ParseJSONC(data)
	default:
		manifest, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return manifest, nil
}

// Validate checks the manifest's structure before any staging
// happens. Violations are defects in the test's declaration, not
// environment conditions, and are reported as privatefs usage
// errors.
func (m *Manifest) Validate() error {
	for i, directive := range m.Include {
		if err := directive.validate(); err != nil {
			return fmt.Errorf("include[%d]: %w", i, err)
		}
	}
	return nil
}

func (d Directive) validate() error {
	switch {
	case d.Source == "" && d.Archive == "":
		return &privatefs.UsageError{Path: "(empty)", Reason: "directive must name a source or an archive"}
	case d.Source != "" && d.Archive != "":
		return &privatefs.UsageError{Path: d.Source, Reason: "directive must name a source or an archive, not both"}
	}
	if d.Destination != "" && filepath.IsAbs(d.Destination) {
		return &privatefs.UsageError{Path: d.Destination, Reason: "destination must be a relative path"}
	}
	if d.Digest != "" {
		if d.Archive != "" {
			return &privatefs.UsageError{Path: d.Archive, Reason: "digest pinning applies to file sources, not archives"}
		}
		if _, err := digest.Parse(d.Digest); err != nil {
			return &privatefs.UsageError{Path: d.Source, Reason: fmt.Sprintf("invalid digest: %v", err)}
		}
	}
	return nil
}
