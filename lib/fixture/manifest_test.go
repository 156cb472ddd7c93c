// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crucible-harness/crucible/privatefs"
)

func TestParseYAML(t *testing.T) {
	manifest, err := Parse([]byte(`
root: /var/tmp/pinned
include:
  - source: testdata/config.yaml
    destination: etc/app.yaml
  - source: testdata/seed
  - archive: fixtures/tree.tar.zst
    destination: data
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if manifest.Root != "/var/tmp/pinned" {
		t.Errorf("Root = %q", manifest.Root)
	}
	if len(manifest.Include) != 3 {
		t.Fatalf("len(Include) = %d, want 3", len(manifest.Include))
	}
	if manifest.Include[0].Destination != "etc/app.yaml" {
		t.Errorf("Include[0].Destination = %q", manifest.Include[0].Destination)
	}
	if manifest.Include[2].Archive != "fixtures/tree.tar.zst" {
		t.Errorf("Include[2].Archive = %q", manifest.Include[2].Archive)
	}
}

func TestParseJSONCStripsComments(t *testing.T) {
	manifest, err := ParseJSONC([]byte(`{
		// temporary sandbox
		"include": [
			{"source": "testdata/config.yaml"}, // trailing comma below
		],
	}`))
	if err != nil {
		t.Fatalf("ParseJSONC failed: %v", err)
	}
	if manifest.Root != "" {
		t.Errorf("Root = %q, want empty", manifest.Root)
	}
	if len(manifest.Include) != 1 || manifest.Include[0].Source != "testdata/config.yaml" {
		t.Errorf("Include = %+v", manifest.Include)
	}
}

func TestReadFileSelectsFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "fixtures.yaml")
	if err := os.WriteFile(yamlPath, []byte("include:\n  - source: a.txt\n"), 0o644); err != nil {
		t.Fatalf("writing yaml manifest: %v", err)
	}
	jsoncPath := filepath.Join(dir, "fixtures.jsonc")
	if err := os.WriteFile(jsoncPath, []byte(`{"include": [{"source": "a.txt"}]} // done`), 0o644); err != nil {
		t.Fatalf("writing jsonc manifest: %v", err)
	}

	for _, path := range []string{yamlPath, jsoncPath} {
		manifest, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", path, err)
		}
		if len(manifest.Include) != 1 || manifest.Include[0].Source != "a.txt" {
			t.Errorf("ReadFile(%s): Include = %+v", path, manifest.Include)
		}
	}
}

func TestValidateRejectsStructuralDefects(t *testing.T) {
	cases := []struct {
		name      string
		directive Directive
		want      string
	}{
		{"empty directive", Directive{}, "source or an archive"},
		{"source and archive", Directive{Source: "a", Archive: "b"}, "not both"},
		{"absolute destination", Directive{Source: "a", Destination: "/abs"}, "relative"},
		{"digest on archive", Directive{Archive: "a.tar.zst", Digest: strings.Repeat("00", 32)}, "file sources"},
		{"malformed digest", Directive{Source: "a", Digest: "nothex"}, "invalid digest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			manifest := &Manifest{Include: []Directive{tc.directive}}
			err := manifest.Validate()
			if err == nil {
				t.Fatal("Validate succeeded, want error")
			}
			var usageErr *privatefs.UsageError
			if !errors.As(err, &usageErr) {
				t.Errorf("error = %v, want *privatefs.UsageError", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateAcceptsWellFormedManifest(t *testing.T) {
	manifest := &Manifest{
		Root: "/var/tmp/pinned",
		Include: []Directive{
			{Source: "a.txt", Destination: "etc/a.txt", Digest: strings.Repeat("ab", 32)},
			{Archive: "tree.tar.zst", Destination: "data"},
		},
	}
	if err := manifest.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}
