// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package fixture

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crucible-harness/crucible/lib/archive"
	"github.com/crucible-harness/crucible/lib/digest"
	"github.com/crucible-harness/crucible/lib/testutil"
	"github.com/crucible-harness/crucible/privatefs"
)

func TestBuildStagesTemporarySandbox(t *testing.T) {
	fixtureDir := t.TempDir()
	testutil.WriteTree(t, fixtureDir, map[string]string{
		"config.yaml": "retries: 3\n",
		"seed/x":      "x content",
		"seed/y/z":    "z content",
	})

	manifest := &Manifest{
		Include: []Directive{
			{Source: filepath.Join(fixtureDir, "config.yaml"), Destination: "etc/app.yaml"},
			{Source: filepath.Join(fixtureDir, "seed")},
		},
	}

	sandbox, err := manifest.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer sandbox.Close()

	if !sandbox.Directory().Temporary() {
		t.Error("manifest without root built a non-temporary sandbox")
	}
	if got := testutil.ReadFile(t, filepath.Join(sandbox.Path(), "etc", "app.yaml")); got != "retries: 3\n" {
		t.Errorf("etc/app.yaml = %q", got)
	}
	if got := testutil.ReadFile(t, filepath.Join(sandbox.Path(), "x")); got != "x content" {
		t.Errorf("x = %q", got)
	}
	if got := testutil.ReadFile(t, filepath.Join(sandbox.Path(), "y", "z")); got != "z content" {
		t.Errorf("y/z = %q", got)
	}
}

func TestBuildRootedSandbox(t *testing.T) {
	root := filepath.Join(t.TempDir(), "pinned")
	manifest := &Manifest{Root: root}

	sandbox, err := manifest.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer sandbox.Close()

	if sandbox.Directory().Temporary() {
		t.Error("rooted manifest built a temporary sandbox")
	}
}

func TestBuildRejectsInvalidManifestBeforeStaging(t *testing.T) {
	manifest := &Manifest{
		Include: []Directive{{Source: "a.txt", Destination: "/abs"}},
	}

	_, err := manifest.Build(nil)
	var usageErr *privatefs.UsageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("Build returned %v, want *privatefs.UsageError", err)
	}
}

func TestApplyVerifiesPinnedDigest(t *testing.T) {
	fixtureDir := t.TempDir()
	testutil.WriteTree(t, fixtureDir, map[string]string{"data.bin": "fixture payload"})
	source := filepath.Join(fixtureDir, "data.bin")

	want, err := digest.HashFile(source)
	if err != nil {
		t.Fatalf("hashing fixture: %v", err)
	}

	manifest := &Manifest{
		Include: []Directive{{Source: source, Digest: digest.Format(want)}},
	}
	sandbox, err := manifest.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer sandbox.Close()

	if got := testutil.ReadFile(t, filepath.Join(sandbox.Path(), "data.bin")); got != "fixture payload" {
		t.Errorf("data.bin = %q", got)
	}
}

func TestApplyReportsDigestMismatch(t *testing.T) {
	fixtureDir := t.TempDir()
	testutil.WriteTree(t, fixtureDir, map[string]string{"data.bin": "actual contents"})

	manifest := &Manifest{
		Include: []Directive{{
			Source: filepath.Join(fixtureDir, "data.bin"),
			Digest: strings.Repeat("00", 32),
		}},
	}

	_, err := manifest.Build(nil)
	if err == nil {
		t.Fatal("Build succeeded despite digest mismatch")
	}
	var stagingErr *privatefs.StagingError
	if !errors.As(err, &stagingErr) {
		t.Fatalf("error = %v, want *privatefs.StagingError", err)
	}
	if !strings.Contains(err.Error(), "digest mismatch") {
		t.Errorf("error = %v, want digest mismatch", err)
	}
}

func TestApplyArchiveDirective(t *testing.T) {
	fixtureDir := t.TempDir()
	testutil.WriteTree(t, fixtureDir, map[string]string{
		"tree/a.txt":        "a",
		"tree/nested/b.txt": "b",
	})
	archivePath := filepath.Join(fixtureDir, "tree.tar.zst")
	if err := archive.Pack(filepath.Join(fixtureDir, "tree"), archivePath); err != nil {
		t.Fatalf("packing fixture archive: %v", err)
	}

	manifest := &Manifest{
		Include: []Directive{{Archive: archivePath, Destination: "data"}},
	}
	sandbox, err := manifest.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer sandbox.Close()

	if got := testutil.ReadFile(t, filepath.Join(sandbox.Path(), "data", "a.txt")); got != "a" {
		t.Errorf("data/a.txt = %q", got)
	}
	if got := testutil.ReadFile(t, filepath.Join(sandbox.Path(), "data", "nested", "b.txt")); got != "b" {
		t.Errorf("data/nested/b.txt = %q", got)
	}
}

func TestApplyDirectivesAreCumulative(t *testing.T) {
	fixtureDir := t.TempDir()
	testutil.WriteTree(t, fixtureDir, map[string]string{
		"first/data.txt":  "first",
		"second/data.txt": "second",
	})

	manifest := &Manifest{
		Include: []Directive{
			{Source: filepath.Join(fixtureDir, "first", "data.txt")},
			{Source: filepath.Join(fixtureDir, "second", "data.txt")},
		},
	}
	sandbox, err := manifest.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer sandbox.Close()

	if got := testutil.ReadFile(t, filepath.Join(sandbox.Path(), "data.txt")); got != "second" {
		t.Errorf("data.txt = %q, want the later directive to win", got)
	}
}
