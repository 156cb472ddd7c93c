// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/crucible-harness/crucible/cmd/crucible/cli"
	"github.com/crucible-harness/crucible/lib/digest"
	"github.com/crucible-harness/crucible/lib/fixture"
)

func verifyCommand(logger *slog.Logger) *cli.Command {
	var manifestPath string
	var printDigests bool

	return &cli.Command{
		Name:    "verify",
		Summary: "check fixture sources against their pinned digests",
		Description: `verify hashes every file directive's source and compares it against
the digest pinned in the manifest, without staging anything. With
--print, it instead prints the current digest of every file source,
for authoring or refreshing manifests.`,
		Usage: "crucible verify --manifest <path> [--print]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flags.StringVar(&manifestPath, "manifest", "", "fixture manifest file (YAML or JSONC)")
			flags.BoolVar(&printDigests, "print", false, "print current digests instead of comparing")
			return flags
		},
		Run: func(args []string) error {
			if manifestPath == "" {
				return fmt.Errorf("--manifest is required")
			}
			manifest, err := fixture.ReadFile(manifestPath)
			if err != nil {
				return err
			}
			if err := manifest.Validate(); err != nil {
				return err
			}

			// Relative sources resolve against the working directory,
			// the same place a sandbox constructed here would record
			// as its launch directory.
			workingDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}

			var mismatches int
			for _, directive := range manifest.Include {
				if directive.Source == "" {
					continue
				}
				source := directive.Source
				if !filepath.IsAbs(source) {
					source = filepath.Join(workingDir, source)
				}
				info, err := os.Stat(source)
				if err != nil || info.IsDir() {
					if printDigests || directive.Digest != "" {
						logger.Warn("skipping non-file source", "source", source)
					}
					continue
				}

				current, err := digest.HashFile(source)
				if err != nil {
					return err
				}
				if printDigests {
					fmt.Printf("%s  %s\n", digest.Format(current), directive.Source)
					continue
				}
				if directive.Digest == "" {
					continue
				}
				if digest.Format(current) != directive.Digest {
					logger.Error("digest mismatch",
						"source", directive.Source,
						"want", directive.Digest,
						"got", digest.Format(current))
					mismatches++
				}
			}
			if mismatches > 0 {
				return fmt.Errorf("%d fixture(s) do not match their pinned digests", mismatches)
			}
			return nil
		},
	}
}
