// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/crucible-harness/crucible/cmd/crucible/cli"
	"github.com/crucible-harness/crucible/lib/fixture"
	"github.com/crucible-harness/crucible/runner"
)

func stageCommand(logger *slog.Logger) *cli.Command {
	var manifestPath string
	var rootDir string
	var keep bool

	return &cli.Command{
		Name:    "stage",
		Summary: "build a sandbox from a fixture manifest and run a command in it",
		Description: `stage reads a fixture manifest, constructs the sandbox it describes,
stages every include directive, and runs the given command with the
sandbox as its working directory. The command's exit code is
propagated. Without a command, the sandbox is staged and its path
printed; it is then always left on disk.`,
		Usage: "crucible stage --manifest <path> [flags] [-- <command> [args...]]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("stage", pflag.ContinueOnError)
			flags.StringVar(&manifestPath, "manifest", "", "fixture manifest file (YAML or JSONC)")
			flags.StringVar(&rootDir, "root", "", "pin the sandbox to this directory instead of a temporary one")
			flags.BoolVar(&keep, "keep", false, "keep a temporary sandbox on disk after the command exits")
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
			if rootDir != "" {
				manifest.Root = rootDir
			}

			sandbox, err := manifest.Build(logger)
			if err != nil {
				return err
			}
			logger.Info("sandbox staged", "path", sandbox.Path(), "temporary", sandbox.Directory().Temporary())

			if len(args) == 0 {
				// No command: hand the staged directory to the user.
				fmt.Println(sandbox.Path())
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runErr := runner.Execute(ctx, args, logger)

			if keep && sandbox.Directory().Temporary() {
				logger.Info("keeping sandbox", "path", sandbox.Path())
				return runErr
			}
			if closeErr := sandbox.Close(); closeErr != nil {
				logger.Error("closing sandbox", "error", closeErr)
				if runErr == nil {
					return closeErr
				}
			}
			return runErr
		},
	}
}
