// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/crucible-harness/crucible/cmd/crucible/cli"
	"github.com/crucible-harness/crucible/lib/archive"
)

func snapshotCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Summary: "pack a directory into a zstd-compressed tar archive",
		Description: `snapshot records a directory's contents — typically a rooted sandbox
after a failing run — as a .tar.zst archive for later inspection or
restaging via a manifest archive directive.`,
		Usage: "crucible snapshot <directory> <archive.tar.zst>",
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <directory> <archive>, got %d arguments", len(args))
			}
			if err := archive.Pack(args[0], args[1]); err != nil {
				return err
			}
			logger.Info("snapshot written", "directory", args[0], "archive", args[1])
			return nil
		},
	}
}

func restoreCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "restore",
		Summary: "extract a snapshot archive into a directory",
		Usage:   "crucible restore <archive.tar.zst> <directory>",
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <archive> <directory>, got %d arguments", len(args))
			}
			if err := archive.Extract(args[0], args[1]); err != nil {
				return err
			}
			logger.Info("snapshot restored", "archive", args[0], "directory", args[1])
			return nil
		},
	}
}
