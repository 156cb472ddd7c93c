// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

// crucible stages test fixture sandboxes and runs commands inside
// them.
//
// Usage:
//
//	crucible stage [flags] [-- <command> [args...]]
//	crucible snapshot <directory> <archive.tar.zst>
//	crucible restore <archive.tar.zst> <directory>
//	crucible verify --manifest <path>
//	crucible version
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/crucible-harness/crucible/cmd/crucible/cli"
	"github.com/crucible-harness/crucible/lib/process"
	"github.com/crucible-harness/crucible/lib/version"
	"github.com/crucible-harness/crucible/runner"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("CRUCIBLE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	root := &cli.Command{
		Name:    "crucible",
		Summary: "stage test fixture sandboxes and run commands inside them",
		Description: `crucible gives a command a private working directory staged from a
fixture manifest: a temporary directory removed afterwards, or a
pinned directory kept for inspection. Sandboxes can be snapshotted to
zstd-compressed tar archives and restored from them.`,
		Subcommands: []*cli.Command{
			stageCommand(logger),
			snapshotCommand(logger),
			restoreCommand(logger),
			verifyCommand(logger),
			versionCommand(),
		},
	}

	if err := root.Execute(os.Args[1:]); err != nil {
		if code, ok := runner.IsExitError(err); ok {
			os.Exit(code)
		}
		process.Fatal(err)
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "show version information",
		Run: func(args []string) error {
			fmt.Println(version.Full())
			return nil
		},
	}
}
