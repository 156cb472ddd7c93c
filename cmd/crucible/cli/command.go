// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command-tree framework behind the crucible
// binary: named subcommands, pflag flag sets, and tabwriter-aligned
// help output.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one CLI command or subcommand.
type Command struct {
	// Name is the command name as typed by the user.
	Name string

	// Summary is a one-line description shown in the parent's help
	// listing.
	Summary string

	// Description is a longer help text shown in the command's own
	// help output.
	Description string

	// Usage is the usage line. If empty, one is synthesized from the
	// command path.
	Usage string

	// Flags returns a configured *pflag.FlagSet for this command,
	// called lazily on first use. Nil means no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are dispatched by the first positional argument.
	Subcommands []*Command

	// Run executes the command with the arguments remaining after
	// flag parsing. Exactly one of Run or Subcommands should be set.
	Run func(args []string) error

	parent *Command
}

// Execute parses args and dispatches to a subcommand or this
// command's Run function.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(os.Stderr)
		return nil
	}

	if len(c.Subcommands) > 0 {
		if len(args) == 0 {
			c.PrintHelp(os.Stderr)
			return fmt.Errorf("subcommand required")
		}
		if !strings.HasPrefix(args[0], "-") {
			for _, sub := range c.Subcommands {
				if sub.Name == args[0] {
					sub.parent = c
					return sub.Execute(args[1:])
				}
			}
			return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage.", args[0], c.fullName())
		}
	}

	if c.Run == nil {
		c.PrintHelp(os.Stderr)
		return fmt.Errorf("subcommand required")
	}

	remaining := args
	if c.Flags != nil {
		flagSet := c.Flags()
		flagSet.SetOutput(io.Discard)
		if err := flagSet.Parse(args); err != nil {
			return fmt.Errorf("%w\n\nRun '%s --help' for usage.", err, c.fullName())
		}
		remaining = flagSet.Args()
	}
	return c.Run(remaining)
}

// PrintHelp writes the command's help text to w.
func (c *Command) PrintHelp(w io.Writer) {
	if c.Summary != "" {
		fmt.Fprintf(w, "%s - %s\n\n", c.fullName(), c.Summary)
	}
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", strings.TrimSpace(c.Description))
	}

	usage := c.Usage
	if usage == "" {
		usage = c.fullName()
		if len(c.Subcommands) > 0 {
			usage += " <command>"
		}
		usage += " [flags]"
	}
	fmt.Fprintf(w, "USAGE\n    %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCOMMANDS\n")
		tw := tabwriter.NewWriter(w, 0, 4, 4, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "    %s\t%s\n", sub.Name, sub.Summary)
		}
		tw.Flush()
	}

	if c.Flags != nil {
		fmt.Fprintf(w, "\nFLAGS\n%s", c.Flags().FlagUsagesWrapped(100))
	}
}

// fullName is the space-joined path from the root command.
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
