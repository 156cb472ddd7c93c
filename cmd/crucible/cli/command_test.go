// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	var ran []string
	root := &Command{
		Name: "crucible",
		Subcommands: []*Command{
			{
				Name: "stage",
				Run: func(args []string) error {
					ran = args
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"stage", "one", "two"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(ran) != 2 || ran[0] != "one" || ran[1] != "two" {
		t.Errorf("subcommand args = %v, want [one two]", ran)
	}
}

func TestExecuteUnknownSubcommand(t *testing.T) {
	root := &Command{
		Name:        "crucible",
		Subcommands: []*Command{{Name: "stage", Run: func([]string) error { return nil }}},
	}

	err := root.Execute([]string{"nonsense"})
	if err == nil {
		t.Fatal("Execute accepted an unknown subcommand")
	}
	if !strings.Contains(err.Error(), "nonsense") {
		t.Errorf("error = %v, want it to name the unknown command", err)
	}
}

func TestExecuteRequiresSubcommand(t *testing.T) {
	root := &Command{
		Name:        "crucible",
		Subcommands: []*Command{{Name: "stage", Run: func([]string) error { return nil }}},
	}
	if err := root.Execute(nil); err == nil {
		t.Fatal("Execute without a subcommand succeeded")
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var manifest string
	var got []string
	command := &Command{
		Name: "stage",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("stage", pflag.ContinueOnError)
			flags.StringVar(&manifest, "manifest", "", "")
			return flags
		},
		Run: func(args []string) error {
			got = args
			return nil
		},
	}

	if err := command.Execute([]string{"--manifest", "fix.yaml", "--", "echo", "hi"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if manifest != "fix.yaml" {
		t.Errorf("manifest flag = %q", manifest)
	}
	if len(got) != 2 || got[0] != "echo" || got[1] != "hi" {
		t.Errorf("remaining args = %v, want [echo hi]", got)
	}
}

func TestExecuteRejectsUnknownFlag(t *testing.T) {
	command := &Command{
		Name: "stage",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("stage", pflag.ContinueOnError)
		},
		Run: func([]string) error { return nil },
	}
	if err := command.Execute([]string{"--bogus"}); err == nil {
		t.Fatal("Execute accepted an unknown flag")
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	root := &Command{
		Name:    "crucible",
		Summary: "top summary",
		Subcommands: []*Command{
			{Name: "stage", Summary: "stage a sandbox"},
			{Name: "snapshot", Summary: "pack a directory"},
		},
	}

	var out strings.Builder
	root.PrintHelp(&out)
	help := out.String()
	for _, want := range []string{"stage", "stage a sandbox", "snapshot", "pack a directory", "USAGE"} {
		if !strings.Contains(help, want) {
			t.Errorf("help output missing %q:\n%s", want, help)
		}
	}
}
