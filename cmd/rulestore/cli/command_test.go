// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "rulestore",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "compile",
				Run: func(args []string) error {
					called = "compile"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"compile"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "compile" {
		t.Errorf("dispatched to %q, want %q", called, "compile")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "rulestore",
		Subcommands: []*Command{
			{
				Name: "debug",
				Subcommands: []*Command{
					{
						Name: "dump",
						Run: func(args []string) error {
							called = "debug dump"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"debug", "dump", "extra-arg"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "debug dump" {
		t.Errorf("dispatched to %q, want %q", called, "debug dump")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra-arg" {
		t.Errorf("args = %v, want [extra-arg]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var directory string
	var positional []string

	command := &Command{
		Name: "lookup",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
			flagSet.StringVar(&directory, "directory", "/default", "store directory")
			return flagSet
		},
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"ads", "--directory", "/tmp/rules"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if directory != "/tmp/rules" {
		t.Errorf("directory = %q, want /tmp/rules", directory)
	}
	if len(positional) != 1 || positional[0] != "ads" {
		t.Errorf("args = %v, want [ads]", positional)
	}
}

func TestCommand_Execute_UnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name: "rulestore",
		Subcommands: []*Command{
			{Name: "compile", Run: func([]string) error { return nil }},
			{Name: "inspect", Run: func([]string) error { return nil }},
		},
	}

	err := root.Execute([]string{"compiel"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "compile"`) {
		t.Errorf("error = %q, want a suggestion for compile", err)
	}
	if CategoryOf(err) != CategoryValidation {
		t.Errorf("category = %s, want validation", CategoryOf(err))
	}

	err = root.Execute([]string{"zzzzzzzzzz"})
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want unknown command without suggestion", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	command := &Command{
		Name: "compile",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("compile", pflag.ContinueOnError)
			flagSet.String("directory", "", "store directory")
			return flagSet
		},
		Run: func([]string) error { return nil },
	}

	err := command.Execute([]string{"--directroy", "/tmp"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --directory?") {
		t.Errorf("error = %q, want a suggestion for --directory", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:       "rulestore",
		HelpOutput: &help,
		Subcommands: []*Command{
			{Name: "list", Summary: "List rule lists", Run: func([]string) error { return nil }},
		},
	}

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Fatalf("error = %v, want subcommand required", err)
	}
	if !strings.Contains(help.String(), "List rule lists") {
		t.Errorf("help output missing subcommand summary:\n%s", help.String())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	var help bytes.Buffer
	ran := false
	root := &Command{
		Name:       "rulestore",
		HelpOutput: &help,
		Subcommands: []*Command{
			{
				Name:        "remove",
				Description: "Delete stored rule lists.",
				Usage:       "rulestore remove <identifier>...",
				Flags: func() *pflag.FlagSet {
					flagSet := pflag.NewFlagSet("remove", pflag.ContinueOnError)
					flagSet.Bool("json", false, "output as JSON")
					return flagSet
				},
				Examples: []Example{{Description: "Remove one", Command: "rulestore remove ads"}},
				Run: func([]string) error {
					ran = true
					return nil
				},
			},
		},
	}

	for _, args := range [][]string{{"remove", "--help"}, {"remove", "-h"}, {"help"}} {
		help.Reset()
		if err := root.Execute(args); err != nil {
			t.Fatalf("Execute(%v) error: %v", args, err)
		}
		if help.Len() == 0 {
			t.Errorf("Execute(%v) printed no help", args)
		}
	}
	if ran {
		t.Error("Run was called for a help request")
	}

	help.Reset()
	if err := root.Execute([]string{"remove", "--help"}); err != nil {
		t.Fatal(err)
	}
	output := help.String()
	for _, want := range []string{
		"Delete stored rule lists.",
		"Usage:\n  rulestore remove <identifier>...",
		"--json",
		"# Remove one",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q:\n%s", want, output)
		}
	}
}

func TestCommand_Execute_RunErrorPassesThrough(t *testing.T) {
	sentinel := errors.New("boom")
	command := &Command{Name: "x", Run: func([]string) error { return sentinel }}
	if err := command.Execute(nil); !errors.Is(err, sentinel) {
		t.Errorf("Execute() = %v, want %v", err, sentinel)
	}
}
