// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command rulestore compiles content rule lists into a store directory
// and looks up, inspects, lists, and removes the compiled artifacts.
package main

import (
	"errors"
	"os"

	"github.com/bureau-foundation/rulestore/cmd/rulestore/cli"
	"github.com/bureau-foundation/rulestore/cmd/rulestore/commands"
	"github.com/bureau-foundation/rulestore/lib/process"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired exit code. Don't print a redundant
		// "error:" line for those.
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.Code)
		}
		process.Fatal(err)
	}
}

func run() error {
	streams := commands.IO{Stdout: os.Stdout, Stderr: os.Stderr}
	return commands.Root(streams).Execute(os.Args[1:])
}
