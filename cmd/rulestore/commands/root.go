// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/rulestore/cmd/rulestore/cli"
	"github.com/bureau-foundation/rulestore/lib/version"
)

// IO carries the streams commands write to.
type IO struct {
	// Stdout receives command results.
	Stdout io.Writer
	// Stderr receives help, logs, and diagnostics.
	Stderr io.Writer
}

// Root builds and returns the complete rulestore command tree.
func Root(streams IO) *cli.Command {
	return &cli.Command{
		Name: "rulestore",
		Description: `rulestore: compiled content rule list store.

Compile content-filter rule lists into versioned, memory-mappable
artifacts, one file per identifier, and look them up again without
recompiling.`,
		HelpOutput: streams.Stderr,
		Subcommands: []*cli.Command{
			compileCommand(streams),
			lookupCommand(streams),
			inspectCommand(streams),
			listCommand(streams),
			removeCommand(streams),
			removeAllCommand(streams),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Fprintf(streams.Stdout, "rulestore %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Compile a rule list",
				Command:     "rulestore compile ads ./ads.json",
			},
			{
				Description: "Check whether a compiled artifact is usable",
				Command:     "rulestore lookup ads",
			},
			{
				Description: "Show segment sizes, fingerprint, and decoded actions",
				Command:     "rulestore inspect ads --json",
			},
			{
				Description: "Use a different store directory",
				Command:     "rulestore list --directory /var/cache/rules",
			},
		},
	}
}
