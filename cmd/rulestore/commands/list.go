// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/rulestore/cmd/rulestore/cli"
	"github.com/bureau-foundation/rulestore/lib/rulestore"
)

// listEntry is one row of list output. Status is "ok",
// "version-mismatch", or "damaged".
type listEntry struct {
	Identifier string `json:"identifier"`
	Size       int    `json:"size,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func listCommand(streams IO) *cli.Command {
	var params storeParams

	return &cli.Command{
		Name:    "list",
		Summary: "List stored rule lists and whether each is usable",
		Usage:   "rulestore list [flags]",
		Description: `List every identifier with an artifact in the store directory, in
sorted order, and look each one up to report whether it is usable
or must be recompiled.`,
		Flags: func() *pflag.FlagSet { return params.flagSet("list") },
		Run: func(args []string) error {
			if err := requireArgs(args, 0, "rulestore list"); err != nil {
				return err
			}

			store, err := params.open(streams)
			if err != nil {
				return err
			}
			defer store.Close()

			identifiers, err := store.IdentifiersSync()
			if err != nil {
				return storeError(err)
			}

			entries := make([]listEntry, 0, len(identifiers))
			for _, identifier := range identifiers {
				entries = append(entries, describe(store, identifier))
			}

			if done, err := params.EmitJSON(streams.Stdout, entries); done {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(streams.Stdout, "No rule lists found.")
				return nil
			}

			writer := tabwriter.NewWriter(streams.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "IDENTIFIER\tSIZE\tSTATUS\n")
			for _, entry := range entries {
				fmt.Fprintf(writer, "%s\t%d\t%s\n", entry.Identifier, entry.Size, entry.Status)
			}
			return writer.Flush()
		},
	}
}

func describe(store *rulestore.Store, identifier string) listEntry {
	entry := listEntry{Identifier: identifier}
	artifact, err := store.LookupSync(identifier)
	if err != nil {
		entry.Status = "damaged"
		if kind, _ := rulestore.KindOf(err); kind == rulestore.VersionMismatch {
			entry.Status = "version-mismatch"
		}
		entry.Error = err.Error()
		return entry
	}
	defer artifact.Close()

	entry.Size = artifact.Size()
	entry.Status = "ok"
	return entry
}
