// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/rulestore/cmd/rulestore/cli"
)

type removeResult struct {
	Removed []string `json:"removed"`
}

func removeCommand(streams IO) *cli.Command {
	var params storeParams

	return &cli.Command{
		Name:    "remove",
		Summary: "Delete stored rule lists",
		Usage:   "rulestore remove <identifier>... [flags]",
		Description: `Delete the artifact for each identifier. Removal of one identifier
failing (for example, because it was never compiled) does not stop
the others; the command reports the first failure after trying all.`,
		Flags: func() *pflag.FlagSet { return params.flagSet("remove") },
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("at least one identifier required\n\nUsage: rulestore remove <identifier>...")
			}

			store, err := params.open(streams)
			if err != nil {
				return err
			}
			defer store.Close()

			result := removeResult{Removed: []string{}}
			var firstErr error
			for _, identifier := range args {
				if err := store.RemoveSync(identifier); err != nil {
					if firstErr == nil {
						firstErr = storeError(err)
					}
					continue
				}
				result.Removed = append(result.Removed, identifier)
			}

			if done, err := params.EmitJSON(streams.Stdout, result); done {
				if err != nil {
					return err
				}
				return firstErr
			}
			for _, identifier := range result.Removed {
				fmt.Fprintf(streams.Stdout, "removed %s\n", identifier)
			}
			return firstErr
		},
	}
}

func removeAllCommand(streams IO) *cli.Command {
	var params storeParams
	var confirmed bool

	return &cli.Command{
		Name:    "remove-all",
		Summary: "Delete every file in the store directory",
		Usage:   "rulestore remove-all --yes [flags]",
		Description: `Delete every regular file in the store directory, including damaged
artifacts and abandoned temporary files. Nothing else may be using
the store while this runs. Requires --yes.`,
		Flags: func() *pflag.FlagSet {
			flagSet := params.flagSet("remove-all")
			flagSet.BoolVar(&confirmed, "yes", false, "confirm deleting everything in the store directory")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 0, "rulestore remove-all --yes"); err != nil {
				return err
			}
			if !confirmed {
				return cli.Validation("remove-all deletes every file in the store directory; pass --yes to confirm")
			}

			store, err := params.open(streams)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.RemoveAll(); err != nil {
				return storeError(err)
			}
			if done, err := params.EmitJSON(streams.Stdout, map[string]string{"directory": store.Directory()}); done {
				return err
			}
			fmt.Fprintf(streams.Stdout, "removed all rule lists from %s\n", store.Directory())
			return nil
		},
	}
}
