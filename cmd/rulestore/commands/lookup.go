// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/rulestore/cmd/rulestore/cli"
	"github.com/bureau-foundation/rulestore/lib/binhash"
	"github.com/bureau-foundation/rulestore/lib/rulestore"
)

type lookupParams struct {
	storeParams
	Quiet bool
}

func lookupCommand(streams IO) *cli.Command {
	var params lookupParams

	return &cli.Command{
		Name:    "lookup",
		Summary: "Check that a compiled artifact is present and usable",
		Usage:   "rulestore lookup <identifier> [flags]",
		Description: `Map the artifact for the identifier and validate its header. Fails
when the artifact is missing or damaged (not_found / internal) or was
written by a different format version (conflict). In every failing
case the rule list must be recompiled.

With --quiet, nothing is printed and the exit status is 0 for a
usable artifact and 1 when it needs recompiling.`,
		Examples: []cli.Example{
			{
				Description: "Recompile only when needed",
				Command:     "rulestore lookup ads --quiet || rulestore compile ads ./ads.json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := params.flagSet("lookup")
			flagSet.BoolVarP(&params.Quiet, "quiet", "q", false, "print nothing; exit 1 if the artifact needs recompiling")
			return flagSet
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, "rulestore lookup <identifier>"); err != nil {
				return err
			}
			identifier := args[0]

			store, err := params.open(streams)
			if err != nil {
				return err
			}
			defer store.Close()

			artifact, err := store.LookupSync(identifier)
			if err != nil {
				if params.Quiet && rulestore.NeedsRecompile(err) {
					return &cli.ExitError{Code: 1}
				}
				return storeError(err)
			}
			defer artifact.Close()

			if params.Quiet {
				return nil
			}

			path, _ := store.Path(identifier)
			digest := binhash.HashBytes(artifact.Bytes())
			result := compileResult{
				Identifier:  identifier,
				Path:        path,
				Size:        artifact.Size(),
				Fingerprint: binhash.FormatDigest(digest),
			}
			if done, err := params.EmitJSON(streams.Stdout, result); done {
				return err
			}
			fmt.Fprintf(streams.Stdout, "%s: %d bytes, format %d (%s)\n",
				identifier, result.Size, artifact.Metadata().Version, binhash.FormatRef(digest))
			return nil
		},
	}
}
