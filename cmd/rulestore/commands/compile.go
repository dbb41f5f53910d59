// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/rulestore/cmd/rulestore/cli"
	"github.com/bureau-foundation/rulestore/lib/binhash"
)

// compileResult is the --json output of compile and lookup.
type compileResult struct {
	Identifier  string `json:"identifier"`
	Path        string `json:"path"`
	Size        int    `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

func compileCommand(streams IO) *cli.Command {
	var params storeParams

	return &cli.Command{
		Name:    "compile",
		Summary: "Compile a rule list and store the artifact",
		Usage:   "rulestore compile <identifier> <file|-> [flags]",
		Description: `Compile a JSON (or JSONC) rule list and atomically publish the
artifact under the identifier, replacing any earlier artifact. A
rejected rule list leaves the earlier artifact untouched. Read the
rule list from stdin with "-".`,
		Examples: []cli.Example{
			{
				Description: "Compile from a file",
				Command:     "rulestore compile ads ./ads.json",
			},
			{
				Description: "Compile from stdin",
				Command:     "generate-rules | rulestore compile ads -",
			},
		},
		Flags: func() *pflag.FlagSet { return params.flagSet("compile") },
		Run: func(args []string) error {
			if err := requireArgs(args, 2, "rulestore compile <identifier> <file|->"); err != nil {
				return err
			}
			identifier, sourcePath := args[0], args[1]

			source, err := readSource(sourcePath)
			if err != nil {
				return err
			}

			store, err := params.open(streams)
			if err != nil {
				return err
			}
			defer store.Close()

			artifact, err := store.CompileSync(identifier, source)
			if err != nil {
				return storeError(err)
			}
			defer artifact.Close()

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
			fmt.Fprintf(streams.Stdout, "compiled %s: %d bytes (%s)\n",
				identifier, result.Size, binhash.FormatRef(digest))
			return nil
		},
	}
}

// readSource reads a rule list from path, or from stdin for "-".
func readSource(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", cli.NotFound("rule list %s does not exist", path)
		}
		return "", cli.Internal("reading rule list: %w", err)
	}
	return string(data), nil
}
