// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/rulestore/cmd/rulestore/cli"
	"github.com/bureau-foundation/rulestore/lib/binhash"
	"github.com/bureau-foundation/rulestore/lib/codec"
	"github.com/bureau-foundation/rulestore/lib/rulecompiler"
	"github.com/bureau-foundation/rulestore/lib/rulestore"
)

type segmentInfo struct {
	Role   string `json:"role"`
	Offset uint64 `json:"offset"`
	Length uint64 `json:"length"`
}

type inspectResult struct {
	Identifier  string        `json:"identifier"`
	Path        string        `json:"path"`
	Version     uint32        `json:"version"`
	Size        int           `json:"size"`
	Fingerprint string        `json:"fingerprint"`
	Segments    []segmentInfo `json:"segments"`

	Actions               []rulecompiler.Action `json:"actions"`
	ActionsDiagnostic     string                `json:"actions_diagnostic,omitempty"`
	FiltersWithoutDomains int                   `json:"filters_without_domains"`
	FiltersWithDomain     int                   `json:"filters_with_domain"`
	Domains               []string              `json:"domains"`

	// Problem describes the first segment that failed to decode. The
	// header is valid whenever inspect produces a result at all.
	Problem string `json:"problem,omitempty"`
}

func inspectCommand(streams IO) *cli.Command {
	var params storeParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show an artifact's header, segments, and decoded contents",
		Usage:   "rulestore inspect <identifier> [flags]",
		Description: `Look up the artifact and report its format version, segment layout,
fingerprint, and the decoded action table, filter counts, and domain
table. Every segment checksum is verified; a segment that fails to
decode is reported as a problem and exits with an internal error.`,
		Flags: func() *pflag.FlagSet { return params.flagSet("inspect") },
		Run: func(args []string) error {
			if err := requireArgs(args, 1, "rulestore inspect <identifier>"); err != nil {
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
				return storeError(err)
			}
			defer artifact.Close()

			path, _ := store.Path(identifier)
			result := inspectArtifact(artifact)
			result.Path = path

			if done, err := params.EmitJSON(streams.Stdout, result); done {
				if err == nil && result.Problem != "" {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			printInspection(streams, result)
			if result.Problem != "" {
				return cli.Internal("artifact %s is damaged: %s", identifier, result.Problem)
			}
			return nil
		},
	}
}

// inspectArtifact decodes everything it can from artifact, recording
// the first failure in Problem.
func inspectArtifact(artifact *rulestore.Artifact) inspectResult {
	metadata := artifact.Metadata()
	result := inspectResult{
		Identifier:  artifact.Identifier(),
		Version:     metadata.Version,
		Size:        artifact.Size(),
		Fingerprint: binhash.FormatDigest(binhash.HashBytes(artifact.Bytes())),
		Actions:     []rulecompiler.Action{},
		Domains:     []string{},
	}
	ranges := metadata.SegmentRanges()
	for _, role := range rulestore.SegmentRoles() {
		result.Segments = append(result.Segments, segmentInfo{
			Role:   role.String(),
			Offset: ranges[role].Offset,
			Length: ranges[role].Length,
		})
	}

	fail := func(err error) inspectResult {
		result.Problem = err.Error()
		return result
	}

	if actions := artifact.Actions(); len(actions) > 0 {
		diagnostic, err := codec.Diagnose(actions)
		if err != nil {
			return fail(fmt.Errorf("actions: %w", err))
		}
		result.ActionsDiagnostic = diagnostic
	}
	actions, err := rulecompiler.DecodeActions(artifact.Actions())
	if err != nil {
		return fail(err)
	}
	if actions != nil {
		result.Actions = actions
	}

	plain, err := rulecompiler.DecodeFilters(artifact.FiltersWithoutDomainsBytecode(), false)
	if err != nil {
		return fail(fmt.Errorf("filters-without-domains: %w", err))
	}
	result.FiltersWithoutDomains = len(plain)

	gated, err := rulecompiler.DecodeFilters(artifact.FiltersWithDomainBytecode(), true)
	if err != nil {
		return fail(fmt.Errorf("filters-with-domain: %w", err))
	}
	result.FiltersWithDomain = len(gated)

	domains, err := rulecompiler.DecodeDomains(artifact.DomainFiltersBytecode())
	if err != nil {
		return fail(fmt.Errorf("domain-filters: %w", err))
	}
	if domains != nil {
		result.Domains = domains
	}
	return result
}

func printInspection(streams IO, result inspectResult) {
	fmt.Fprintf(streams.Stdout, "Identifier:   %s\n", result.Identifier)
	fmt.Fprintf(streams.Stdout, "Path:         %s\n", result.Path)
	fmt.Fprintf(streams.Stdout, "Format:       %d\n", result.Version)
	fmt.Fprintf(streams.Stdout, "Size:         %d bytes\n", result.Size)
	fmt.Fprintf(streams.Stdout, "Fingerprint:  %s\n", result.Fingerprint)

	fmt.Fprintln(streams.Stdout)
	writer := tabwriter.NewWriter(streams.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "SEGMENT\tOFFSET\tLENGTH\n")
	for _, segment := range result.Segments {
		fmt.Fprintf(writer, "%s\t%d\t%d\n", segment.Role, segment.Offset, segment.Length)
	}
	writer.Flush()

	fmt.Fprintln(streams.Stdout)
	fmt.Fprintf(streams.Stdout, "Actions:      %d\n", len(result.Actions))
	for index, action := range result.Actions {
		if action.Selector != "" {
			fmt.Fprintf(streams.Stdout, "  %d  %s %q\n", index, action.Type, action.Selector)
		} else {
			fmt.Fprintf(streams.Stdout, "  %d  %s\n", index, action.Type)
		}
	}
	if result.ActionsDiagnostic != "" {
		fmt.Fprintf(streams.Stdout, "CBOR:         %s\n", result.ActionsDiagnostic)
	}
	fmt.Fprintf(streams.Stdout, "Filters:      %d without domains, %d with domain\n",
		result.FiltersWithoutDomains, result.FiltersWithDomain)
	if len(result.Domains) > 0 {
		fmt.Fprintf(streams.Stdout, "Domains:      %s\n", strings.Join(result.Domains, ", "))
	}
	if result.Problem != "" {
		fmt.Fprintf(streams.Stdout, "Problem:      %s\n", result.Problem)
	}
}
