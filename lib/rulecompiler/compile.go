// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulecompiler

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/rulestore/lib/codec"
	"github.com/bureau-foundation/rulestore/lib/rulestore"
)

// ErrInvalidSource is wrapped by every error Compile returns for
// source it rejects, as opposed to failures writing the artifact.
var ErrInvalidSource = errors.New("invalid rule list")

// Compiler turns rule list source into store artifacts. The zero
// value is ready to use and safe for concurrent compiles.
type Compiler struct{}

// New returns a Compiler.
func New() *Compiler { return &Compiler{} }

var _ rulestore.Compiler = (*Compiler)(nil)

// Compile parses and validates source, then writes all four segments
// to sink in on-disk order and finalizes it. Nothing is written when
// the source is rejected.
func (c *Compiler) Compile(source string, sink *rulestore.Sink) error {
	parsed, err := Parse(source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	segments, err := Encode(parsed)
	if err != nil {
		return err
	}

	sink.WriteActions(segments.Actions)
	sink.WriteFiltersWithoutDomainsBytecode(segments.FiltersWithoutDomains)
	sink.WriteFiltersWithDomainBytecode(segments.FiltersWithDomain)
	sink.WriteDomainFiltersBytecode(segments.DomainFilters)
	return sink.Finalize()
}

// Segments holds the encoded contents of each artifact segment.
type Segments struct {
	Actions               []byte
	FiltersWithoutDomains []byte
	FiltersWithDomain     []byte
	DomainFilters         []byte
}

// Encode produces the segment contents for a validated source.
// Filters keep their relative order within each segment.
func Encode(source *Source) (*Segments, error) {
	var segments Segments
	if len(source.Actions) > 0 {
		actions, err := codec.Marshal(source.Actions)
		if err != nil {
			return nil, fmt.Errorf("encoding action table: %w", err)
		}
		segments.Actions = actions
	}

	table := domainTable(source.Filters)
	var plain, gated []CompiledFilter
	for _, filter := range source.Filters {
		compiled := CompiledFilter{
			URLFilter:     filter.URLFilter,
			CaseSensitive: filter.CaseSensitive,
			Action:        uint32(filter.Action),
		}
		if !filter.hasDomainCondition() {
			plain = append(plain, compiled)
			continue
		}
		if len(filter.UnlessDomain) > 0 {
			compiled.Unless = true
			compiled.Domains = domainIndices(table, filter.UnlessDomain)
		} else {
			compiled.Domains = domainIndices(table, filter.IfDomain)
		}
		gated = append(gated, compiled)
	}

	segments.FiltersWithoutDomains = encodeFilters(plain, false)
	segments.FiltersWithDomain = encodeFilters(gated, true)
	segments.DomainFilters = encodeDomains(table)
	return &segments, nil
}

// DecodeActions reads an actions segment back into the action table.
// An empty segment is an empty table.
func DecodeActions(segment []byte) ([]Action, error) {
	if len(segment) == 0 {
		return nil, nil
	}
	var actions []Action
	if err := codec.Unmarshal(segment, &actions); err != nil {
		return nil, fmt.Errorf("decoding action table: %w", err)
	}
	return actions, nil
}

// Decompile reads every segment of an artifact and rebuilds an
// equivalent source. Filters without a domain condition come first,
// followed by the gated ones, and domains are in normalized form.
// Every checksum and cross-reference is verified.
func Decompile(artifact *rulestore.Artifact) (*Source, error) {
	actions, err := DecodeActions(artifact.Actions())
	if err != nil {
		return nil, err
	}
	plain, err := DecodeFilters(artifact.FiltersWithoutDomainsBytecode(), false)
	if err != nil {
		return nil, err
	}
	gated, err := DecodeFilters(artifact.FiltersWithDomainBytecode(), true)
	if err != nil {
		return nil, err
	}
	domains, err := DecodeDomains(artifact.DomainFiltersBytecode())
	if err != nil {
		return nil, err
	}

	source := &Source{Actions: actions, Filters: []Filter{}}
	if source.Actions == nil {
		source.Actions = []Action{}
	}
	for _, compiled := range append(plain, gated...) {
		if int64(compiled.Action) >= int64(len(actions)) {
			return nil, fmt.Errorf("filter %q refers to action %d of %d", compiled.URLFilter, compiled.Action, len(actions))
		}
		filter := Filter{
			URLFilter:     compiled.URLFilter,
			CaseSensitive: compiled.CaseSensitive,
			Action:        int(compiled.Action),
		}
		names := make([]string, 0, len(compiled.Domains))
		for _, index := range compiled.Domains {
			if int64(index) >= int64(len(domains)) {
				return nil, fmt.Errorf("filter %q refers to domain %d of %d", compiled.URLFilter, index, len(domains))
			}
			names = append(names, domains[index])
		}
		if compiled.Unless {
			filter.UnlessDomain = names
		} else if len(names) > 0 {
			filter.IfDomain = names
		}
		source.Filters = append(source.Filters, filter)
	}
	return source, nil
}
