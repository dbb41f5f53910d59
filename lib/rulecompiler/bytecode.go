// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulecompiler

import (
	"fmt"
	"math"
	"slices"

	"github.com/bureau-foundation/rulestore/lib/binarycodec"
)

// CompiledFilter is one filter record read back from a filter
// segment.
type CompiledFilter struct {
	URLFilter     string
	CaseSensitive bool
	Action        uint32

	// Unless is true when Domains excludes pages rather than
	// restricting the filter to them. Only set in the
	// filters-with-domain segment.
	Unless bool

	// Domains indexes the domain table. Empty in the
	// filters-without-domains segment.
	Domains []uint32
}

// Filter segment layout, all values binarycodec-encoded:
//
//	u32 count
//	count records:
//	    u32  action index
//	    bool case sensitive
//	    u32  pattern length
//	    data pattern
//	    (filters-with-domain only)
//	    bool unless
//	    u32  domain count
//	    u32  domain index, repeated
//	checksum
//
// Domain table layout:
//
//	u32 count
//	count entries: u32 length, data name
//	checksum

func encodeFilters(filters []CompiledFilter, withDomain bool) []byte {
	if len(filters) == 0 {
		return nil
	}
	encoder := binarycodec.NewEncoder()
	encoder.EncodeUint32(uint32(len(filters)))
	for _, filter := range filters {
		encoder.EncodeUint32(filter.Action)
		encoder.EncodeBool(filter.CaseSensitive)
		encoder.EncodeUint32(uint32(len(filter.URLFilter)))
		encoder.EncodeFixedLengthData([]byte(filter.URLFilter))
		if withDomain {
			encoder.EncodeBool(filter.Unless)
			encoder.EncodeUint32(uint32(len(filter.Domains)))
			for _, index := range filter.Domains {
				encoder.EncodeUint32(index)
			}
		}
	}
	encoder.EncodeChecksum()
	return encoder.Buffer()
}

func encodeDomains(domains []string) []byte {
	if len(domains) == 0 {
		return nil
	}
	encoder := binarycodec.NewEncoder()
	encoder.EncodeUint32(uint32(len(domains)))
	for _, domain := range domains {
		encoder.EncodeUint32(uint32(len(domain)))
		encoder.EncodeFixedLengthData([]byte(domain))
	}
	encoder.EncodeChecksum()
	return encoder.Buffer()
}

// DecodeFilters reads a filters-without-domains segment
// (withDomain=false) or a filters-with-domain segment
// (withDomain=true). An empty segment decodes to no filters. The
// trailing checksum must verify and nothing may follow it.
func DecodeFilters(segment []byte, withDomain bool) ([]CompiledFilter, error) {
	if len(segment) == 0 {
		return nil, nil
	}
	decoder := binarycodec.NewDecoder(segment)
	count, ok := decoder.DecodeUint32()
	if !ok {
		return nil, fmt.Errorf("filter segment truncated before record count")
	}
	// Every record takes at least 9 bytes, which bounds the
	// allocation for a corrupt count.
	if uint64(count)*9 > uint64(decoder.Remaining()) {
		return nil, fmt.Errorf("filter segment declares %d records in %d bytes", count, decoder.Remaining())
	}

	filters := make([]CompiledFilter, 0, count)
	for index := range count {
		filter, err := decodeFilter(decoder, withDomain)
		if err != nil {
			return nil, fmt.Errorf("filter record %d: %w", index, err)
		}
		filters = append(filters, filter)
	}
	if err := finish(decoder); err != nil {
		return nil, fmt.Errorf("filter segment: %w", err)
	}
	return filters, nil
}

func decodeFilter(decoder *binarycodec.Decoder, withDomain bool) (CompiledFilter, error) {
	var filter CompiledFilter
	var ok bool
	if filter.Action, ok = decoder.DecodeUint32(); !ok {
		return filter, fmt.Errorf("truncated action index")
	}
	if filter.CaseSensitive, ok = decoder.DecodeBool(); !ok {
		return filter, fmt.Errorf("invalid case-sensitivity flag")
	}
	pattern, err := decodeString(decoder)
	if err != nil {
		return filter, fmt.Errorf("url-filter: %w", err)
	}
	filter.URLFilter = pattern
	if !withDomain {
		return filter, nil
	}

	if filter.Unless, ok = decoder.DecodeBool(); !ok {
		return filter, fmt.Errorf("invalid unless flag")
	}
	domainCount, ok := decoder.DecodeUint32()
	if !ok {
		return filter, fmt.Errorf("truncated domain count")
	}
	if uint64(domainCount)*4 > uint64(decoder.Remaining()) {
		return filter, fmt.Errorf("domain count %d exceeds remaining %d bytes", domainCount, decoder.Remaining())
	}
	filter.Domains = make([]uint32, domainCount)
	for i := range filter.Domains {
		filter.Domains[i], _ = decoder.DecodeUint32()
	}
	return filter, nil
}

// DecodeDomains reads a domain-filters segment.
func DecodeDomains(segment []byte) ([]string, error) {
	if len(segment) == 0 {
		return nil, nil
	}
	decoder := binarycodec.NewDecoder(segment)
	count, ok := decoder.DecodeUint32()
	if !ok {
		return nil, fmt.Errorf("domain table truncated before entry count")
	}
	if uint64(count)*4 > uint64(decoder.Remaining()) {
		return nil, fmt.Errorf("domain table declares %d entries in %d bytes", count, decoder.Remaining())
	}

	domains := make([]string, 0, count)
	for index := range count {
		domain, err := decodeString(decoder)
		if err != nil {
			return nil, fmt.Errorf("domain %d: %w", index, err)
		}
		domains = append(domains, domain)
	}
	if err := finish(decoder); err != nil {
		return nil, fmt.Errorf("domain table: %w", err)
	}
	return domains, nil
}

func decodeString(decoder *binarycodec.Decoder) (string, error) {
	length, ok := decoder.DecodeUint32()
	if !ok {
		return "", fmt.Errorf("truncated length")
	}
	if uint64(length) > math.MaxInt32 {
		return "", fmt.Errorf("length %d too large", length)
	}
	data, ok := decoder.DecodeFixedLengthData(int(length))
	if !ok {
		return "", fmt.Errorf("length %d exceeds remaining %d bytes", length, decoder.Remaining())
	}
	return string(data), nil
}

func finish(decoder *binarycodec.Decoder) error {
	if !decoder.VerifyChecksum() {
		return fmt.Errorf("checksum mismatch")
	}
	if decoder.Remaining() != 0 {
		return fmt.Errorf("%d trailing bytes after checksum", decoder.Remaining())
	}
	return nil
}

// domainTable collects the normalized domains of every filter into a
// sorted, duplicate-free table.
func domainTable(filters []Filter) []string {
	var table []string
	for _, filter := range filters {
		for _, domain := range filter.IfDomain {
			table = append(table, normalizeDomain(domain))
		}
		for _, domain := range filter.UnlessDomain {
			table = append(table, normalizeDomain(domain))
		}
	}
	slices.Sort(table)
	return slices.Compact(table)
}

// domainIndices resolves domains against a table built by
// domainTable.
func domainIndices(table []string, domains []string) []uint32 {
	indices := make([]uint32, 0, len(domains))
	for _, domain := range domains {
		index, _ := slices.BinarySearch(table, normalizeDomain(domain))
		indices = append(indices, uint32(index))
	}
	return indices
}
