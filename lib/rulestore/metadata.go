// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

import (
	"math"

	"github.com/bureau-foundation/rulestore/lib/binarycodec"
)

// CurrentVersion is the artifact format version this build writes and
// accepts. Bump it whenever the header layout, the segment order, or
// the compiler's bytecode format changes: artifacts with any other
// version are reported as [VersionMismatch] and must be recompiled.
const CurrentVersion uint32 = 13

// HeaderSize is the fixed byte length of an encoded [Metadata]: a
// 4-byte version followed by four 8-byte segment sizes.
const HeaderSize = 4 + 4*8

// Metadata is the fixed-size header at the start of every artifact
// file. It declares the format version and the byte length of each
// segment that follows it.
//
// The header is deliberately not covered by a binarycodec checksum:
// its integrity is established by [Metadata.FileSize] matching the
// size of the mapped file.
type Metadata struct {
	Version                   uint32
	ActionsSize               uint64
	FiltersWithoutDomainsSize uint64
	FiltersWithDomainSize     uint64
	DomainFiltersSize         uint64
}

// SegmentRole names one of the four artifact segments. Roles are
// listed in on-disk order.
type SegmentRole int

const (
	// SegmentActions is the serialized action table.
	SegmentActions SegmentRole = iota
	// SegmentFiltersWithoutDomains is the bytecode for filters that
	// apply on every page.
	SegmentFiltersWithoutDomains
	// SegmentFiltersWithDomain is the bytecode for filters gated by an
	// if-domain or unless-domain condition.
	SegmentFiltersWithDomain
	// SegmentDomainFilters is the bytecode matching the page domain
	// against the conditions used by SegmentFiltersWithDomain.
	SegmentDomainFilters

	segmentCount
)

// String returns the role name used in logs and CLI output.
func (role SegmentRole) String() string {
	switch role {
	case SegmentActions:
		return "actions"
	case SegmentFiltersWithoutDomains:
		return "filters-without-domains"
	case SegmentFiltersWithDomain:
		return "filters-with-domain"
	case SegmentDomainFilters:
		return "domain-filters"
	default:
		return "unknown"
	}
}

// SegmentRoles lists every role in on-disk order.
func SegmentRoles() []SegmentRole {
	return []SegmentRole{
		SegmentActions,
		SegmentFiltersWithoutDomains,
		SegmentFiltersWithDomain,
		SegmentDomainFilters,
	}
}

// SegmentRange is the position of one segment within an artifact file.
type SegmentRange struct {
	Offset uint64
	Length uint64
}

// Size returns the declared byte length of the segment with the given
// role.
func (m Metadata) Size(role SegmentRole) uint64 {
	switch role {
	case SegmentActions:
		return m.ActionsSize
	case SegmentFiltersWithoutDomains:
		return m.FiltersWithoutDomainsSize
	case SegmentFiltersWithDomain:
		return m.FiltersWithDomainSize
	case SegmentDomainFilters:
		return m.DomainFiltersSize
	default:
		return 0
	}
}

// FileSize returns HeaderSize plus the four segment sizes: the exact
// byte length of a well-formed artifact file with this header. The
// second result is false if the sum overflows uint64, which only a
// corrupt or hostile header can produce.
func (m Metadata) FileSize() (uint64, bool) {
	total := uint64(HeaderSize)
	for _, role := range SegmentRoles() {
		size := m.Size(role)
		if size > math.MaxUint64-total {
			return 0, false
		}
		total += size
	}
	return total, true
}

// SegmentRanges returns the offset and length of each segment, indexed
// by SegmentRole. Offsets assume a well-formed file; validate
// [Metadata.FileSize] against the real size before slicing with them.
func (m Metadata) SegmentRanges() [segmentCount]SegmentRange {
	var ranges [segmentCount]SegmentRange
	offset := uint64(HeaderSize)
	for _, role := range SegmentRoles() {
		ranges[role] = SegmentRange{Offset: offset, Length: m.Size(role)}
		offset += m.Size(role)
	}
	return ranges
}

// Encode returns the HeaderSize-byte encoding of m.
func (m Metadata) Encode() []byte {
	encoder := binarycodec.NewEncoder()
	encoder.EncodeUint32(m.Version)
	encoder.EncodeUint64(m.ActionsSize)
	encoder.EncodeUint64(m.FiltersWithoutDomainsSize)
	encoder.EncodeUint64(m.FiltersWithDomainSize)
	encoder.EncodeUint64(m.DomainFiltersSize)
	return encoder.Buffer()
}

// DecodeMetadata parses a header from the start of data. Trailing
// bytes (the segments) are ignored. Returns false if data is shorter
// than HeaderSize.
func DecodeMetadata(data []byte) (Metadata, bool) {
	var metadata Metadata
	decoder := binarycodec.NewDecoder(data)

	var ok bool
	if metadata.Version, ok = decoder.DecodeUint32(); !ok {
		return Metadata{}, false
	}
	if metadata.ActionsSize, ok = decoder.DecodeUint64(); !ok {
		return Metadata{}, false
	}
	if metadata.FiltersWithoutDomainsSize, ok = decoder.DecodeUint64(); !ok {
		return Metadata{}, false
	}
	if metadata.FiltersWithDomainSize, ok = decoder.DecodeUint64(); !ok {
		return Metadata{}, false
	}
	if metadata.DomainFiltersSize, ok = decoder.DecodeUint64(); !ok {
		return Metadata{}, false
	}
	return metadata, true
}
