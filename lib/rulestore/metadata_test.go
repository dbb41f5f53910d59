// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

import (
	"math"
	"testing"
)

func TestMetadataEncodedSize(t *testing.T) {
	encoded := Metadata{Version: CurrentVersion, ActionsSize: 1}.Encode()
	if len(encoded) != HeaderSize {
		t.Fatalf("encoded header is %d bytes, want %d", len(encoded), HeaderSize)
	}
	if HeaderSize != 36 {
		t.Fatalf("HeaderSize = %d, want 36", HeaderSize)
	}
}

func TestMetadataRoundtrip(t *testing.T) {
	original := Metadata{
		Version:                   CurrentVersion,
		ActionsSize:               11,
		FiltersWithoutDomainsSize: 22,
		FiltersWithDomainSize:     33,
		DomainFiltersSize:         math.MaxUint32 + 44,
	}

	// Trailing segment bytes are ignored by the header decoder.
	data := append(original.Encode(), 0xFF, 0xFF)
	decoded, ok := DecodeMetadata(data)
	if !ok {
		t.Fatal("DecodeMetadata failed")
	}
	if decoded != original {
		t.Errorf("decoded %+v, want %+v", decoded, original)
	}
}

func TestDecodeMetadataShortInput(t *testing.T) {
	encoded := Metadata{Version: CurrentVersion}.Encode()
	for length := 0; length < HeaderSize; length++ {
		if _, ok := DecodeMetadata(encoded[:length]); ok {
			t.Fatalf("DecodeMetadata accepted a %d-byte header", length)
		}
	}
}

func TestMetadataFileSize(t *testing.T) {
	metadata := Metadata{
		Version:                   CurrentVersion,
		ActionsSize:               1,
		FiltersWithoutDomainsSize: 2,
		FiltersWithDomainSize:     3,
		DomainFiltersSize:         4,
	}
	size, ok := metadata.FileSize()
	if !ok || size != HeaderSize+10 {
		t.Errorf("FileSize = %d, %v; want %d, true", size, ok, HeaderSize+10)
	}

	empty, ok := Metadata{Version: CurrentVersion}.FileSize()
	if !ok || empty != HeaderSize {
		t.Errorf("empty FileSize = %d, %v; want %d, true", empty, ok, HeaderSize)
	}
}

func TestMetadataFileSizeOverflow(t *testing.T) {
	metadata := Metadata{
		ActionsSize:       math.MaxUint64 - 10,
		DomainFiltersSize: 100,
	}
	if _, ok := metadata.FileSize(); ok {
		t.Error("FileSize did not report overflow")
	}
}

func TestMetadataSegmentRanges(t *testing.T) {
	metadata := Metadata{
		ActionsSize:               5,
		FiltersWithoutDomainsSize: 0,
		FiltersWithDomainSize:     7,
		DomainFiltersSize:         2,
	}
	ranges := metadata.SegmentRanges()

	want := map[SegmentRole]SegmentRange{
		SegmentActions:               {Offset: 36, Length: 5},
		SegmentFiltersWithoutDomains: {Offset: 41, Length: 0},
		SegmentFiltersWithDomain:     {Offset: 41, Length: 7},
		SegmentDomainFilters:         {Offset: 48, Length: 2},
	}
	for role, expected := range want {
		if ranges[role] != expected {
			t.Errorf("%s range = %+v, want %+v", role, ranges[role], expected)
		}
	}
}

func TestSegmentRoleNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, role := range SegmentRoles() {
		name := role.String()
		if name == "unknown" || seen[name] {
			t.Errorf("role %d has bad or duplicate name %q", role, name)
		}
		seen[name] = true
	}
	if len(seen) != int(segmentCount) {
		t.Errorf("SegmentRoles returned %d roles, want %d", len(seen), segmentCount)
	}
}
