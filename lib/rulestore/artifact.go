// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

import (
	"fmt"
	"sync/atomic"
)

// Artifact is a compiled rule list mapped read-only into memory. The
// byte slices it returns point directly into the mapping: they must
// not be modified and must not be used after Close.
//
// An Artifact is independent of the [Store] that produced it and
// stays valid after the store is closed. Use [Artifact.Retain] to hand
// a separate reference to another owner; the mapping is released
// when every handle has been closed.
type Artifact struct {
	identifier string
	metadata   Metadata
	ranges     [segmentCount]SegmentRange
	mapping    *mapping
	closed     atomic.Bool
}

// newArtifact validates the header of a mapping and wraps it. On
// error the caller keeps ownership of the mapping.
func newArtifact(identifier string, m *mapping) (*Artifact, error) {
	metadata, ok := DecodeMetadata(m.data)
	if !ok {
		return nil, newError(LookupFailed, identifier,
			"header undecodable: file is %d bytes, header needs %d", len(m.data), HeaderSize)
	}
	if metadata.Version != CurrentVersion {
		return nil, newError(VersionMismatch, identifier,
			"artifact has format version %d, this build reads version %d", metadata.Version, CurrentVersion)
	}
	fileSize, ok := metadata.FileSize()
	if !ok || fileSize != uint64(len(m.data)) {
		return nil, newError(LookupFailed, identifier,
			"header declares %s bytes of segments but file is %d bytes", declaredSegmentBytes(metadata), len(m.data))
	}
	return &Artifact{
		identifier: identifier,
		metadata:   metadata,
		ranges:     metadata.SegmentRanges(),
		mapping:    m,
	}, nil
}

// declaredSegmentBytes sums the segment sizes for error messages,
// saturating instead of overflowing.
func declaredSegmentBytes(metadata Metadata) string {
	if fileSize, ok := metadata.FileSize(); ok {
		return fmt.Sprintf("%d", fileSize-HeaderSize)
	}
	return "more than 2^64"
}

// Identifier returns the rule list identifier the artifact was
// compiled or looked up under.
func (a *Artifact) Identifier() string { return a.identifier }

// Metadata returns the decoded header.
func (a *Artifact) Metadata() Metadata { return a.metadata }

// Size returns the total mapped byte length (header plus segments).
func (a *Artifact) Size() int { return len(a.mapping.data) }

// Bytes returns the whole mapped file, header included.
func (a *Artifact) Bytes() []byte { return a.mapping.data }

// Segment returns the bytes of the segment with the given role.
// Zero-length segments yield an empty slice.
func (a *Artifact) Segment(role SegmentRole) []byte {
	if role < 0 || role >= segmentCount {
		return nil
	}
	segment := a.ranges[role]
	end := segment.Offset + segment.Length
	return a.mapping.data[segment.Offset:end:end]
}

// Actions returns the serialized action table.
func (a *Artifact) Actions() []byte { return a.Segment(SegmentActions) }

// FiltersWithoutDomainsBytecode returns the bytecode for filters with
// no domain condition.
func (a *Artifact) FiltersWithoutDomainsBytecode() []byte {
	return a.Segment(SegmentFiltersWithoutDomains)
}

// FiltersWithDomainBytecode returns the bytecode for filters gated by
// a domain condition.
func (a *Artifact) FiltersWithDomainBytecode() []byte {
	return a.Segment(SegmentFiltersWithDomain)
}

// DomainFiltersBytecode returns the bytecode matching page domains.
func (a *Artifact) DomainFiltersBytecode() []byte {
	return a.Segment(SegmentDomainFilters)
}

// Retain returns a new handle sharing the same mapping and adds a
// reference to it. Each handle must be closed independently. Panics if
// a is already closed.
func (a *Artifact) Retain() *Artifact {
	if a.closed.Load() {
		panic("rulestore: Retain of a closed Artifact")
	}
	a.mapping.retain()
	return &Artifact{
		identifier: a.identifier,
		metadata:   a.metadata,
		ranges:     a.ranges,
		mapping:    a.mapping,
	}
}

// Close releases this handle's reference to the mapping. Closing a
// handle twice is a no-op.
func (a *Artifact) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	return a.mapping.release()
}
