// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration used for structured
// data embedded in compiled rule lists, chiefly the action table
// segment.
//
// The action table is written once at compile time and then read
// straight out of a memory-mapped file, possibly by a different build
// of the reader, so the encoding has two requirements:
//
//   - Determinism. The encoder uses Core Deterministic Encoding
//     (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
//     indefinite-length items. Compiling the same source twice
//     produces byte-identical segments.
//   - Hostile-input tolerance. The decoder caps nesting depth and
//     container sizes and rejects duplicate map keys, so a damaged
//     segment fails to decode instead of exhausting memory.
//
// Usage:
//
//	data, err := codec.Marshal(actions)
//	err = codec.Unmarshal(data, &actions)
//	text, err := codec.Diagnose(data) // RFC 8949 diagnostic notation
//
// Struct types serialized here use `cbor` struct tags. Types that also
// appear in JSON rule source use `json` tags only; fxamacker/cbor
// falls back to them when `cbor` tags are absent.
package codec
