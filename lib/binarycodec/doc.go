// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binarycodec encodes and decodes fixed-width primitive values
// into a flat byte buffer with an optional integrity checksum.
//
// The format is not self-describing: a reader must decode values in
// exactly the order and with exactly the types the writer encoded
// them. Integers and floats are little-endian and fixed width; bools
// are one byte (0 or 1); raw blobs carry no length prefix, so their
// length travels as separately encoded metadata.
//
// Both sides fold every value into a running BLAKE3 hash. Before a
// value's bytes are hashed, a one-byte per-type salt is hashed first,
// so the same bit pattern encoded as a different sequence of types
// produces a different digest. [Encoder.EncodeChecksum] appends the
// digest as the final 32 bytes of the buffer, and
// [Decoder.VerifyChecksum] reads it back and compares it with the
// digest the decoder accumulated:
//
//	encoder := binarycodec.NewEncoder()
//	encoder.EncodeUint32(version)
//	encoder.EncodeFixedLengthData(payload)
//	encoder.EncodeChecksum()
//
//	decoder := binarycodec.NewDecoder(encoder.Buffer())
//	version, ok := decoder.DecodeUint32()
//	payload, ok := decoder.DecodeFixedLengthData(payloadLength)
//	ok = decoder.VerifyChecksum()
//
// Any single decode failure makes the whole decode invalid: decoders
// do not advance past a failed read, and callers are expected to stop
// at the first false.
//
// This package has no dependencies on other Bureau packages.
package binarycodec
