// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binarycodec

import (
	"encoding/binary"
	"math"
)

// Encoder appends fixed-width values to a growable buffer and folds
// each one into a salted running checksum. The zero value is not
// usable; create one with [NewEncoder].
type Encoder struct {
	buffer   []byte
	checksum checksum
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{checksum: newChecksum()}
}

// EncodeBool appends b as a single byte (1 for true, 0 for false).
func (e *Encoder) EncodeBool(b bool) {
	var value byte
	if b {
		value = 1
	}
	e.append(saltBool, value)
}

// EncodeUint8 appends a single byte.
func (e *Encoder) EncodeUint8(value uint8) {
	e.append(saltUint8, value)
}

// EncodeUint16 appends value as 2 little-endian bytes.
func (e *Encoder) EncodeUint16(value uint16) {
	e.append(saltUint16, binary.LittleEndian.AppendUint16(nil, value)...)
}

// EncodeUint32 appends value as 4 little-endian bytes.
func (e *Encoder) EncodeUint32(value uint32) {
	e.append(saltUint32, binary.LittleEndian.AppendUint32(nil, value)...)
}

// EncodeUint64 appends value as 8 little-endian bytes.
func (e *Encoder) EncodeUint64(value uint64) {
	e.append(saltUint64, binary.LittleEndian.AppendUint64(nil, value)...)
}

// EncodeInt32 appends value as 4 little-endian two's complement bytes.
func (e *Encoder) EncodeInt32(value int32) {
	e.append(saltInt32, binary.LittleEndian.AppendUint32(nil, uint32(value))...)
}

// EncodeInt64 appends value as 8 little-endian two's complement bytes.
func (e *Encoder) EncodeInt64(value int64) {
	e.append(saltInt64, binary.LittleEndian.AppendUint64(nil, uint64(value))...)
}

// EncodeFloat32 appends the IEEE 754 bits of value.
func (e *Encoder) EncodeFloat32(value float32) {
	e.append(saltFloat32, binary.LittleEndian.AppendUint32(nil, math.Float32bits(value))...)
}

// EncodeFloat64 appends the IEEE 754 bits of value.
func (e *Encoder) EncodeFloat64(value float64) {
	e.append(saltFloat64, binary.LittleEndian.AppendUint64(nil, math.Float64bits(value))...)
}

// EncodeFixedLengthData appends data verbatim. The length is not
// recorded; the reader must learn it from previously encoded fields.
// The blob is salted once, not once per byte.
func (e *Encoder) EncodeFixedLengthData(data []byte) {
	e.append(saltFixedLengthData, data...)
}

// EncodeChecksum appends the digest of everything encoded so far.
// It must be the last call on the Encoder: values encoded after it
// are not covered by the digest a [Decoder] will verify.
func (e *Encoder) EncodeChecksum() {
	digest := e.checksum.sum()
	e.buffer = append(e.buffer, digest[:]...)
}

// Buffer returns the encoded bytes. The slice aliases the Encoder's
// storage and is invalidated by further Encode calls.
func (e *Encoder) Buffer() []byte {
	return e.buffer
}

// BufferSize returns the number of bytes encoded so far.
func (e *Encoder) BufferSize() int {
	return len(e.buffer)
}

func (e *Encoder) append(salt byte, data ...byte) {
	e.checksum.add(salt, data)
	e.buffer = append(e.buffer, data...)
}
