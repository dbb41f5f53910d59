// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binarycodec

import (
	"crypto/subtle"
	"encoding/binary"
	"math"
)

// Decoder reads values back out of a buffer produced by [Encoder].
// The cursor only moves forward. A Decode call that would read past
// the end of the buffer returns ok=false and leaves the cursor where
// it was.
//
// The Decoder never copies or modifies the input: slices returned by
// [Decoder.DecodeFixedLengthData] alias it.
type Decoder struct {
	data     []byte
	offset   int
	checksum checksum
}

// NewDecoder returns a Decoder positioned at the start of data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data, checksum: newChecksum()}
}

// Length returns the total length of the input.
func (d *Decoder) Length() int {
	return len(d.data)
}

// CurrentOffset returns the number of bytes consumed so far.
func (d *Decoder) CurrentOffset() int {
	return d.offset
}

// Remaining returns the number of bytes not yet consumed.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.offset
}

// DecodeBool reads one byte. Bytes other than 0 and 1 are rejected
// and do not advance the cursor.
func (d *Decoder) DecodeBool() (bool, bool) {
	if d.Remaining() < 1 || d.data[d.offset] > 1 {
		return false, false
	}
	raw := d.consume(saltBool, 1)
	return raw[0] == 1, true
}

// DecodeUint8 reads one byte.
func (d *Decoder) DecodeUint8() (uint8, bool) {
	raw, ok := d.read(saltUint8, 1)
	if !ok {
		return 0, false
	}
	return raw[0], true
}

// DecodeUint16 reads 2 little-endian bytes.
func (d *Decoder) DecodeUint16() (uint16, bool) {
	raw, ok := d.read(saltUint16, 2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(raw), true
}

// DecodeUint32 reads 4 little-endian bytes.
func (d *Decoder) DecodeUint32() (uint32, bool) {
	raw, ok := d.read(saltUint32, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(raw), true
}

// DecodeUint64 reads 8 little-endian bytes.
func (d *Decoder) DecodeUint64() (uint64, bool) {
	raw, ok := d.read(saltUint64, 8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(raw), true
}

// DecodeInt32 reads 4 little-endian two's complement bytes.
func (d *Decoder) DecodeInt32() (int32, bool) {
	raw, ok := d.read(saltInt32, 4)
	if !ok {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(raw)), true
}

// DecodeInt64 reads 8 little-endian two's complement bytes.
func (d *Decoder) DecodeInt64() (int64, bool) {
	raw, ok := d.read(saltInt64, 8)
	if !ok {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(raw)), true
}

// DecodeFloat32 reads 4 bytes of IEEE 754 bits.
func (d *Decoder) DecodeFloat32() (float32, bool) {
	raw, ok := d.read(saltFloat32, 4)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(raw)), true
}

// DecodeFloat64 reads 8 bytes of IEEE 754 bits.
func (d *Decoder) DecodeFloat64() (float64, bool) {
	raw, ok := d.read(saltFloat64, 8)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(raw)), true
}

// DecodeFixedLengthData returns the next length bytes. The returned
// slice aliases the input buffer.
func (d *Decoder) DecodeFixedLengthData(length int) ([]byte, bool) {
	if length < 0 {
		return nil, false
	}
	return d.read(saltFixedLengthData, length)
}

// VerifyChecksum reads the trailing digest written by
// [Encoder.EncodeChecksum] and reports whether it matches the digest
// of everything decoded before it. It fails if fewer than
// [ChecksumSize] bytes remain.
func (d *Decoder) VerifyChecksum() bool {
	if d.Remaining() < ChecksumSize {
		return false
	}
	computed := d.checksum.sum()
	stored := d.data[d.offset : d.offset+ChecksumSize]
	d.offset += ChecksumSize
	return subtle.ConstantTimeCompare(computed[:], stored) == 1
}

func (d *Decoder) read(salt byte, length int) ([]byte, bool) {
	if d.Remaining() < length {
		return nil, false
	}
	return d.consume(salt, length), true
}

func (d *Decoder) consume(salt byte, length int) []byte {
	raw := d.data[d.offset : d.offset+length : d.offset+length]
	d.checksum.add(salt, raw)
	d.offset += length
	return raw
}
