// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binarycodec

import "github.com/zeebo/blake3"

// ChecksumSize is the byte length of the digest written by
// [Encoder.EncodeChecksum].
const ChecksumSize = 32

// Per-type salts hashed ahead of each value. These are format
// constants: changing any of them invalidates every checksum already
// written to disk.
const (
	saltBool            byte = 3
	saltUint8           byte = 5
	saltUint16          byte = 7
	saltUint32          byte = 11
	saltUint64          byte = 13
	saltInt32           byte = 17
	saltInt64           byte = 19
	saltFloat32         byte = 23
	saltFloat64         byte = 29
	saltFixedLengthData byte = 31
)

// checksum is the rolling salted hash shared by Encoder and Decoder.
type checksum struct {
	hasher *blake3.Hasher
	salt   [1]byte
}

func newChecksum() checksum {
	return checksum{hasher: blake3.New()}
}

func (c *checksum) add(salt byte, data []byte) {
	c.salt[0] = salt
	c.hasher.Write(c.salt[:])
	c.hasher.Write(data)
}

func (c *checksum) sum() [ChecksumSize]byte {
	var digest [ChecksumSize]byte
	copy(digest[:], c.hasher.Sum(nil))
	return digest
}
