// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 artifact fingerprint.
type Digest [32]byte

// artifactDomainKey is the ASCII domain name zero-padded to 32 bytes.
// Changing it changes every fingerprint.
var artifactDomainKey = [32]byte{
	'r', 'u', 'l', 'e', 's', 't', 'o', 'r', 'e', '.', 'a', 'r', 't', 'i', 'f', 'a',
	'c', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

func newHasher() *blake3.Hasher {
	// NewKeyed only fails for keys that are not 32 bytes.
	hasher, err := blake3.NewKeyed(artifactDomainKey[:])
	if err != nil {
		panic("binhash: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

// HashBytes returns the fingerprint of an artifact's bytes.
func HashBytes(data []byte) Digest {
	hasher := newHasher()
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// HashFile computes the fingerprint of the file at path. The file is
// streamed through the hash function so memory use is constant.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := newHasher()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// FormatDigest returns the hex-encoded form of a digest. This is the
// canonical format used in CLI output and logs.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a 64-character hex string into a Digest.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing artifact digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("artifact digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}

// FormatRef returns the short display reference for a digest: the
// "crl-" prefix followed by the first 12 hex characters.
func FormatRef(digest Digest) string {
	return "crl-" + hex.EncodeToString(digest[:6])
}
