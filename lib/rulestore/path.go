// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// fileNamePrefix marks artifact files in the store directory. It also
// guarantees that no identifier maps to "." or "..".
const fileNamePrefix = "ContentRuleList-"

// temporaryFilePattern is the os.CreateTemp pattern for in-progress
// compiles. The leading dot keeps temp files out of
// [Store.Identifiers] and away from fileNamePrefix.
const temporaryFilePattern = ".tmp-" + fileNamePrefix + "*"

// maxFileNameLength is the NAME_MAX of common Linux and macOS
// filesystems.
const maxFileNameLength = 255

const upperHex = "0123456789ABCDEF"

// ErrInvalidIdentifier is wrapped by errors for identifiers that have
// no valid file name.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// FileName returns the artifact file name for identifier. Every byte
// outside [A-Za-z0-9._~-] is percent-encoded with uppercase hex, so
// the mapping is deterministic, injective, and reversible with
// [IdentifierFromFileName]. Identifiers that are empty or whose
// encoding exceeds the filesystem name limit are rejected.
func FileName(identifier string) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("%w: identifier is empty", ErrInvalidIdentifier)
	}

	var builder strings.Builder
	builder.Grow(len(fileNamePrefix) + len(identifier))
	builder.WriteString(fileNamePrefix)
	for i := 0; i < len(identifier); i++ {
		c := identifier[i]
		if isUnreserved(c) {
			builder.WriteByte(c)
			continue
		}
		builder.WriteByte('%')
		builder.WriteByte(upperHex[c>>4])
		builder.WriteByte(upperHex[c&0x0F])
	}

	name := builder.String()
	if len(name) > maxFileNameLength {
		return "", fmt.Errorf("%w: identifier encodes to a %d-byte file name, limit is %d",
			ErrInvalidIdentifier, len(name), maxFileNameLength)
	}
	return name, nil
}

// IdentifierFromFileName reverses [FileName]. It returns false for
// names that FileName could not have produced: missing prefix,
// malformed or lowercase escapes, or bytes that should have been
// escaped.
func IdentifierFromFileName(name string) (string, bool) {
	encoded, found := strings.CutPrefix(name, fileNamePrefix)
	if !found || encoded == "" {
		return "", false
	}

	identifier := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c != '%' {
			if !isUnreserved(c) {
				return "", false
			}
			identifier = append(identifier, c)
			continue
		}
		if i+2 >= len(encoded) {
			return "", false
		}
		high, highOK := upperHexValue(encoded[i+1])
		low, lowOK := upperHexValue(encoded[i+2])
		if !highOK || !lowOK {
			return "", false
		}
		decoded := high<<4 | low
		if isUnreserved(decoded) {
			return "", false
		}
		identifier = append(identifier, decoded)
		i += 2
	}
	return string(identifier), true
}

// Path returns the permanent artifact path for identifier under the
// store directory.
func (s *Store) Path(identifier string) (string, error) {
	name, err := FileName(identifier)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.directory, name), nil
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func upperHexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
