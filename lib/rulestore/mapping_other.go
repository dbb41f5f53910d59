// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !(darwin || linux)

package rulestore

import (
	"errors"
	"fmt"
	"os"
)

// mapping has no implementation on this platform: every lookup and
// compile fails with an error wrapping errors.ErrUnsupported.
type mapping struct {
	file *os.File
	data []byte
}

func mapFile(path string) (*mapping, error) {
	return nil, fmt.Errorf("memory-mapping %s: %w", path, errors.ErrUnsupported)
}

func (m *mapping) retain() {}

func (m *mapping) release() error { return nil }
