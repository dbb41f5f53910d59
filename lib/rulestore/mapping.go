// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package rulestore

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// mapping is a read-only, shared memory map of a whole file. The file
// stays open for the life of the mapping so it can be handed to
// another process as [SharedMemory]. Every [Artifact] that views the
// mapping holds one reference; the last release unmaps it.
type mapping struct {
	file *os.File
	data []byte
	refs atomic.Int64
}

// mapFile opens path read-only and maps its entire contents.
func mapFile(path string) (*mapping, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mapOpenFile(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return m, nil
}

// mapOpenFile maps the entire contents of file, taking ownership of
// it on success.
func mapOpenFile(file *os.File) (*mapping, error) {
	var stat unix.Stat_t
	if err := unix.Fstat(int(file.Fd()), &stat); err != nil {
		return nil, fmt.Errorf("stating %s: %w", file.Name(), err)
	}
	if stat.Size <= 0 {
		return nil, fmt.Errorf("%s is empty", file.Name())
	}
	if int64(int(stat.Size)) != stat.Size {
		return nil, fmt.Errorf("%s is too large to map (%d bytes)", file.Name(), stat.Size)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(stat.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("memory-mapping %s: %w", file.Name(), err)
	}

	m := &mapping{file: file, data: data}
	m.refs.Store(1)
	return m, nil
}

func (m *mapping) retain() {
	if m.refs.Add(1) <= 1 {
		panic("rulestore: retain of a released mapping")
	}
}

// release drops one reference and unmaps on the last one.
func (m *mapping) release() error {
	remaining := m.refs.Add(-1)
	if remaining > 0 {
		return nil
	}
	if remaining < 0 {
		panic("rulestore: mapping released more times than retained")
	}

	var firstErr error
	if err := unix.Munmap(m.data); err != nil {
		firstErr = fmt.Errorf("unmapping %s: %w", m.file.Name(), err)
	}
	if err := m.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing %s: %w", m.file.Name(), err)
	}
	m.data = nil
	return firstErr
}
