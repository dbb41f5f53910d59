// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build darwin || linux

package rulestore

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// SharedMemory is a read-only handle to an artifact's bytes that can
// be passed to another process (for example with SCM_RIGHTS over a
// Unix socket) and mapped there without copying. The transport is up
// to the caller.
type SharedMemory struct {
	// FD is a read-only, close-on-exec file descriptor for the
	// artifact file.
	FD int

	// Size is the artifact's byte length.
	Size int
}

// Share returns a SharedMemory for the artifact. The descriptor is a
// duplicate of the one backing the mapping; the caller owns it and
// must close it (directly or via [MapSharedMemory]) once it has been
// handed off.
func (a *Artifact) Share() (*SharedMemory, error) {
	if a.closed.Load() {
		return nil, fmt.Errorf("sharing %q: artifact is closed", a.identifier)
	}
	fd, err := unix.FcntlInt(a.mapping.file.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("duplicating descriptor for %q: %w", a.identifier, err)
	}
	return &SharedMemory{FD: fd, Size: len(a.mapping.data)}, nil
}

// Close closes the descriptor without mapping it.
func (shared *SharedMemory) Close() error {
	if shared.FD < 0 {
		return nil
	}
	err := unix.Close(shared.FD)
	shared.FD = -1
	return err
}

// MapSharedMemory maps a descriptor received from [Artifact.Share]
// and validates it exactly as [Store.Lookup] validates a file. It
// takes ownership of the descriptor whether or not it succeeds.
//
// A mapped size different from shared.Size means the sender and
// receiver disagree about the artifact, and is reported as
// LookupFailed.
func MapSharedMemory(identifier string, shared *SharedMemory) (*Artifact, error) {
	if shared.FD < 0 {
		return nil, newError(LookupFailed, identifier, "shared memory descriptor is closed")
	}
	file := os.NewFile(uintptr(shared.FD), "shared:"+identifier)
	shared.FD = -1

	m, err := mapOpenFile(file)
	if err != nil {
		file.Close()
		return nil, &Error{Kind: LookupFailed, Identifier: identifier, Err: err}
	}
	if len(m.data) != shared.Size {
		m.release()
		return nil, newError(LookupFailed, identifier,
			"shared memory is %d bytes, sender declared %d", len(m.data), shared.Size)
	}

	artifact, err := newArtifact(identifier, m)
	if err != nil {
		m.release()
		return nil, err
	}
	return artifact, nil
}
