// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

import (
	"fmt"
	"log/slog"
	"os"
)

// sinkStage tracks which segment the compiler is currently writing.
// Stages only move forward.
type sinkStage int

const (
	stageActions sinkStage = iota
	stageFiltersWithoutDomains
	stageFiltersWithDomain
	stageDomainFilters
	stageFinalized
	stageAborted
)

var stageNames = [...]string{
	stageActions:               "actions",
	stageFiltersWithoutDomains: "filters-without-domains bytecode",
	stageFiltersWithDomain:     "filters-with-domain bytecode",
	stageDomainFilters:         "domain-filters bytecode",
	stageFinalized:             "finalize",
	stageAborted:               "abort",
}

// Sink receives a compiler's output and turns it into one published
// artifact file. A fresh Sink is handed to [Compiler.Compile] for
// every compile.
//
// The compiler must write segments in on-disk order: all actions,
// then filters-without-domains bytecode, then filters-with-domain
// bytecode, then domain-filters bytecode, and finally call Finalize
// exactly once. Each Write method may be called any number of times
// (including zero); calls for the same segment accumulate. Writing a
// segment after a later one has started, or calling anything after
// Finalize, is a compiler bug and panics.
//
// Write methods never return errors. The first I/O failure is
// remembered and every later write is skipped; the failure is
// reported once, by Finalize.
type Sink struct {
	identifier    string
	temporaryPath string
	finalPath     string
	file          *os.File
	logger        *slog.Logger

	stage    sinkStage
	metadata Metadata
	offset   int64
	fileErr  error

	artifact  *Artifact
	published bool
}

// newSink creates the temporary file in directory and reserves space
// for the header.
func newSink(directory, finalPath, identifier string, logger *slog.Logger) (*Sink, error) {
	file, err := os.CreateTemp(directory, temporaryFilePattern)
	if err != nil {
		return nil, fmt.Errorf("creating temporary artifact file: %w", err)
	}

	sink := &Sink{
		identifier:    identifier,
		temporaryPath: file.Name(),
		finalPath:     finalPath,
		file:          file,
		logger:        logger,
		metadata:      Metadata{Version: CurrentVersion},
	}

	// Placeholder header: segments must land at their final offsets.
	// Finalize overwrites it with the real sizes.
	var placeholder [HeaderSize]byte
	sink.write(placeholder[:])
	if sink.fileErr != nil {
		sink.Abort()
		return nil, fmt.Errorf("writing placeholder header: %w", sink.fileErr)
	}
	return sink, nil
}

// WriteActions appends to the actions segment.
func (s *Sink) WriteActions(data []byte) {
	s.advance(stageActions)
	s.metadata.ActionsSize += uint64(len(data))
	s.write(data)
}

// WriteFiltersWithoutDomainsBytecode appends to the
// filters-without-domains segment.
func (s *Sink) WriteFiltersWithoutDomainsBytecode(data []byte) {
	s.advance(stageFiltersWithoutDomains)
	s.metadata.FiltersWithoutDomainsSize += uint64(len(data))
	s.write(data)
}

// WriteFiltersWithDomainBytecode appends to the filters-with-domain
// segment.
func (s *Sink) WriteFiltersWithDomainBytecode(data []byte) {
	s.advance(stageFiltersWithDomain)
	s.metadata.FiltersWithDomainSize += uint64(len(data))
	s.write(data)
}

// WriteDomainFiltersBytecode appends to the domain-filters segment.
func (s *Sink) WriteDomainFiltersBytecode(data []byte) {
	s.advance(stageDomainFilters)
	s.metadata.DomainFiltersSize += uint64(len(data))
	s.write(data)
}

// Finalize writes the real header over the placeholder and maps the
// completed file. The file stays at its temporary path: the store
// renames it into place only once the compiler has returned without
// error. On failure the temporary file is removed.
func (s *Sink) Finalize() error {
	s.advance(stageFinalized)

	artifact, err := s.finalize()
	if err != nil {
		s.discard()
		s.fileErr = err
		return err
	}
	s.artifact = artifact
	return nil
}

func (s *Sink) finalize() (*Artifact, error) {
	if s.fileErr != nil {
		return nil, fmt.Errorf("writing artifact: %w", s.fileErr)
	}

	if _, err := s.file.WriteAt(s.metadata.Encode(), 0); err != nil {
		return nil, fmt.Errorf("writing artifact header: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return nil, fmt.Errorf("syncing artifact: %w", err)
	}
	if err := s.file.Close(); err != nil {
		s.file = nil
		return nil, fmt.Errorf("closing artifact: %w", err)
	}
	s.file = nil

	// Map through a fresh read-only descriptor so the mapping (and
	// anything shared from it) carries no write access.
	m, err := mapFile(s.temporaryPath)
	if err != nil {
		return nil, fmt.Errorf("mapping compiled artifact: %w", err)
	}
	artifact, err := newArtifact(s.identifier, m)
	if err != nil {
		m.release()
		// %v, not %w: the validation error carries a lookup kind,
		// and this is a compile failure.
		return nil, fmt.Errorf("validating compiled artifact: %v", err)
	}
	return artifact, nil
}

// publish renames the finalized file to the identifier's permanent
// path, replacing any earlier artifact there. The mapping follows the
// file, so the artifact stays valid across the rename.
func (s *Sink) publish() (*Artifact, error) {
	artifact, err := s.result()
	if err != nil {
		return nil, err
	}
	if err := os.Rename(s.temporaryPath, s.finalPath); err != nil {
		return nil, fmt.Errorf("publishing artifact to %s: %w", s.finalPath, err)
	}
	s.temporaryPath = ""
	s.published = true
	return artifact, nil
}

// Abort discards everything the sink produced unless it has been
// published: the mapping made by Finalize is released and the
// temporary file removed. The store defers it around every compile.
func (s *Sink) Abort() {
	if s.published {
		return
	}
	if s.artifact != nil {
		s.artifact.Close()
		s.artifact = nil
	}
	s.stage = stageAborted
	s.discard()
}

// Metadata returns the header as accumulated so far.
func (s *Sink) Metadata() Metadata { return s.metadata }

// result returns the finalized artifact, or an error if Finalize
// failed or was never called.
func (s *Sink) result() (*Artifact, error) {
	switch {
	case s.artifact != nil:
		return s.artifact, nil
	case s.stage == stageAborted:
		return nil, fmt.Errorf("compile aborted")
	case s.stage != stageFinalized:
		return nil, fmt.Errorf("compiler returned without calling Finalize")
	default:
		return nil, s.fileErr
	}
}

// advance moves the sink to stage, panicking on out-of-order use.
func (s *Sink) advance(stage sinkStage) {
	if stage < s.stage || s.stage >= stageFinalized {
		panic(fmt.Sprintf("rulestore: compiler wrote %s after %s", stageNames[stage], stageNames[s.stage]))
	}
	s.stage = stage
}

func (s *Sink) write(data []byte) {
	if s.fileErr != nil || len(data) == 0 {
		return
	}
	written, err := s.file.Write(data)
	s.offset += int64(written)
	if err != nil {
		s.fileErr = fmt.Errorf("at offset %d: %w", s.offset, err)
	}
}

func (s *Sink) discard() {
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	if s.temporaryPath == "" {
		return
	}
	if err := os.Remove(s.temporaryPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("removing temporary artifact file failed",
			"identifier", s.identifier,
			"path", s.temporaryPath,
			"error", err,
		)
	}
	s.temporaryPath = ""
}
