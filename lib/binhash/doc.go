// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash fingerprints compiled rule list artifacts.
//
// A fingerprint is the BLAKE3 keyed hash of an artifact file's bytes
// under a fixed domain key, so two hosts can confirm they hold the
// same compiled artifact without comparing files. Fingerprints are
// reported by the rulestore command and are stable for as long as the
// compiler output is.
//
//   - [HashBytes] -- fingerprints a mapped artifact
//   - [HashFile] -- streams a file through the same hash
//   - [FormatDigest] / [ParseDigest] -- canonical hex form
//   - [FormatRef] -- short "crl-" reference for display
//
// This package has no dependencies on other rulestore packages.
package binhash
