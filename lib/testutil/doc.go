// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for asynchronous,
// callback-based APIs.
//
// [Capture] returns a completion callback together with the channel
// it reports to, and [RequireReceive] reads that channel with a
// timeout so a callback that never fires fails the test instead of
// hanging it:
//
//	callback, results := testutil.Capture[*rulestore.Artifact]()
//	store.Lookup("rules-a", callback)
//	outcome := testutil.RequireReceive(t, results, 5*time.Second, "lookup rules-a")
//
// [UniqueID] generates distinct identifiers for tests that share a
// directory or run in parallel.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Bureau-internal dependencies.
package testutil
