// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rulecompiler is a small reference compiler for content rule
// lists. It implements [rulestore.Compiler] so the store, its command
// line tool, and its tests have a concrete compiler to drive; the
// store itself treats any compiler as a black box.
//
// Source is a JSON object (JSONC comments and trailing commas are
// accepted) holding an action table and a list of filters that refer
// to actions by index:
//
//	{
//	  "actions": [
//	    {"type": "block"},
//	    {"type": "css-display-none", "selector": ".ad"}
//	  ],
//	  "filters": [
//	    {"url-filter": "tracker\\.js$", "action": 0},
//	    {"url-filter": ".*", "action": 1, "if-domain": ["*example.com"]}
//	  ]
//	}
//
// Output segments:
//
//   - actions: the CBOR (lib/codec) encoding of the action table.
//   - filters-without-domains: one binarycodec record per filter with
//     no domain condition.
//   - filters-with-domain: one record per filter with an if-domain or
//     unless-domain list; each refers to entries of the domain table.
//   - domain-filters: the sorted, deduplicated domain table.
//
// Each filter segment is a count, the records, and a trailing
// binarycodec checksum. A segment with nothing to hold is left empty,
// so an empty rule list compiles to a header-only artifact. The
// "bytecode" is a flat record list, not a DFA: matching semantics are
// outside this package.
package rulecompiler
