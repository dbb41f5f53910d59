// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the rulestore
// binary: a [Command] tree with pflag-based flag parsing, structured
// help, typo suggestions for unknown commands and flags, categorized
// [ToolError] values, --json output, and the command logger.
package cli
