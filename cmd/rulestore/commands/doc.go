// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the rulestore CLI command tree: compiling
// rule lists into a store directory, looking up and inspecting the
// resulting artifacts, and removing them.
//
// Every store command accepts --config, --directory, --log-level, and
// --json. Configuration comes from --config, else RULESTORE_CONFIG,
// else built-in defaults; --directory and --log-level override the
// loaded values.
package commands
