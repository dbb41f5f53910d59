// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the rule
// list store and its command line tool.
//
// Configuration is loaded from a single file specified by either the
// RULESTORE_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no automatic file search. A command
// run with neither uses [Default].
//
// The file may contain environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. Production defaults to JSON logs.
//
// ${HOME}, ${RULESTORE_CACHE} (the platform cache directory), and
// ${VAR:-default} patterns are expanded in the store directory after
// loading. No environment variable overrides a config value.
package config
