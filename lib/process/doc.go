// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the entrypoint error handler shared by the
// rulestore binaries.
//
// [Fatal] prints "error: <message>" to stderr and exits. The exit
// status comes from [Status]: errors carrying an ExitCode() int method
// anywhere in their chain choose their own status, everything else
// exits 1.
package process
