// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
)

// Fatal writes "error: err" to stderr and exits with [Status](err).
// This is the standard binary entrypoint error handler. Use it in
// main() for errors from run() where the structured logger may not be
// initialized.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(Status(err))
}

// Status returns the exit status for err: 0 for nil, the ExitCode()
// of the first error in the chain that has one, and 1 otherwise.
func Status(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code != 0 {
			return code
		}
	}
	return 1
}
