// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for CLI command operations.
//
// Format "text" and "json" select the handler directly. Any other
// format (normally "auto") uses slog.TextHandler when w is a terminal
// and slog.JSONHandler when it is piped or redirected, so scripts and
// log collectors get machine-parseable output.
func NewCommandLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch {
	case format == "json":
		handler = slog.NewJSONHandler(w, options)
	case format == "text" || isTerminal(w):
		handler = slog.NewTextHandler(w, options)
	default:
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
