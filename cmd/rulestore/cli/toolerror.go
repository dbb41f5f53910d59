// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors so scripts can decide what
// to do (fix input, recompile, report) without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing arguments, unknown flags, a rule list the compiler
	// rejects. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced artifact or file does
	// not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryConflict indicates the operation conflicts with existing
	// state, such as an artifact written by another format version.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryInternal indicates an unexpected error: I/O failures,
	// damaged artifacts, bugs. The caller should report the error
	// rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by CLI commands.
//
// ToolError wraps an inner error, preserving the full error chain for
// errors.Is and errors.As. Use the category-specific constructors
// rather than constructing ToolError directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category is not
// included in the string; --json mode reports it separately.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode maps the category to the process exit status.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryConflict:
		return 4
	default:
		return 1
	}
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Categorize wraps err in a ToolError of the given category unless
// it already carries one.
func Categorize(category ErrorCategory, err error) error {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return err
	}
	return &ToolError{Category: category, Err: err}
}

// CategoryOf returns the category of the first ToolError in err's
// chain, or CategoryInternal if there is none.
func CategoryOf(err error) ErrorCategory {
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError.Category
	}
	return CategoryInternal
}
