// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"testing"
)

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }
func (e codedError) ExitCode() int { return e.code }

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("plain"), 1},
		{"coded", codedError{code: 3}, 3},
		{"wrapped coded", fmt.Errorf("context: %w", codedError{code: 4}), 4},
		{"zero code", codedError{code: 0}, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Status(test.err); got != test.want {
				t.Errorf("Status(%v) = %d, want %d", test.err, got, test.want)
			}
		})
	}
}
