// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"iter"
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestionDistance is the largest edit distance still offered as
// a "did you mean". Three edits covers a transposition plus a dropped
// or doubled character.
const maxSuggestionDistance = 3

// nearest returns the candidate closest to input by edit distance, or
// "" if none is within maxSuggestionDistance. Ties go to the candidate
// seen first, so the result follows the caller's ordering.
func nearest(input string, candidates iter.Seq[string]) string {
	best, bestDistance := "", maxSuggestionDistance+1
	for candidate := range candidates {
		if distance := levenshtein(input, candidate); distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// suggestCommand returns the subcommand name closest to unknown, or "".
func suggestCommand(unknown string, commands []*Command) string {
	return nearest(unknown, func(yield func(string) bool) {
		for _, command := range commands {
			if !yield(command.Name) {
				return
			}
		}
	})
}

// suggestFlag finds the first flag in args that flagSet does not
// define and returns the closest defined long flag as "--name", or ""
// when that flag has no close match. Arguments after "--" are
// positional and never inspected.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	unknown, found := firstUnknownFlag(args, flagSet)
	if !found {
		return ""
	}
	suggestion := nearest(unknown, func(yield func(string) bool) {
		stopped := false
		flagSet.VisitAll(func(f *pflag.Flag) {
			if !stopped && !yield(f.Name) {
				stopped = true
			}
		})
	})
	if suggestion == "" {
		return ""
	}
	return "--" + suggestion
}

// firstUnknownFlag returns the bare name of the first flag argument
// that is neither a long flag nor a single-letter shorthand of
// flagSet.
func firstUnknownFlag(args []string, flagSet *pflag.FlagSet) (string, bool) {
	for _, arg := range args {
		if arg == "--" {
			return "", false
		}
		if len(arg) < 2 || arg[0] != '-' {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if flagSet.Lookup(name) != nil {
			continue
		}
		if len(name) == 1 && flagSet.ShorthandLookup(name) != nil {
			continue
		}
		return name, true
	}
	return "", false
}

// levenshtein counts the single-rune insertions, deletions, and
// substitutions needed to turn a into b.
func levenshtein(a, b string) int {
	source, target := []rune(a), []rune(b)
	if len(source) < len(target) {
		source, target = target, source
	}
	if len(target) == 0 {
		return len(source)
	}

	// Two rows of the edit matrix, indexed by position in target.
	above := make([]int, len(target)+1)
	row := make([]int, len(target)+1)
	for column := range above {
		above[column] = column
	}
	for line, sourceRune := range source {
		row[0] = line + 1
		for column, targetRune := range target {
			substitution := above[column]
			if sourceRune != targetRune {
				substitution++
			}
			row[column+1] = min(substitution, above[column+1]+1, row[column]+1)
		}
		above, row = row, above
	}
	return above[len(target)]
}
