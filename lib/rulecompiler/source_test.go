// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulecompiler

import (
	"strings"
	"testing"
)

func TestParseAcceptsJSONC(t *testing.T) {
	source, err := Parse(`{
		// Block the usual suspects.
		"actions": [
			{"type": "block"},
			{"type": "css-display-none", "selector": ".banner"},
		],
		"filters": [
			{"url-filter": "ads\\.js$", "action": 0},
			/* Hide banners on one site. */
			{"url-filter": ".*", "action": 1, "if-domain": ["example.com"]},
		],
	}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(source.Actions) != 2 || len(source.Filters) != 2 {
		t.Fatalf("parsed %d actions and %d filters, want 2 and 2", len(source.Actions), len(source.Filters))
	}
	if source.Actions[1].Selector != ".banner" {
		t.Errorf("selector = %q, want .banner", source.Actions[1].Selector)
	}
	if got := source.Filters[1].IfDomain; len(got) != 1 || got[0] != "example.com" {
		t.Errorf("if-domain = %v, want [example.com]", got)
	}
}

func TestParseRejectsInvalidSource(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "empty text",
			source: "",
			want:   "parsing rule list",
		},
		{
			name:   "not an object",
			source: `["block"]`,
			want:   "parsing rule list",
		},
		{
			name:   "unknown field",
			source: `{"actions": [], "filters": [], "rules": []}`,
			want:   "unknown field",
		},
		{
			name:   "trailing data",
			source: `{"actions": [], "filters": []} {}`,
			want:   "unexpected data",
		},
		{
			name:   "unknown action type",
			source: `{"actions": [{"type": "explode"}], "filters": []}`,
			want:   `action 0: unknown type "explode"`,
		},
		{
			name:   "missing action type",
			source: `{"actions": [{}], "filters": []}`,
			want:   "action 0: missing type",
		},
		{
			name:   "css-display-none without selector",
			source: `{"actions": [{"type": "css-display-none"}], "filters": []}`,
			want:   "requires a selector",
		},
		{
			name:   "selector on block",
			source: `{"actions": [{"type": "block", "selector": "div"}], "filters": []}`,
			want:   "selector is only valid",
		},
		{
			name:   "empty url-filter",
			source: `{"actions": [{"type": "block"}], "filters": [{"url-filter": "", "action": 0}]}`,
			want:   "filter 0: url-filter is empty",
		},
		{
			name:   "invalid url-filter",
			source: `{"actions": [{"type": "block"}], "filters": [{"url-filter": "(", "action": 0}]}`,
			want:   "filter 0: url-filter",
		},
		{
			name:   "action index out of range",
			source: `{"actions": [{"type": "block"}], "filters": [{"url-filter": "a", "action": 1}]}`,
			want:   "action index 1 out of range (1 actions)",
		},
		{
			name:   "negative action index",
			source: `{"actions": [{"type": "block"}], "filters": [{"url-filter": "a", "action": -1}]}`,
			want:   "action index -1 out of range",
		},
		{
			name:   "both domain lists",
			source: `{"actions": [{"type": "block"}], "filters": [{"url-filter": "a", "action": 0, "if-domain": ["a.com"], "unless-domain": ["b.com"]}]}`,
			want:   "mutually exclusive",
		},
		{
			name:   "empty domain",
			source: `{"actions": [{"type": "block"}], "filters": [{"url-filter": "a", "action": 0, "if-domain": ["*"]}]}`,
			want:   "empty domain",
		},
		{
			name:   "domain with path",
			source: `{"actions": [{"type": "block"}], "filters": [{"url-filter": "a", "action": 0, "unless-domain": ["a.com/x"]}]}`,
			want:   "not valid in a host name",
		},
		{
			name:   "second filter reported by index",
			source: `{"actions": [{"type": "block"}], "filters": [{"url-filter": "a", "action": 0}, {"url-filter": "", "action": 0}]}`,
			want:   "filter 1:",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.source)
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %q, want it to contain %q", err, test.want)
			}
		})
	}
}

func TestDomainTable(t *testing.T) {
	filters := []Filter{
		{IfDomain: []string{"b.org", "*Example.com"}},
		{UnlessDomain: []string{"B.ORG", "a.net"}},
		{},
	}
	table := domainTable(filters)
	want := []string{"*example.com", "a.net", "b.org"}
	if strings.Join(table, ",") != strings.Join(want, ",") {
		t.Fatalf("domainTable = %v, want %v", table, want)
	}

	indices := domainIndices(table, []string{"B.org", "*example.COM"})
	if len(indices) != 2 || indices[0] != 2 || indices[1] != 0 {
		t.Errorf("domainIndices = %v, want [2 0]", indices)
	}
}
