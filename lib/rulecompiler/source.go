// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulecompiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
)

// ActionType names what happens when a filter matches.
type ActionType string

const (
	ActionBlock               ActionType = "block"
	ActionBlockCookies        ActionType = "block-cookies"
	ActionCSSDisplayNone      ActionType = "css-display-none"
	ActionIgnorePreviousRules ActionType = "ignore-previous-rules"
	ActionMakeHTTPS           ActionType = "make-https"
)

// Action is one entry in the action table.
type Action struct {
	Type ActionType `json:"type"`

	// Selector is the CSS selector list hidden by css-display-none.
	// Required for that type and rejected for every other.
	Selector string `json:"selector,omitempty"`
}

// Filter matches resource URLs and names the action to apply.
type Filter struct {
	// URLFilter is a regular expression over the resource URL.
	URLFilter string `json:"url-filter"`

	// CaseSensitive makes URLFilter match case-sensitively.
	CaseSensitive bool `json:"url-filter-is-case-sensitive,omitempty"`

	// Action indexes the source's action table.
	Action int `json:"action"`

	// IfDomain restricts the filter to pages on these domains.
	// A leading "*" also matches subdomains.
	IfDomain []string `json:"if-domain,omitempty"`

	// UnlessDomain excludes pages on these domains.
	UnlessDomain []string `json:"unless-domain,omitempty"`
}

// Source is a parsed rule list.
type Source struct {
	Actions []Action `json:"actions"`
	Filters []Filter `json:"filters"`
}

// Parse decodes JSON or JSONC rule list text and validates it.
// Unknown fields are rejected so misspelled keys do not silently
// drop a condition.
func Parse(text string) (*Source, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON([]byte(text))))
	decoder.DisallowUnknownFields()

	var source Source
	if err := decoder.Decode(&source); err != nil {
		return nil, fmt.Errorf("parsing rule list: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("parsing rule list: unexpected data after the top-level object")
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	return &source, nil
}

// Validate checks every action and filter, reporting the first
// problem with its index.
func (s *Source) Validate() error {
	for index, action := range s.Actions {
		if err := action.validate(); err != nil {
			return fmt.Errorf("action %d: %w", index, err)
		}
	}
	for index, filter := range s.Filters {
		if err := filter.validate(len(s.Actions)); err != nil {
			return fmt.Errorf("filter %d: %w", index, err)
		}
	}
	return nil
}

func (a Action) validate() error {
	switch a.Type {
	case ActionCSSDisplayNone:
		if strings.TrimSpace(a.Selector) == "" {
			return fmt.Errorf("css-display-none requires a selector")
		}
		return nil
	case ActionBlock, ActionBlockCookies, ActionIgnorePreviousRules, ActionMakeHTTPS:
		if a.Selector != "" {
			return fmt.Errorf("selector is only valid for css-display-none, not %s", a.Type)
		}
		return nil
	case "":
		return fmt.Errorf("missing type")
	default:
		return fmt.Errorf("unknown type %q", a.Type)
	}
}

func (f Filter) validate(actionCount int) error {
	if f.URLFilter == "" {
		return fmt.Errorf("url-filter is empty")
	}
	if _, err := regexp.Compile(f.URLFilter); err != nil {
		return fmt.Errorf("url-filter %q: %w", f.URLFilter, err)
	}
	if f.Action < 0 || f.Action >= actionCount {
		return fmt.Errorf("action index %d out of range (%d actions)", f.Action, actionCount)
	}
	if len(f.IfDomain) > 0 && len(f.UnlessDomain) > 0 {
		return fmt.Errorf("if-domain and unless-domain are mutually exclusive")
	}
	for _, domain := range append(append([]string{}, f.IfDomain...), f.UnlessDomain...) {
		if err := validateDomain(domain); err != nil {
			return err
		}
	}
	return nil
}

func validateDomain(domain string) error {
	name := strings.TrimPrefix(domain, "*")
	if name == "" {
		return fmt.Errorf("empty domain in domain list")
	}
	if strings.ContainsAny(name, "/:*? \t") {
		return fmt.Errorf("domain %q contains characters not valid in a host name", domain)
	}
	return nil
}

// hasDomainCondition reports whether the filter is gated on the page
// domain.
func (f Filter) hasDomainCondition() bool {
	return len(f.IfDomain) > 0 || len(f.UnlessDomain) > 0
}

// normalizeDomain lowercases a domain for the domain table. Matching
// is case-insensitive for host names.
func normalizeDomain(domain string) string {
	return strings.ToLower(domain)
}
