// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulecompiler

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bureau-foundation/rulestore/lib/rulestore"
)

const sampleSource = `{
	"actions": [
		{"type": "block"},
		{"type": "css-display-none", "selector": ".ad"}
	],
	"filters": [
		{"url-filter": "tracker\\.js$", "action": 0},
		{"url-filter": ".*", "action": 1, "if-domain": ["*Example.com", "b.org"]},
		{"url-filter": "ads", "action": 0, "url-filter-is-case-sensitive": true, "unless-domain": ["b.org"]},
		{"url-filter": "^https?://", "action": 0}
	]
}`

func newTestStore(t *testing.T) *rulestore.Store {
	t.Helper()
	store, err := rulestore.Open(rulestore.Options{
		Directory: filepath.Join(t.TempDir(), "rules"),
		Compiler:  New(),
		Logger:    slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

func TestCompileEmptyRuleList(t *testing.T) {
	store := newTestStore(t)

	artifact, err := store.CompileSync("empty", `{"actions": [], "filters": []}`)
	if err != nil {
		t.Fatalf("CompileSync failed: %v", err)
	}
	defer artifact.Close()

	if artifact.Size() != rulestore.HeaderSize {
		t.Errorf("Size() = %d, want %d", artifact.Size(), rulestore.HeaderSize)
	}
	for _, role := range rulestore.SegmentRoles() {
		if size := artifact.Metadata().Size(role); size != 0 {
			t.Errorf("%s size = %d, want 0", role, size)
		}
	}

	path, err := store.Path("empty")
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat artifact: %v", err)
	}
	if info.Size() != rulestore.HeaderSize {
		t.Errorf("file size = %d, want %d", info.Size(), rulestore.HeaderSize)
	}
}

func TestCompileRoundTrip(t *testing.T) {
	store := newTestStore(t)

	compiled, err := store.CompileSync("sample", sampleSource)
	if err != nil {
		t.Fatalf("CompileSync failed: %v", err)
	}
	compiled.Close()

	artifact, err := store.LookupSync("sample")
	if err != nil {
		t.Fatalf("LookupSync failed: %v", err)
	}
	defer artifact.Close()

	for _, role := range rulestore.SegmentRoles() {
		if artifact.Metadata().Size(role) == 0 {
			t.Errorf("%s segment is empty", role)
		}
	}

	got, err := Decompile(artifact)
	if err != nil {
		t.Fatalf("Decompile failed: %v", err)
	}
	want := &Source{
		Actions: []Action{
			{Type: ActionBlock},
			{Type: ActionCSSDisplayNone, Selector: ".ad"},
		},
		Filters: []Filter{
			{URLFilter: `tracker\.js$`, Action: 0},
			{URLFilter: `^https?://`, Action: 0},
			{URLFilter: ".*", Action: 1, IfDomain: []string{"*example.com", "b.org"}},
			{URLFilter: "ads", Action: 0, CaseSensitive: true, UnlessDomain: []string{"b.org"}},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decompile =\n%+v\nwant\n%+v", got, want)
	}

	domains, err := DecodeDomains(artifact.DomainFiltersBytecode())
	if err != nil {
		t.Fatalf("DecodeDomains failed: %v", err)
	}
	if !reflect.DeepEqual(domains, []string{"*example.com", "b.org"}) {
		t.Errorf("domain table = %v", domains)
	}
}

func TestCompileWithoutDomainFilters(t *testing.T) {
	store := newTestStore(t)

	artifact, err := store.CompileSync("plain", `{
		"actions": [{"type": "make-https"}],
		"filters": [{"url-filter": "^http://", "action": 0}]
	}`)
	if err != nil {
		t.Fatalf("CompileSync failed: %v", err)
	}
	defer artifact.Close()

	metadata := artifact.Metadata()
	if metadata.ActionsSize == 0 || metadata.FiltersWithoutDomainsSize == 0 {
		t.Errorf("expected non-empty actions and plain filters, got %+v", metadata)
	}
	if metadata.FiltersWithDomainSize != 0 || metadata.DomainFiltersSize != 0 {
		t.Errorf("expected empty domain segments, got %+v", metadata)
	}
}

func TestCompileRejectedSourceLeavesPriorArtifact(t *testing.T) {
	store := newTestStore(t)

	first, err := store.CompileSync("rules", sampleSource)
	if err != nil {
		t.Fatalf("first CompileSync failed: %v", err)
	}
	firstSize := first.Size()
	first.Close()

	_, err = store.CompileSync("rules", `{"actions": [], "filters": [{"url-filter": "a", "action": 0}]}`)
	if !errors.Is(err, rulestore.CompileFailed) {
		t.Fatalf("CompileSync error = %v, want CompileFailed", err)
	}
	if !errors.Is(err, ErrInvalidSource) {
		t.Errorf("CompileSync error = %v, want it to wrap ErrInvalidSource", err)
	}

	artifact, err := store.LookupSync("rules")
	if err != nil {
		t.Fatalf("LookupSync after rejected compile failed: %v", err)
	}
	defer artifact.Close()
	if artifact.Size() != firstSize {
		t.Errorf("Size() = %d, want prior %d", artifact.Size(), firstSize)
	}

	entries, err := os.ReadDir(store.Directory())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the published artifact", len(entries))
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	source, err := Parse(sampleSource)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	first, err := Encode(source)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := Encode(source)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("encoding the same source twice produced different segments")
	}
}

func TestDecodeFiltersDetectsCorruption(t *testing.T) {
	source, err := Parse(sampleSource)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	segments, err := Encode(source)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	for _, test := range []struct {
		name       string
		segment    []byte
		withDomain bool
	}{
		{"without domains", segments.FiltersWithoutDomains, false},
		{"with domain", segments.FiltersWithDomain, true},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := DecodeFilters(test.segment, test.withDomain); err != nil {
				t.Fatalf("DecodeFilters on intact segment failed: %v", err)
			}
			for offset := range test.segment {
				damaged := append([]byte(nil), test.segment...)
				damaged[offset] ^= 0x01
				if _, err := DecodeFilters(damaged, test.withDomain); err == nil {
					t.Fatalf("flipping a bit at offset %d went undetected", offset)
				}
			}
			if _, err := DecodeFilters(test.segment[:len(test.segment)-1], test.withDomain); err == nil {
				t.Error("truncated segment decoded without error")
			}
			extended := append(append([]byte(nil), test.segment...), 0)
			if _, err := DecodeFilters(extended, test.withDomain); err == nil {
				t.Error("segment with trailing byte decoded without error")
			}
		})
	}
}

func TestDecodeDomainsDetectsCorruption(t *testing.T) {
	segment := encodeDomains([]string{"a.com", "b.org"})
	if _, err := DecodeDomains(segment); err != nil {
		t.Fatalf("DecodeDomains on intact table failed: %v", err)
	}
	for offset := range segment {
		damaged := append([]byte(nil), segment...)
		damaged[offset] ^= 0x80
		if _, err := DecodeDomains(damaged); err == nil {
			t.Fatalf("flipping a bit at offset %d went undetected", offset)
		}
	}
}

func TestDecodeEmptySegments(t *testing.T) {
	actions, err := DecodeActions(nil)
	if err != nil || actions != nil {
		t.Errorf("DecodeActions(nil) = %v, %v", actions, err)
	}
	filters, err := DecodeFilters(nil, true)
	if err != nil || filters != nil {
		t.Errorf("DecodeFilters(nil) = %v, %v", filters, err)
	}
	domains, err := DecodeDomains(nil)
	if err != nil || domains != nil {
		t.Errorf("DecodeDomains(nil) = %v, %v", domains, err)
	}
}

func TestDecodeActionsRejectsGarbage(t *testing.T) {
	if _, err := DecodeActions([]byte{0xff, 0x00}); err == nil {
		t.Error("DecodeActions accepted malformed CBOR")
	}
}
