// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/rulestore/lib/rulestore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "rulestore.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}

	want, err := rulestore.DefaultDirectory()
	if err != nil {
		t.Skipf("no user cache directory on this host: %v", err)
	}
	if cfg.Store.Directory != want {
		t.Errorf("expected store.directory=%s, got %s", want, cfg.Store.Directory)
	}

	if cfg.Store.CompileConcurrency != 0 {
		t.Errorf("expected compile_concurrency=0, got %d", cfg.Store.CompileConcurrency)
	}

	if cfg.Log.Level != "info" || cfg.Log.Format != "auto" {
		t.Errorf("expected log info/auto, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresRulestoreConfig(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when RULESTORE_CONFIG not set, got nil")
	}

	expectedMsg := "RULESTORE_CONFIG environment variable not set"
	if !strings.HasPrefix(err.Error(), expectedMsg) {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithRulestoreConfig(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging
store:
  directory: /test/rules
`)
	t.Setenv(EnvironmentVariable, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}

	if cfg.Store.Directory != "/test/rules" {
		t.Errorf("expected directory=/test/rules, got %s", cfg.Store.Directory)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, `
environment: staging

store:
  directory: /custom/rules
  compile_concurrency: 3

log:
  level: debug
  format: text
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Store.Directory != "/custom/rules" {
		t.Errorf("expected directory=/custom/rules, got %s", cfg.Store.Directory)
	}

	if cfg.Store.CompileConcurrency != 3 {
		t.Errorf("expected compile_concurrency=3, got %d", cfg.Store.CompileConcurrency)
	}

	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Log.SlogLevel())
	}

	if cfg.Log.Format != "text" {
		t.Errorf("expected format=text, got %s", cfg.Log.Format)
	}

	options := cfg.StoreOptions()
	if options.Directory != "/custom/rules" || options.CompileConcurrency != 3 {
		t.Errorf("StoreOptions() = %+v", options)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "malformed yaml",
			content: "store: [unterminated",
			want:    "parsing config",
		},
		{
			name:    "negative concurrency",
			content: "store:\n  compile_concurrency: -2\n",
			want:    "compile_concurrency must not be negative",
		},
		{
			name:    "unknown log format",
			content: "log:\n  format: xml\n",
			want:    "log.format must be one of",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	configPath := writeConfig(t, `
environment: production

store:
  directory: /default/rules

log:
  level: info

production:
  store:
    directory: /prod/rules
    compile_concurrency: 8
  log:
    level: warn
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Store.Directory != "/prod/rules" {
		t.Errorf("expected directory=/prod/rules, got %s", cfg.Store.Directory)
	}

	if cfg.Store.CompileConcurrency != 8 {
		t.Errorf("expected compile_concurrency=8, got %d", cfg.Store.CompileConcurrency)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("expected level=warn, got %s", cfg.Log.Level)
	}

	// An explicit production section replaces the built-in defaults.
	if cfg.Log.Format != "auto" {
		t.Errorf("expected format=auto, got %s", cfg.Log.Format)
	}
}

func TestProductionDefaultsToJSONLogs(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "environment: production\nstore:\n  directory: /rules\n"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected format=json, got %s", cfg.Log.Format)
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	t.Setenv("RULESTORE_DIRECTORY", "/env/rules")
	t.Setenv("RULESTORE_ENVIRONMENT", "staging")

	cfg, err := LoadFile(writeConfig(t, `
environment: development
store:
  directory: /file/rules
`))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Environment != Development {
		t.Errorf("expected environment=development from file, got %s (env vars should not override)", cfg.Environment)
	}

	if cfg.Store.Directory != "/file/rules" {
		t.Errorf("expected directory=/file/rules from file, got %s (env vars should not override)", cfg.Store.Directory)
	}
}

func TestDirectoryExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg, err := LoadFile(writeConfig(t, `
store:
  directory: ${HOME}/rules/${RULES_FLAVOR:-stable}
`))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Store.Directory != "/home/tester/rules/stable" {
		t.Errorf("expected expanded directory, got %s", cfg.Store.Directory)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/rules",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/rules",
		},
		{
			input:    "${RULESTORE_TEST_MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid environment",
			modify: func(c *Config) {
				c.Environment = "invalid"
			},
			wantErr: true,
		},
		{
			name: "empty directory",
			modify: func(c *Config) {
				c.Store.Directory = ""
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			modify: func(c *Config) {
				c.Log.Level = "loud"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Store.Directory = "/rules"
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
