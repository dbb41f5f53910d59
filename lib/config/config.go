// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/rulestore/lib/rulestore"
)

// EnvironmentVariable names the variable [Load] reads the config
// file path from.
const EnvironmentVariable = "RULESTORE_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the configuration for a rule list store.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Store configures the artifact directory and compile queue.
	Store StoreConfig `yaml:"store"`

	// Log configures command logging.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Store *StoreConfig `yaml:"store,omitempty"`
	Log   *LogConfig   `yaml:"log,omitempty"`
}

// StoreConfig configures [rulestore.Options].
type StoreConfig struct {
	// Directory holds one artifact file per rule list.
	// Default: the platform cache directory's rulestore subdirectory.
	Directory string `yaml:"directory"`

	// CompileConcurrency bounds concurrent compiles. Zero means one
	// per available CPU.
	CompileConcurrency int `yaml:"compile_concurrency"`
}

// LogConfig configures the command logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info.
	Level string `yaml:"level"`

	// Format is one of auto, text, json. Auto picks text when stderr
	// is a terminal and JSON otherwise. Default: auto.
	Format string `yaml:"format"`
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "text", "json"}
)

// Default returns the default configuration. It is used as the base
// before a config file is loaded, and on its own when no file is
// given.
func Default() *Config {
	directory, _ := rulestore.DefaultDirectory()
	return &Config{
		Environment: Development,
		Store: StoreConfig{
			Directory: directory,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load loads configuration from the file named by RULESTORE_CONFIG.
// It fails when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your rulestore.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applies the
// matching environment overrides, expands variables, and validates
// the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &ConfigOverrides{
				Log: &LogConfig{Format: "json"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Store != nil {
		if overrides.Store.Directory != "" {
			c.Store.Directory = overrides.Store.Directory
		}
		if overrides.Store.CompileConcurrency != 0 {
			c.Store.CompileConcurrency = overrides.Store.CompileConcurrency
		}
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
		if overrides.Log.Format != "" {
			c.Log.Format = overrides.Log.Format
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	cacheDirectory, _ := os.UserCacheDir()
	vars := map[string]string{
		"HOME":            os.Getenv("HOME"),
		"RULESTORE_CACHE": cacheDirectory,
	}
	c.Store.Directory = expandVars(c.Store.Directory, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, preferring
// vars over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Store.Directory == "" {
		errs = append(errs, fmt.Errorf("store.directory is required"))
	}

	if c.Store.CompileConcurrency < 0 {
		errs = append(errs, fmt.Errorf("store.compile_concurrency must not be negative, got %d", c.Store.CompileConcurrency))
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %s", strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %s", strings.Join(logFormats, ", ")))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel converts Level to a slog.Level. Validate guarantees the
// conversion succeeds for a loaded config.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// StoreOptions returns the [rulestore.Options] this configuration
// describes. Compiler, Dispatcher, and Logger are left for the caller.
func (c *Config) StoreOptions() rulestore.Options {
	return rulestore.Options{
		Directory:          c.Store.Directory,
		CompileConcurrency: c.Store.CompileConcurrency,
	}
}
