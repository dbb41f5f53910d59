// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/rulestore/cmd/rulestore/cli"
	"github.com/bureau-foundation/rulestore/lib/config"
	"github.com/bureau-foundation/rulestore/lib/rulecompiler"
	"github.com/bureau-foundation/rulestore/lib/rulestore"
)

// storeParams holds the flags shared by every store command.
type storeParams struct {
	cli.JSONOutput
	ConfigPath string
	Directory  string
	LogLevel   string
}

// flagSet returns a fresh flag set for name bound to p.
func (p *storeParams) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&p.ConfigPath, "config", "", "config file (default: $"+config.EnvironmentVariable+", else built-in defaults)")
	flagSet.StringVar(&p.Directory, "directory", "", "artifact directory (overrides store.directory)")
	flagSet.StringVar(&p.LogLevel, "log-level", "", "debug, info, warn, or error (overrides log.level)")
	p.JSONOutput.AddFlag(flagSet)
	return flagSet
}

// loadConfig resolves the configuration for one command run.
func (p *storeParams) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.ConfigPath != "":
		cfg, err = config.LoadFile(p.ConfigPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.Categorize(cli.CategoryNotFound, err)
		}
		return nil, cli.Categorize(cli.CategoryValidation, err)
	}

	if p.Directory != "" {
		cfg.Store.Directory = p.Directory
	}
	if p.LogLevel != "" {
		cfg.Log.Level = p.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Categorize(cli.CategoryValidation, err)
	}
	return cfg, nil
}

// open loads the configuration and opens the store with the
// reference compiler. The caller must Close the store.
func (p *storeParams) open(streams IO) (*rulestore.Store, error) {
	cfg, err := p.loadConfig()
	if err != nil {
		return nil, err
	}

	options := cfg.StoreOptions()
	options.Compiler = rulecompiler.New()
	options.Logger = cli.NewCommandLogger(streams.Stderr, cfg.Log.SlogLevel(), cfg.Log.Format)

	store, err := rulestore.Open(options)
	if err != nil {
		return nil, cli.Categorize(cli.CategoryInternal, err)
	}
	return store, nil
}

// storeError categorizes an error delivered by the store.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	kind, _ := rulestore.KindOf(err)
	switch {
	case errors.Is(err, rulecompiler.ErrInvalidSource), errors.Is(err, rulestore.ErrInvalidIdentifier):
		return cli.Categorize(cli.CategoryValidation, err)
	case kind == rulestore.VersionMismatch:
		return cli.Categorize(cli.CategoryConflict, err)
	case errors.Is(err, fs.ErrNotExist):
		return cli.Categorize(cli.CategoryNotFound, err)
	default:
		return cli.Categorize(cli.CategoryInternal, err)
	}
}

// requireArgs returns a validation error unless args has exactly n
// entries.
func requireArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return cli.Validation("expected %d argument(s), got %d\n\nUsage: %s", n, len(args), usage)
	}
	return nil
}
