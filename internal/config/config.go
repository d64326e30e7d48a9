// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package config loads the deck player configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the player configuration.
type Config struct {
	LogLevel string   `toml:"log_level"`
	TimeUnit Duration `toml:"time_unit"` // duration of one timer unit
	Deck     string   `toml:"deck"`      // default deck file
	Store    Store    `toml:"store"`
}

// Store selects the variable store.
type Store struct {
	Kind    string `toml:"kind"`    // "memory" or "sqlite"
	Path    string `toml:"path"`    // database file for sqlite
	Session string `toml:"session"` // resume this session id, sqlite only
}

// Duration is a time.Duration written as a string ("100ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists. The
// player prints diagnostics itself, so the log only carries errors.
func Default() Config {
	return Config{
		LogLevel: "error",
		TimeUnit: Duration{100 * time.Millisecond},
		Store:    Store{Kind: StoreMemory},
	}
}

// DefaultPath returns $WMLRT_CONFIG, or config.toml in the user's
// configuration directory.
func DefaultPath() string {
	if p := os.Getenv("WMLRT_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wmlrt", "config.toml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if c.TimeUnit.Duration <= 0 {
		return errors.New("time_unit must be positive")
	}
	return nil
}
