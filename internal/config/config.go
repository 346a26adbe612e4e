// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package config

// Config is the root application configuration, loaded from defaults, an
// optional YAML file, and environment variables in that order of precedence.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Import   ImportConfig   `koanf:"import"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig configures the DuckDB session store.
type DatabaseConfig struct {
	// Path is the DuckDB database file. The parent directory is created
	// on first open.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB's memory use, e.g. "2GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads limits DuckDB's worker threads. 0 means use all cores.
	Threads int `koanf:"threads"`
}

// ImportConfig configures import runs.
type ImportConfig struct {
	// Format is the default source format: auto, tsv, json, or sqlite.
	Format string `koanf:"format"`

	// DryRun validates and reconstructs without writing to the store.
	DryRun bool `koanf:"dry_run"`

	// Force bypasses the run ledger and re-imports known files.
	Force bool `koanf:"force"`

	// LedgerPath is the BadgerDB directory remembering imported files.
	// Empty disables re-import detection.
	LedgerPath string `koanf:"ledger_path"`

	// LockPath is the lock file guarding against concurrent imports.
	LockPath string `koanf:"lock_path"`
}

// LoggingConfig configures the zerolog facade.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
