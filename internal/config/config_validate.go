// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package config

import (
	"fmt"
	"regexp"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateImport(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateDatabase validates the DuckDB store configuration
func (c *Config) validateDatabase() error {
	if err := c.validateDatabasePath(); err != nil {
		return err
	}
	if err := c.validateDatabaseMaxMemory(); err != nil {
		return err
	}
	return c.validateDatabaseThreads()
}

// validateDatabasePath validates the database file path
func (c *Config) validateDatabasePath() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH must not be empty")
	}
	return nil
}

// maxMemoryPattern matches DuckDB memory limits such as "512MB" or "2GB"
var maxMemoryPattern = regexp.MustCompile(`^\d+\s*(KB|MB|GB|TB|KiB|MiB|GiB|TiB)$`)

// validateDatabaseMaxMemory validates the DuckDB memory limit
func (c *Config) validateDatabaseMaxMemory() error {
	if c.Database.MaxMemory == "" {
		return nil
	}
	if !maxMemoryPattern.MatchString(c.Database.MaxMemory) {
		return fmt.Errorf("DUCKDB_MAX_MEMORY must look like '2GB' or '512MB', got %q", c.Database.MaxMemory)
	}
	return nil
}

// validateDatabaseThreads validates the DuckDB thread count
func (c *Config) validateDatabaseThreads() error {
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be 0 (all cores) or positive")
	}
	return nil
}

// validImportFormats defines the allowed import formats
var validImportFormats = map[string]bool{
	"auto":   true,
	"tsv":    true,
	"json":   true,
	"sqlite": true,
}

// validateImport validates the import configuration
func (c *Config) validateImport() error {
	if !validImportFormats[c.Import.Format] {
		return fmt.Errorf("IMPORT_FORMAT must be one of: auto, tsv, json, sqlite")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace":    true,
	"debug":    true,
	"info":     true,
	"warn":     true,
	"error":    true,
	"fatal":    true,
	"disabled": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates the logging configuration
func (c *Config) validateLogging() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	return c.validateLogFormat()
}

// validateLogLevel validates the log level configuration
func (c *Config) validateLogLevel() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, disabled")
	}
	return nil
}

// validateLogFormat validates the log format configuration
func (c *Config) validateLogFormat() error {
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
