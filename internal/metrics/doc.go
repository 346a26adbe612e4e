// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

/*
Package metrics provides Prometheus instrumentation for import runs.

# Overview

The package provides metrics for:
  - Per-row import outcomes (imported, skipped, error)
  - Import run counts and durations by format and status
  - Batch size distribution
  - Database query performance (DuckDB)

# Available Metrics

Import Metrics:
  - chronica_import_rows_total: Processed rows (counter)
    Labels: outcome (imported, skipped, error)
  - chronica_import_runs_total: Import runs (counter)
    Labels: format, status
  - chronica_import_duration_seconds: Run duration (histogram)
  - chronica_import_batch_rows: Rows per batch (histogram)
  - chronica_import_last_success_timestamp: Unix timestamp of last
    successful run (gauge)

Database Metrics:
  - chronica_duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - chronica_duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table

# Exposition

Chronica does not run an HTTP server, so there is no /metrics endpoint of
its own. Metrics register on the default Prometheus registry; a host
application embeds them by mounting promhttp.Handler(), and the CLI can
snapshot them via prometheus.DefaultGatherer:

	families, err := prometheus.DefaultGatherer.Gather()

# Thread Safety

All recording functions are safe for concurrent use; the Prometheus client
library handles synchronization internally.
*/
package metrics
