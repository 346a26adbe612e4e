// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

// Package database provides DuckDB-backed storage for normalized playback
// sessions, reference data, and the import audit trail.
//
// # Overview
//
// This package is the data layer between the ingestion engine and DuckDB.
// It owns the schema, the connection pool, and all SQL. The ingestion
// engine talks to it only through small interfaces (session store,
// reference resolver) defined on the consumer side, so storage can be
// swapped in tests without touching the pipeline.
//
// # Architecture
//
// The package is organized into domain-specific files:
//
//   - database.go: Core lifecycle (connection, pool configuration, checkpoint, cleanup)
//   - schema.go: Table and index creation
//   - sessions.go: Playback session insert with conflict-ignore dedup, summary queries
//   - refs.go: Reference user/item lookups and bulk upserts
//   - runs.go: Import run audit trail
//   - errors.go: Close helpers for cleanup paths
//
// # Deduplication
//
// Playback sessions carry a deterministic UUID primary key derived from the
// source row content. Inserts use ON CONFLICT DO NOTHING, so re-importing an
// export the store has already seen is a sequence of silent no-ops rather
// than an error. InsertSession reports whether a row was actually written so
// callers can count duplicates.
package database
