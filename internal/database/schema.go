// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package database

import (
	"context"
	"fmt"
	"time"
)

// getTableCreationQueries returns the table creation SQL statements.
// All statements are idempotent so any chronica version can open the
// same database file.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		// Playback sessions - one row per normalized history record.
		// The UUID primary key is derived deterministically from the row
		// content, so ON CONFLICT DO NOTHING makes re-imports idempotent.
		`CREATE TABLE IF NOT EXISTS playback_sessions (
			id UUID PRIMARY KEY,
			user_id TEXT,
			user_name TEXT,
			item_id TEXT,
			item_type TEXT NOT NULL,
			item_name TEXT NOT NULL,
			series_name TEXT,
			season_number BIGINT,
			episode_number BIGINT,
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP NOT NULL,
			duration_seconds BIGINT NOT NULL,
			play_method TEXT,
			play_mode TEXT NOT NULL,
			video_codec TEXT,
			audio_codec TEXT,
			is_transcode BOOLEAN NOT NULL DEFAULT false,
			is_direct_play BOOLEAN NOT NULL DEFAULT false,
			client_name TEXT,
			device_name TEXT,
			completed BOOLEAN NOT NULL DEFAULT true,
			audit_notes TEXT,
			source TEXT NOT NULL,
			imported_at TIMESTAMP NOT NULL
		)`,

		// Reference tables consulted during session reconstruction.
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS library_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			media_type TEXT
		)`,

		// Audit trail of import invocations.
		`CREATE TABLE IF NOT EXISTS import_runs (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			format TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL,
			imported BIGINT NOT NULL DEFAULT 0,
			skipped BIGINT NOT NULL DEFAULT 0,
			errors BIGINT NOT NULL DEFAULT 0,
			total BIGINT NOT NULL DEFAULT 0,
			dry_run BOOLEAN NOT NULL DEFAULT false
		)`,
	}
}

// getIndexCreationQueries returns the index creation SQL statements for
// the query paths the CLI uses.
func (db *DB) getIndexCreationQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON playback_sessions(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON playback_sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_import_runs_started ON import_runs(started_at)`,
	}
}

// createTables creates all tables and indexes if they do not exist.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	for _, query := range db.getIndexCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}
