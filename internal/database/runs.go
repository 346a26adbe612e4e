// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chronica-app/chronica/internal/metrics"
	"github.com/chronica-app/chronica/internal/models"
)

// RecordImportRun appends one invocation to the import audit trail.
func (db *DB) RecordImportRun(ctx context.Context, run *models.ImportRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	query := `INSERT INTO import_runs (
		id, source, format, started_at, finished_at,
		imported, skipped, errors, total, dry_run
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, query,
		run.ID, run.Source, run.Format, run.StartedAt, run.FinishedAt,
		run.Imported, run.Skipped, run.Errors, run.Total, run.DryRun,
	)
	metrics.RecordDBQuery("INSERT", "import_runs", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}
	return nil
}

// ListImportRuns returns the most recent import runs, newest first.
func (db *DB) ListImportRuns(ctx context.Context, limit int) ([]*models.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, source, format, started_at, finished_at,
		imported, skipped, errors, total, dry_run
	FROM import_runs
	ORDER BY started_at DESC
	LIMIT ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("SELECT", "import_runs", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer closeWithLog(rows, "import runs result set")

	var runs []*models.ImportRun
	for rows.Next() {
		run := &models.ImportRun{}
		if err := rows.Scan(
			&run.ID, &run.Source, &run.Format, &run.StartedAt, &run.FinishedAt,
			&run.Imported, &run.Skipped, &run.Errors, &run.Total, &run.DryRun,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import runs: %w", err)
	}

	return runs, nil
}
