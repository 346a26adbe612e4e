// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// DuckDB driver - used with the SQLite extension for reading plugin databases
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/chronica-app/chronica/internal/logging"
	"github.com/chronica-app/chronica/internal/models"
)

// activityTable is the reporting plugin's history table. Its nine columns
// are exactly the nine fields of the tabular export, which is produced by
// dumping this table.
const activityTable = "PlaybackActivity"

// SQLiteReader reads playback history straight from the reporting plugin's
// SQLite database using DuckDB's SQLite extension. This avoids a separate
// SQLite driver: the file is attached into an in-memory DuckDB instance and
// queried through it.
type SQLiteReader struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteReader creates a reader for the given plugin database file.
func NewSQLiteReader(dbPath string) (*SQLiteReader, error) {
	// In-memory DuckDB connection; the SQLite file is only attached.
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if err := loadSQLiteExtension(db); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("load sqlite extension: %w", err)
	}

	if err := attachSQLiteDatabase(db, dbPath); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("attach database: %w", err)
	}

	if err := verifyActivityTable(db); err != nil {
		detachSQLiteDatabase(db)
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, fmt.Errorf("verify tables: %w", err)
	}

	return &SQLiteReader{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// loadSQLiteExtension installs and loads the sqlite_scanner extension.
func loadSQLiteExtension(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Try to install, then load (extension may already be installed)
	if _, err := db.ExecContext(ctx, "INSTALL sqlite_scanner;"); err != nil {
		// Installation might fail if already installed, try loading
		if _, loadErr := db.ExecContext(ctx, "LOAD sqlite_scanner;"); loadErr != nil {
			// Try force install as last resort
			if _, forceErr := db.ExecContext(ctx, "FORCE INSTALL sqlite_scanner;"); forceErr != nil {
				return fmt.Errorf("install error: %w, load error: %w, force install error: %w", err, loadErr, forceErr)
			}
		}
		return nil
	}

	_, err := db.ExecContext(ctx, "LOAD sqlite_scanner;")
	return err
}

// attachSQLiteDatabase attaches the plugin database file to DuckDB.
func attachSQLiteDatabase(db *sql.DB, dbPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, "CALL sqlite_attach(?)", dbPath)
	if err != nil {
		return fmt.Errorf("sqlite_attach: %w", err)
	}

	return nil
}

// detachSQLiteDatabase detaches the plugin database from DuckDB.
func detachSQLiteDatabase(db *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// The attached database is named after the file without extension
	db.ExecContext(ctx, "DETACH DATABASE IF EXISTS playback_reporting") //nolint:errcheck // best-effort detach, errors not actionable
}

// verifyActivityTable checks that the history table exists in the attached
// database, which is what distinguishes a plugin database from an arbitrary
// SQLite file.
func verifyActivityTable(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?",
		activityTable,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check table %s: %w", activityTable, err)
	}
	if count == 0 {
		return fmt.Errorf("table %s not found in attached database", activityTable)
	}

	return nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	detachSQLiteDatabase(r.db)
	return r.db.Close()
}

// CountRecords returns the total number of playback activity records.
func (r *SQLiteReader) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM PlaybackActivity").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// ReadRows reads the full history table in timestamp order and normalizes
// each record through the same field pipeline as the tabular adapter. Rows
// whose position normalizes to invalid are dropped, mirroring the tabular
// behavior on identical data.
func (r *SQLiteReader) ReadRows(ctx context.Context) ([]models.PlaybackRow, error) {
	// Every column is cast to text: SQLite column affinity is advisory, and
	// old plugin versions stored durations as text. The field normalizers
	// already handle text, so text in is the least surprising path.
	query := `
		SELECT
			COALESCE(CAST(DateCreated AS VARCHAR), ''),
			COALESCE(CAST(UserId AS VARCHAR), ''),
			COALESCE(CAST(ItemId AS VARCHAR), ''),
			COALESCE(CAST(ItemType AS VARCHAR), ''),
			COALESCE(CAST(ItemName AS VARCHAR), ''),
			COALESCE(CAST(PlaybackMethod AS VARCHAR), ''),
			COALESCE(CAST(ClientName AS VARCHAR), ''),
			COALESCE(CAST(DeviceName AS VARCHAR), ''),
			COALESCE(CAST(PlayDuration AS VARCHAR), '')
		FROM PlaybackActivity
		ORDER BY DateCreated ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []models.PlaybackRow
	for rows.Next() {
		var dateCreated, userID, itemID, itemType, itemName string
		var playMethod, client, device, duration string

		err := rows.Scan(
			&dateCreated,
			&userID,
			&itemID,
			&itemType,
			&itemName,
			&playMethod,
			&client,
			&device,
			&duration,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		row := newRow(dateCreated, userID, itemID, itemType, itemName,
			playMethod, client, device, parsePositionField(duration))
		if row.PositionKind == models.PositionInvalid {
			continue
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return out, nil
}

// readSQLiteRows opens a plugin database, reads all history rows, and
// closes it again. The per-file lifecycle keeps the importer free of any
// open reader state.
func readSQLiteRows(ctx context.Context, path string) ([]models.PlaybackRow, error) {
	reader, err := NewSQLiteReader(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing SQLite reader")
		}
	}()

	total, err := reader.CountRecords(ctx)
	if err != nil {
		return nil, err
	}
	logging.Info().Int64("total_records", total).Str("path", path).Msg("Reading plugin database")

	return reader.ReadRows(ctx)
}
