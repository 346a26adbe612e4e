// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/chronica-app/chronica/internal/logging"
	"github.com/chronica-app/chronica/internal/metrics"
	"github.com/chronica-app/chronica/internal/models"
)

// InsertSession stores a normalized playback session.
//
// The UUID primary key is derived from the row content, so re-importing the
// same export reproduces the same IDs. ON CONFLICT DO NOTHING turns those
// collisions into silent no-ops instead of errors; the returned bool reports
// whether a row was actually written.
func (db *DB) InsertSession(ctx context.Context, session *models.PlaybackSession) (bool, error) {
	if session.ImportedAt.IsZero() {
		session.ImportedAt = time.Now().UTC()
	}

	query := `INSERT INTO playback_sessions (
		id, user_id, user_name, item_id,
		item_type, item_name,
		series_name, season_number, episode_number,
		start_time, end_time, duration_seconds,
		play_method, play_mode, video_codec, audio_codec,
		is_transcode, is_direct_play,
		client_name, device_name,
		completed, audit_notes, source, imported_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`

	var auditNotes *string
	if len(session.AuditNotes) > 0 {
		joined := strings.Join(session.AuditNotes, "; ")
		auditNotes = &joined
	}

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query,
		session.ID, session.UserID, session.UserName, session.ItemID,
		session.ItemType, session.ItemName,
		session.SeriesName, session.SeasonNumber, session.EpisodeNumber,
		session.StartTime, session.EndTime, session.DurationSeconds,
		session.PlayMethod, session.PlayMode, session.VideoCodec, session.AudioCodec,
		session.IsTranscode, session.IsDirectPlay,
		session.ClientName, session.DeviceName,
		session.Completed, auditNotes, session.Source, session.ImportedAt,
	)
	metrics.RecordDBQuery("INSERT", "playback_sessions", time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("failed to insert playback session: %w", err)
	}

	// With ON CONFLICT DO NOTHING, no error is returned for duplicates
	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected == 0 {
		logging.Debug().
			Str("session_id", session.ID.String()).
			Str("item_name", session.ItemName).
			Str("start_time", session.StartTime.Format("2006-01-02T15:04:05")).
			Msg("Duplicate detected")
		return false, nil
	}

	return true, nil
}

// SessionCount returns the total number of stored playback sessions.
func (db *DB) SessionCount(ctx context.Context) (int64, error) {
	var count int64
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM playback_sessions`).Scan(&count)
	metrics.RecordDBQuery("SELECT", "playback_sessions", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count playback sessions: %w", err)
	}
	return count, nil
}

// SessionDateRange returns the earliest and latest session start times.
// ok is false when the table is empty.
func (db *DB) SessionDateRange(ctx context.Context) (earliest, latest time.Time, ok bool, err error) {
	var minTime, maxTime sql.NullTime
	start := time.Now()
	err = db.conn.QueryRowContext(ctx,
		`SELECT MIN(start_time), MAX(start_time) FROM playback_sessions`,
	).Scan(&minTime, &maxTime)
	metrics.RecordDBQuery("SELECT", "playback_sessions", time.Since(start), err)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to query session date range: %w", err)
	}
	if !minTime.Valid || !maxTime.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	return minTime.Time, maxTime.Time, true, nil
}
