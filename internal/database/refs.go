// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chronica-app/chronica/internal/logging"
	"github.com/chronica-app/chronica/internal/metrics"
	"github.com/chronica-app/chronica/internal/models"
)

// LookupUser resolves a user ID against the reference store. A missing ID is
// not an error: ok is false and the caller decides how to degrade.
func (db *DB) LookupUser(ctx context.Context, id string) (string, bool, error) {
	var name string
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT name FROM users WHERE id = ?`, id).Scan(&name)
	metrics.RecordDBQuery("SELECT", "users", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up user: %w", err)
	}
	return name, true, nil
}

// LookupItem resolves a library item ID against the reference store.
func (db *DB) LookupItem(ctx context.Context, id string) (string, bool, error) {
	var name string
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT name FROM library_items WHERE id = ?`, id).Scan(&name)
	metrics.RecordDBQuery("SELECT", "library_items", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up library item: %w", err)
	}
	return name, true, nil
}

// UpsertUsers loads or refreshes reference users in a single transaction.
// Existing IDs have their name updated so a re-load after a server-side
// rename corrects the reference data.
func (db *DB) UpsertUsers(ctx context.Context, users []*models.User) (count int, err error) {
	if len(users) == 0 {
		return 0, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO users (id, name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close prepared statement")
		}
	}()

	for i, user := range users {
		if user.ID == "" {
			return 0, fmt.Errorf("user %d has an empty id", i)
		}
		if _, execErr := stmt.ExecContext(ctx, user.ID, user.Name); execErr != nil {
			err = fmt.Errorf("failed to upsert user %s: %w", user.ID, execErr)
			return 0, err
		}
		count++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return count, nil
}

// UpsertItems loads or refreshes reference library items in a single
// transaction.
func (db *DB) UpsertItems(ctx context.Context, items []*models.LibraryItem) (count int, err error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO library_items (id, name, media_type) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, media_type = EXCLUDED.media_type`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close prepared statement")
		}
	}()

	for i, item := range items {
		if item.ID == "" {
			return 0, fmt.Errorf("library item %d has an empty id", i)
		}
		var mediaType *string
		if item.MediaType != "" {
			mediaType = &item.MediaType
		}
		if _, execErr := stmt.ExecContext(ctx, item.ID, item.Name, mediaType); execErr != nil {
			err = fmt.Errorf("failed to upsert library item %s: %w", item.ID, execErr)
			return 0, err
		}
		count++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return count, nil
}

// ReferenceCounts returns the number of stored reference users and items.
func (db *DB) ReferenceCounts(ctx context.Context) (users, items int64, err error) {
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM library_items`).Scan(&items); err != nil {
		return 0, 0, fmt.Errorf("failed to count library items: %w", err)
	}
	return users, items, nil
}
