// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package models

import "time"

// User is a known media-server user in the reference store. Sessions whose
// userId matches an entry here keep the reference; unknown IDs are nulled
// with an audit note.
type User struct {
	ID   string `json:"id"` // 32-character hexadecimal external ID
	Name string `json:"name"`
}

// LibraryItem is a known library entry in the reference store.
type LibraryItem struct {
	ID        string `json:"id"` // 32-character hexadecimal external ID
	Name      string `json:"name"`
	MediaType string `json:"media_type,omitempty"`
}

// ImportRun is the audit record of one import invocation.
type ImportRun struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"` // file path or database path
	Format     string    `json:"format"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Imported   int       `json:"imported"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	Total      int       `json:"total"`
	DryRun     bool      `json:"dry_run"`
}
