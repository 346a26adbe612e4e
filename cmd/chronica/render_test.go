// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/chronica-app/chronica/internal/ingest"
	"github.com/chronica-app/chronica/internal/models"
)

func TestFormatRowError(t *testing.T) {
	tests := []struct {
		name   string
		rowErr ingest.RowError
		want   string
	}{
		{
			name:   "full context",
			rowErr: ingest.RowError{Reason: "unparseable timestamp", ItemName: "The Matrix", Timestamp: "garbage"},
			want:   "unparseable timestamp [The Matrix] at garbage",
		},
		{
			name:   "reason only",
			rowErr: ingest.RowError{Reason: "missing play duration"},
			want:   "missing play duration",
		},
		{
			name:   "no item name",
			rowErr: ingest.RowError{Reason: "non-positive play duration", Timestamp: "2010-08-21 20:21:05"},
			want:   "non-positive play duration at 2010-08-21 20:21:05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRowError(tt.rowErr); got != tt.want {
				t.Errorf("formatRowError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildRunRows(t *testing.T) {
	runs := []*models.ImportRun{
		{
			Source:    "/exports/history.tsv",
			Format:    "tsv",
			StartedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
			Imported:  40,
			Skipped:   2,
			Errors:    1,
			Total:     43,
			DryRun:    false,
		},
		{
			Source:    "/exports/history.json",
			Format:    "json",
			StartedAt: time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC),
			Total:     10,
			DryRun:    true,
		},
	}

	rows := buildRunRows(runs)
	if len(rows) != 2 {
		t.Fatalf("buildRunRows() returned %d rows, want 2", len(rows))
	}

	want := []string{"2024-05-01 12:30", "/exports/history.tsv", "tsv", "40", "2", "1", "43", "no"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("rows[0][%d] = %q, want %q", i, rows[0][i], cell)
		}
	}
	if rows[1][7] != "yes" {
		t.Errorf("dry run cell = %q, want yes", rows[1][7])
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Total", "Imported"},
		[][]string{{"43", "40"}},
		[]columnAlignment{alignRight, alignRight},
	)

	// StyleRounded renders headers uppercased.
	if !strings.Contains(out, "TOTAL") || !strings.Contains(out, "43") {
		t.Fatalf("renderTable() missing content:\n%s", out)
	}
	if len(strings.Split(out, "\n")) < 4 {
		t.Fatalf("renderTable() produced no bordered layout:\n%s", out)
	}

	if renderTable(nil, nil, nil) != "" {
		t.Error("renderTable() with no headers should be empty")
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Errorf("yesNo() = %q/%q", yesNo(true), yesNo(false))
	}
}
