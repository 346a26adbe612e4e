// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"time"
)

// Format identifies the shape of an export source.
type Format string

const (
	// FormatAuto resolves the format from the file extension.
	FormatAuto Format = "auto"

	// FormatTSV is the tab-separated backup produced by the reporting
	// plugin's export action.
	FormatTSV Format = "tsv"

	// FormatJSON is a JSON array export, bare or wrapped one level.
	FormatJSON Format = "json"

	// FormatSQLite is the plugin's raw playback_reporting.db database.
	FormatSQLite Format = "sqlite"
)

// ResultType classifies the overall outcome of an import.
type ResultType string

const (
	// ResultSuccess means at least one session was imported.
	ResultSuccess ResultType = "success"

	// ResultError means the batch failed structurally or every row failed.
	ResultError ResultType = "error"

	// ResultInfo means nothing was imported but nothing failed either,
	// such as a dry run or a batch of known duplicates.
	ResultInfo ResultType = "info"
)

// maxReportedErrors caps the per-row detail carried in a Result. Counters
// keep counting past the cap; only the detail list stops growing.
const maxReportedErrors = 50

// RowError describes one failed source row. ItemName and Timestamp are
// best-effort context and may be empty when the row never parsed far enough
// to yield them.
type RowError struct {
	Reason    string `json:"reason"`
	ItemName  string `json:"itemName,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Result is the definitive summary of one import batch. The engine always
// returns one; it never panics and never loses the outcome of a row.
type Result struct {
	Type    ResultType `json:"type"`
	Message string     `json:"message"`

	// TotalCount is the number of rows the adapter produced.
	TotalCount int `json:"totalCount"`

	// ImportedCount is the number of sessions newly inserted.
	ImportedCount int `json:"importedCount"`

	// SkippedCount is the number of rows skipped without error, such as
	// duplicates of already-stored sessions or all rows of a dry run.
	SkippedCount int `json:"skippedCount"`

	// ErrorCount is the number of rows that failed. It can exceed
	// len(Errors) once the detail cap is reached.
	ErrorCount int `json:"errorCount"`

	Errors []RowError `json:"errors,omitempty"`
}

// addRowError counts a row failure and retains its detail up to the cap.
func (r *Result) addRowError(reason, itemName, timestamp string) {
	r.ErrorCount++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, RowError{
			Reason:    reason,
			ItemName:  itemName,
			Timestamp: timestamp,
		})
	}
}

// ImportStats holds running counters for an import operation.
type ImportStats struct {
	// TotalRecords is the number of rows produced by the format adapter.
	TotalRecords int64

	// Processed is the number of rows processed (including skipped).
	Processed int64

	// Imported is the number of sessions newly stored.
	Imported int64

	// Skipped is the number of rows skipped as duplicates or by dry run.
	Skipped int64

	// Errors is the number of rows that failed reconstruction or storage.
	Errors int64

	// StartTime is when the import started.
	StartTime time.Time

	// EndTime is when the import completed (zero if still running).
	EndTime time.Time

	// DryRun indicates if this was a dry run (no actual inserts).
	DryRun bool
}

// Duration returns the duration of the import operation.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the import progress as a percentage (0-100).
func (s *ImportStats) Progress() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.TotalRecords) * 100
}

// RecordsPerSecond returns the import rate.
func (s *ImportStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

// ProgressSummary is a JSON-tagged snapshot of ImportStats.
type ProgressSummary struct {
	Status         string    `json:"status"`
	Progress       float64   `json:"progress"`
	TotalRecords   int64     `json:"total_records"`
	Processed      int64     `json:"processed"`
	Imported       int64     `json:"imported"`
	Skipped        int64     `json:"skipped"`
	Errors         int64     `json:"errors"`
	RecordsPerSec  float64   `json:"records_per_second"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	StartTime      time.Time `json:"start_time"`
	DryRun         bool      `json:"dry_run"`
}

// ToSummary converts ImportStats to a ProgressSummary with calculated fields.
func (s *ImportStats) ToSummary() *ProgressSummary {
	summary := &ProgressSummary{
		Progress:       s.Progress(),
		TotalRecords:   s.TotalRecords,
		Processed:      s.Processed,
		Imported:       s.Imported,
		Skipped:        s.Skipped,
		Errors:         s.Errors,
		RecordsPerSec:  s.RecordsPerSecond(),
		ElapsedSeconds: s.Duration().Seconds(),
		StartTime:      s.StartTime,
		DryRun:         s.DryRun,
	}

	if s.EndTime.IsZero() {
		summary.Status = "running"
	} else {
		summary.Status = "completed"
	}

	return summary
}
