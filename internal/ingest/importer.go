// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chronica-app/chronica/internal/config"
	"github.com/chronica-app/chronica/internal/logging"
	"github.com/chronica-app/chronica/internal/metrics"
	"github.com/chronica-app/chronica/internal/models"
)

// sourceName labels every imported session with its provenance.
const sourceName = "playback_reporting"

// Row outcome labels, shared with the metrics counter.
const (
	outcomeImported = "imported"
	outcomeSkipped  = "skipped"
	outcomeError    = "error"
)

// SessionStore persists reconstructed sessions. InsertSession reports
// inserted=false without error when the session already exists.
type SessionStore interface {
	InsertSession(ctx context.Context, session *models.PlaybackSession) (inserted bool, err error)
}

// Importer drives a full import batch: adapter, validation, per-row
// reconstruction, and storage. Rows are processed strictly in input order
// with no internal concurrency, so a partially failing batch is
// reproducible row for row.
type Importer struct {
	cfg     *config.ImportConfig
	store   SessionStore
	builder *Reconstructor
	ledger  RunLedger

	// State
	mu      sync.RWMutex
	running bool
	stats   *ImportStats
}

// NewImporter creates an importer over the given store and referential
// lookup capability. ledger may be nil to disable re-import detection.
func NewImporter(cfg *config.ImportConfig, store SessionStore, refs ReferenceResolver, ledger RunLedger) *Importer {
	return &Importer{
		cfg:     cfg,
		store:   store,
		builder: NewReconstructor(refs),
		ledger:  ledger,
	}
}

// ResolveFormat resolves FormatAuto (or an empty format) using the file
// extension. Unknown extensions fall back to the tabular format, which is
// what the plugin's export action produces without an extension hint.
func ResolveFormat(path string, format Format) Format {
	if format != FormatAuto && format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatTSV
	}
}

// ImportFile imports one export file. The format is resolved from the
// extension when FormatAuto is given. When a ledger is configured, a file
// whose content was already imported is reported as info without touching
// the store; Force in the import config bypasses the check.
func (i *Importer) ImportFile(ctx context.Context, path string, format Format) *Result {
	format = ResolveFormat(path, format)

	data, err := os.ReadFile(path)
	if err != nil {
		return &Result{Type: ResultError, Message: fmt.Sprintf("read export file: %v", err)}
	}

	if result := i.checkLedger(data); result != nil {
		logging.Info().Str("path", path).Msg("Skipping previously imported file")
		return result
	}

	var result *Result
	if format == FormatSQLite {
		// The SQLite adapter works on the file path, not the bytes; the
		// bytes were still needed above for the ledger digest.
		rows, readErr := readSQLiteRows(ctx, path)
		if readErr != nil {
			return &Result{Type: ResultError, Message: fmt.Sprintf("read playback database: %v", readErr)}
		}
		result = i.importRows(ctx, rows, format)
	} else {
		result = i.ImportBytes(ctx, data, format)
	}

	i.recordLedger(path, data, format, result)
	return result
}

// ImportBytes imports an in-memory export. FormatAuto is not accepted here;
// there is no file name to resolve it from.
func (i *Importer) ImportBytes(ctx context.Context, data []byte, format Format) *Result {
	var (
		rows []models.PlaybackRow
		err  error
	)

	switch format {
	case FormatTSV:
		rows, err = parseTabular(data)
	case FormatJSON:
		rows, err = parseJSON(data)
	default:
		return &Result{Type: ResultError, Message: fmt.Sprintf("unsupported import format %q", format)}
	}
	if err != nil {
		return &Result{Type: ResultError, Message: fmt.Sprintf("parse export: %v", err)}
	}

	return i.importRows(ctx, rows, format)
}

// importRows runs validation and the per-row pipeline over adapter output.
// Row failures are contained: they are counted and reported but never stop
// the batch. Only structural failures return early.
func (i *Importer) importRows(ctx context.Context, rows []models.PlaybackRow, format Format) *Result {
	result := &Result{TotalCount: len(rows)}

	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		result.Type = ResultError
		result.Message = "import already in progress"
		return result
	}
	i.running = true
	i.stats = &ImportStats{
		TotalRecords: int64(len(rows)),
		StartTime:    time.Now(),
		DryRun:       i.cfg.DryRun,
	}
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.stats.EndTime = time.Now()
		i.mu.Unlock()
	}()

	if err := ValidateBatch(rows); err != nil {
		result.Type = ResultError
		result.Message = err.Error()
		metrics.RecordImportRun(string(format), string(ResultError))
		return result
	}

	logging.Info().
		Int("rows", len(rows)).
		Str("format", string(format)).
		Bool("dry_run", i.cfg.DryRun).
		Msg("Starting import")

	for idx := range rows {
		row := &rows[idx]

		session, err := i.builder.BuildSession(ctx, row, sourceName)
		if err != nil {
			result.addRowError(err.Error(), row.ItemName, row.TimestampRaw)
			i.recordRow(outcomeError)
			logging.Debug().Err(err).Str("item", row.ItemName).Msg("Row rejected")
			continue
		}

		if i.cfg.DryRun {
			result.SkippedCount++
			i.recordRow(outcomeSkipped)
			continue
		}

		inserted, err := i.store.InsertSession(ctx, session)
		if err != nil {
			result.addRowError(fmt.Sprintf("store session: %v", err), row.ItemName, row.TimestampRaw)
			i.recordRow(outcomeError)
			logging.Error().Err(err).Str("session_id", session.ID.String()).Msg("Failed to store session")
			continue
		}
		if !inserted {
			result.SkippedCount++
			i.recordRow(outcomeSkipped)
			logging.Debug().Str("session_id", session.ID.String()).Msg("Duplicate session skipped")
			continue
		}

		result.ImportedCount++
		i.recordRow(outcomeImported)
	}

	i.finalize(result)

	stats := i.GetStats()
	metrics.RecordImportRun(string(format), string(result.Type))
	metrics.ObserveImportDuration(time.Since(stats.StartTime).Seconds())
	metrics.ObserveImportBatchSize(result.TotalCount)

	logging.Info().
		Int("imported", result.ImportedCount).
		Int("skipped", result.SkippedCount).
		Int("errors", result.ErrorCount).
		Dur("duration", time.Since(stats.StartTime)).
		Msg("Import completed")

	return result
}

// finalize derives the summary type and message from the counters.
func (i *Importer) finalize(result *Result) {
	switch {
	case result.TotalCount > 0 && result.ErrorCount == result.TotalCount:
		result.Type = ResultError
		result.Message = fmt.Sprintf("no sessions imported: all %d rows failed", result.TotalCount)
	case i.cfg.DryRun:
		result.Type = ResultInfo
		result.Message = fmt.Sprintf("dry run: %d of %d rows ready to import",
			result.SkippedCount, result.TotalCount)
	case result.ImportedCount > 0:
		result.Type = ResultSuccess
		result.Message = fmt.Sprintf("imported %d of %d sessions (%d skipped, %d failed)",
			result.ImportedCount, result.TotalCount, result.SkippedCount, result.ErrorCount)
	default:
		result.Type = ResultInfo
		result.Message = fmt.Sprintf("no new sessions: %d skipped, %d failed",
			result.SkippedCount, result.ErrorCount)
	}
}

// recordRow updates the running stats and the row outcome metric.
func (i *Importer) recordRow(outcome string) {
	i.mu.Lock()
	i.stats.Processed++
	switch outcome {
	case outcomeImported:
		i.stats.Imported++
	case outcomeSkipped:
		i.stats.Skipped++
	case outcomeError:
		i.stats.Errors++
	}
	i.mu.Unlock()

	metrics.RecordImportRow(outcome)
}

// checkLedger reports a previously imported file, or nil to proceed.
func (i *Importer) checkLedger(data []byte) *Result {
	if i.ledger == nil || i.cfg.Force {
		return nil
	}

	entry, err := i.ledger.Seen(SourceDigest(data))
	if err != nil {
		logging.Warn().Err(err).Msg("Ledger lookup failed")
		return nil
	}
	if entry == nil {
		return nil
	}

	return &Result{
		Type: ResultInfo,
		Message: fmt.Sprintf("file already imported on %s (%d sessions); re-run with force to repeat",
			entry.ImportedAt.Format("2006-01-02"), entry.Imported),
	}
}

// recordLedger remembers a completed import so the same file is not
// replayed. Dry runs and structural failures are not recorded.
func (i *Importer) recordLedger(path string, data []byte, format Format, result *Result) {
	if i.ledger == nil || i.cfg.DryRun || result.Type == ResultError {
		return
	}

	entry := &LedgerEntry{
		Source:     path,
		Format:     string(format),
		ImportedAt: time.Now(),
		Imported:   result.ImportedCount,
		Skipped:    result.SkippedCount,
		Errors:     result.ErrorCount,
		Total:      result.TotalCount,
	}
	if err := i.ledger.Record(SourceDigest(data), entry); err != nil {
		logging.Warn().Err(err).Msg("Ledger record failed")
	}
}

// GetStats returns a copy of the current import statistics.
func (i *Importer) GetStats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &ImportStats{}
	}

	stats := *i.stats
	return &stats
}

// IsRunning returns whether an import is currently in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
