// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/chronica-app/chronica/internal/database"
	"github.com/chronica-app/chronica/internal/ingest"
	"github.com/chronica-app/chronica/internal/logging"
	"github.com/chronica-app/chronica/internal/models"
	"github.com/chronica-app/chronica/internal/validation"
)

// errImportFailed signals a non-zero exit after the failure detail has
// already been rendered to stdout.
var errImportFailed = errors.New("import failed")

func newImportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var dryRunFlag bool
	var forceFlag bool
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a playback reporting export into the session store",
		Long: `Import reads one export of the playback reporting plugin (tab-separated
backup, JSON array, or the raw playback_reporting.db database), normalizes
every record, and stores the reconstructed sessions. Re-running the same
file is safe: sessions deduplicate by content and a completed file is
remembered in the run ledger.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			importCfg := cfg.Import
			if cmd.Flags().Changed("format") {
				importCfg.Format = formatFlag
			}
			if dryRunFlag {
				importCfg.DryRun = true
			}
			if forceFlag {
				importCfg.Force = true
			}

			req := validation.ImportRequest{Path: args[0], Format: importCfg.Format}
			if verr := validation.ValidateStruct(&req); verr != nil {
				return verr
			}

			lock := flock.New(importCfg.LockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire import lock: %w", err)
			}
			if !locked {
				return errors.New("another import is running")
			}
			defer func() {
				if unlockErr := lock.Unlock(); unlockErr != nil {
					logging.Warn().Err(unlockErr).Str("path", importCfg.LockPath).Msg("Failed to release import lock")
				}
			}()

			var ledger ingest.RunLedger
			if importCfg.LedgerPath != "" {
				badgerLedger, err := ingest.OpenBadgerLedger(importCfg.LedgerPath)
				if err != nil {
					return fmt.Errorf("open run ledger: %w", err)
				}
				defer func() {
					if closeErr := badgerLedger.Close(); closeErr != nil {
						logging.Warn().Err(closeErr).Msg("Failed to close run ledger")
					}
				}()
				ledger = badgerLedger
			}

			return ctx.withDatabase(func(db *database.DB) error {
				importer := ingest.NewImporter(&importCfg, db, db, ledger)

				format := ingest.Format(importCfg.Format)
				started := time.Now().UTC()
				result := importer.ImportFile(cmd.Context(), req.Path, format)

				// The ledger short-circuit produces an info result with no
				// rows; that probe is not an import run worth auditing.
				if result.TotalCount > 0 || result.Type == ingest.ResultError {
					run := &models.ImportRun{
						Source:     req.Path,
						Format:     string(ingest.ResolveFormat(req.Path, format)),
						StartedAt:  started,
						FinishedAt: time.Now().UTC(),
						Imported:   result.ImportedCount,
						Skipped:    result.SkippedCount,
						Errors:     result.ErrorCount,
						Total:      result.TotalCount,
						DryRun:     importCfg.DryRun,
					}
					if err := db.RecordImportRun(cmd.Context(), run); err != nil {
						logging.Warn().Err(err).Msg("Failed to record import run")
					}
				}

				if jsonFlag {
					if err := writeJSON(cmd, result); err != nil {
						return err
					}
				} else {
					renderImportResult(cmd, result)
					renderStoreFooter(cmd, db)
				}

				if result.Type == ingest.ResultError {
					return errImportFailed
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Source format: auto, tsv, json, or sqlite")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Validate and reconstruct without writing to the store")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Re-import even if this file was imported before")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the result summary as JSON")

	return cmd
}

func renderImportResult(cmd *cobra.Command, result *ingest.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, result.Message)
	fmt.Fprintln(out, renderTable(
		[]string{"Total", "Imported", "Skipped", "Errors"},
		[][]string{{
			strconv.Itoa(result.TotalCount),
			strconv.Itoa(result.ImportedCount),
			strconv.Itoa(result.SkippedCount),
			strconv.Itoa(result.ErrorCount),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	))

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "Row failures (showing %d of %d):\n", len(result.Errors), result.ErrorCount)
		for i, rowErr := range result.Errors {
			fmt.Fprintf(out, "  %d. %s\n", i+1, formatRowError(rowErr))
		}
	}
}

func formatRowError(rowErr ingest.RowError) string {
	line := rowErr.Reason
	if rowErr.ItemName != "" {
		line += " [" + rowErr.ItemName + "]"
	}
	if rowErr.Timestamp != "" {
		line += " at " + rowErr.Timestamp
	}
	return line
}

// renderStoreFooter prints the store totals after an import. Failures here
// are logged, not fatal; the import itself already succeeded or failed.
func renderStoreFooter(cmd *cobra.Command, db *database.DB) {
	ctx := cmd.Context()

	count, err := db.SessionCount(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to read session count")
		return
	}
	earliest, latest, ok, err := db.SessionDateRange(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to read session date range")
		return
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "Store holds no sessions")
		return
	}
	fmt.Fprintf(out, "Store holds %d sessions from %s to %s\n",
		count, earliest.Format("2006-01-02"), latest.Format("2006-01-02"))
}
