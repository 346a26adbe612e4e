// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

// Package ingest implements the playback reporting import engine.
//
// It reconstructs normalized playback sessions from a third-party plugin's
// export files, which come in three shapes: tab-separated text, JSON, and the
// plugin's native SQLite database. The export format is loosely specified and
// ambiguous in several ways the engine has to resolve:
//
//   - Timestamps are a vendor fixed-point decimal ("2024-12-10 16:08:30.6262924")
//     with 0-7 fractional digits and no timezone.
//   - Playback positions mix seconds and milliseconds per client version with
//     no discriminator, and use -2147483648 as a "not recorded" sentinel.
//   - The item-name column is free text that may itself contain tab characters,
//     so tabular lines are tokenized anchored from both ends at once.
//   - Play methods are free text ("Transcode (v:h264 a:eac3)") that must be
//     classified into a structured mode plus optional codec pair.
//   - Episode identity is embedded in display titles ("Show - s01e05 - Title").
//
// # Pipeline
//
//	raw bytes ──adapter──▶ []models.PlaybackRow ──ValidateBatch──▶
//	    per row: Reconstructor.BuildSession ──▶ SessionStore.InsertSession
//	                                   Importer aggregates the Result
//
// Field-level normalizers never return errors; absence and invalidity are
// tagged outcomes. Row-level failures are caught at the row boundary, recorded
// in the capped error list, and never abort sibling rows. Only structural
// failures (unreadable input, unrecognized JSON shape, empty batch) reject the
// whole import.
//
// Processing is single-pass and synchronous: rows are handled one at a time in
// input order, with no internal concurrency, so the side-effect order under
// the conflict-ignore insert policy follows the source file.
//
// # Idempotence
//
// Session IDs are derived deterministically from row identity content (user,
// item, start instant, duration, client, device), and the store inserts with a
// conflict-ignore policy keyed on that ID. Re-importing a byte-identical file
// therefore changes nothing after the first run; duplicates surface in the
// result's skipped count.
//
// # Example
//
//	store, _ := database.New(&cfg.Database)
//	imp := ingest.NewImporter(&cfg.Import, store, store, nil)
//
//	result := imp.ImportFile(ctx, "playback.tsv", ingest.FormatTSV)
//	fmt.Printf("imported %d of %d rows\n", result.ImportedCount, result.TotalCount)
package ingest
