// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chronica-app/chronica/internal/models"
)

// validationSampleSize bounds the structural pre-check to the first records
// of a batch. Full per-row validation is deferred to reconstruction, which
// already tolerates individual bad rows; sampling keeps the pre-check cheap
// for large files.
const validationSampleSize = 5

// ErrEmptyBatch is returned when an adapter produced no rows at all.
var ErrEmptyBatch = errors.New("export contains no importable records")

// ValidateBatch runs the structural sanity check on a produced row batch
// before any persistence. The batch is rejected wholesale, with no partial
// acceptance, when it is empty or when any sampled record is missing a
// timestamp or carries one that neither the export parser nor the generic
// fallback can read.
func ValidateBatch(rows []models.PlaybackRow) error {
	if len(rows) == 0 {
		return ErrEmptyBatch
	}

	sample := min(len(rows), validationSampleSize)
	for i := 0; i < sample; i++ {
		raw := rows[i].TimestampRaw
		if strings.TrimSpace(raw) == "" {
			return fmt.Errorf("record %d: missing timestamp", i+1)
		}
		if _, ok := ParseExportTimestamp(raw); ok {
			continue
		}
		if _, ok := ParseFallbackTimestamp(raw); ok {
			continue
		}
		return fmt.Errorf("record %d: unparseable timestamp %q", i+1, raw)
	}
	return nil
}
