// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"strings"

	"github.com/chronica-app/chronica/internal/models"
)

// parseTabular converts line-delimited tab-separated export text into
// playback rows. Unstructurable lines (empty, fewer than nine fields) and
// rows whose position classified as invalid are dropped; the tabular format
// has no batch-fatal shape beyond producing an empty batch, which the
// validator rejects.
func parseTabular(data []byte) ([]models.PlaybackRow, error) {
	lines := strings.Split(string(data), "\n")
	rows := make([]models.PlaybackRow, 0, len(lines))

	for _, line := range lines {
		row, ok := TokenizeLine(line)
		if !ok {
			continue
		}
		if row.PositionKind == models.PositionInvalid {
			continue
		}
		rows = append(rows, *row)
	}
	return rows, nil
}
