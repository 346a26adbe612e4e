// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/chronica-app/chronica/internal/models"
)

// tokenFieldCount is the fixed arity of a tabular export record:
// timestamp, userId, itemId, itemType, itemName, playMethod, client,
// deviceName, position.
const tokenFieldCount = 9

// TokenizeLine splits one line of tab-separated export text into a playback
// row, tolerant of literal tab characters inside the item-name field.
//
// Because the item name is unconstrained free text (a known upstream data
// quality issue), tokenization is anchored from both ends simultaneously:
// the first four fields are fixed from the start, the last four from the
// end, and everything strictly in between is rejoined with tabs to
// reconstruct the original name exactly. A line is rejected (nil, false)
// only when it is empty after trailing-whitespace trim or splits into fewer
// than nine fields; an unparseable position degrades to the not-recorded
// sentinel instead of rejecting the line.
func TokenizeLine(line string) (*models.PlaybackRow, bool) {
	line = strings.TrimRight(line, " \t\r\n")
	if line == "" {
		return nil, false
	}

	fields := strings.Split(line, "\t")
	if len(fields) < tokenFieldCount {
		return nil, false
	}

	n := len(fields)
	nameRaw := strings.Join(fields[4:n-4], "\t")

	row := newRow(fields[0], fields[1], fields[2], fields[3], nameRaw,
		fields[n-4], fields[n-3], fields[n-2], parsePositionField(fields[n-1]))
	return &row, true
}

// parsePositionField reads a textual position value, degrading anything
// unreadable to the not-recorded sentinel. Shared by the tabular tokenizer
// and the native SQLite adapter, which surfaces durations as text too.
func parsePositionField(s string) float64 {
	position, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(position) || math.IsInf(position, 0) {
		return positionNotRecorded
	}
	return position
}

// newRow assembles a PlaybackRow from the nine logical fields, running the
// field-level normalizers to fill the typed companions. Shared by the
// tabular tokenizer and the native SQLite adapter.
func newRow(timestamp, userID, itemID, itemType, nameRaw, playMethod, client, device string, position float64) models.PlaybackRow {
	row := models.PlaybackRow{
		TimestampRaw:       timestamp,
		UserID:             userID,
		ItemID:             itemID,
		ItemType:           itemType,
		ItemName:           strings.TrimSpace(nameRaw),
		ItemNameRaw:        nameRaw,
		PlayMethodRaw:      playMethod,
		Play:               ParsePlayMethod(playMethod),
		Client:             client,
		DeviceName:         device,
		PositionSecondsRaw: position,
	}

	if ts, ok := ParseExportTimestamp(timestamp); ok {
		ms := ts.UnixMilli()
		row.TimestampMs = &ms
	}

	pos := NormalizePosition(position)
	row.PositionKind = pos.Kind
	if pos.Kind != models.PositionInvalid {
		seconds := pos.Seconds
		row.PositionSeconds = &seconds
	}

	return row
}
