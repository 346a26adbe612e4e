// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/chronica-app/chronica/internal/models"
)

// ErrUnrecognizedShape is returned when a JSON payload is neither a
// top-level array of records nor an object wrapping one under a known key.
var ErrUnrecognizedShape = errors.New("unrecognized JSON shape: expected an array of records or an object with a sessions/data array")

// wrapperKeys are the object keys under which exporters wrap the record
// array. Exactly one level of unwrapping is attempted, in this order.
var wrapperKeys = []string{"sessions", "data"}

// Accepted key-name aliases per logical field, in priority order. Different
// exporter versions disagree on casing and naming; resolution is
// first-present-wins on non-empty values.
var (
	timestampKeys  = []string{"timestamp", "date_created", "DateCreated", "dateCreated", "time", "date"}
	userIDKeys     = []string{"user_id", "UserId", "userId"}
	itemIDKeys     = []string{"item_id", "ItemId", "itemId"}
	itemTypeKeys   = []string{"item_type", "ItemType", "itemType", "type"}
	itemNameKeys   = []string{"item_name", "ItemName", "itemName", "title", "name"}
	playMethodKeys = []string{"play_method", "PlaybackMethod", "playbackMethod", "playMethod", "method"}
	clientKeys     = []string{"client", "ClientName", "clientName", "player"}
	deviceKeys     = []string{"device_name", "DeviceName", "deviceName", "device"}
	durationKeys   = []string{"duration", "PlayDuration", "playDuration", "play_duration", "position"}
)

// parseJSON converts a JSON export into playback rows. The payload must be a
// top-level array of record objects, or an object wrapping that array under a
// "sessions" or "data" key (one level only); anything else fails the batch.
// Individual records are dropped, not fatal, when their duration does not
// resolve to a non-negative integer.
func parseJSON(data []byte) ([]models.PlaybackRow, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode JSON export: %w", err)
	}

	records, err := unwrapRecords(root)
	if err != nil {
		return nil, err
	}

	rows := make([]models.PlaybackRow, 0, len(records))
	for _, record := range records {
		obj, ok := record.(map[string]any)
		if !ok {
			// Non-object elements carry no resolvable duration; same
			// outcome as the duration rule.
			continue
		}
		if row, ok := rowFromObject(obj); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// unwrapRecords resolves the record array from the decoded payload.
func unwrapRecords(root any) ([]any, error) {
	switch v := root.(type) {
	case []any:
		return v, nil
	case map[string]any:
		for _, key := range wrapperKeys {
			if records, ok := v[key].([]any); ok {
				return records, nil
			}
		}
		return nil, ErrUnrecognizedShape
	default:
		return nil, ErrUnrecognizedShape
	}
}

// rowFromObject maps one record object to a PlaybackRow via the alias
// tables. Returns false when the duration cannot be parsed as a non-negative
// integer, which drops the record.
func rowFromObject(obj map[string]any) (models.PlaybackRow, bool) {
	duration, ok := resolveDuration(obj)
	if !ok {
		return models.PlaybackRow{}, false
	}

	nameRaw := resolveString(obj, itemNameKeys)

	row := models.PlaybackRow{
		TimestampRaw:  resolveString(obj, timestampKeys),
		UserID:        resolveString(obj, userIDKeys),
		ItemID:        resolveString(obj, itemIDKeys),
		ItemType:      resolveString(obj, itemTypeKeys),
		ItemName:      strings.TrimSpace(nameRaw),
		ItemNameRaw:   nameRaw,
		PlayMethodRaw: resolveString(obj, playMethodKeys),
		Client:        resolveString(obj, clientKeys),
		DeviceName:    resolveString(obj, deviceKeys),

		// JSON exports declare duration in whole seconds; the tabular
		// unit heuristic does not apply.
		PositionSecondsRaw: float64(duration),
		PositionKind:       models.PositionSeconds,
	}

	seconds := float64(duration)
	row.PositionSeconds = &seconds

	row.Play = ParsePlayMethod(row.PlayMethodRaw)
	if ts, ok := ParseExportTimestamp(row.TimestampRaw); ok {
		ms := ts.UnixMilli()
		row.TimestampMs = &ms
	}

	return row, true
}

// resolveString returns the first non-empty string value among the candidate
// keys. Numeric values are accepted and formatted, since some exporters emit
// numeric IDs.
func resolveString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		value, present := obj[key]
		if !present {
			continue
		}
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// resolveDuration resolves the duration field to a non-negative integer
// number of seconds. String values are tolerated; fractional values are
// truncated. Returns false when no candidate key yields a usable value.
func resolveDuration(obj map[string]any) (int64, bool) {
	for _, key := range durationKeys {
		value, present := obj[key]
		if !present {
			continue
		}
		switch v := value.(type) {
		case float64:
			if v < 0 {
				return 0, false
			}
			return int64(v), true
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || parsed < 0 {
				return 0, false
			}
			return int64(parsed), true
		}
	}
	return 0, false
}
