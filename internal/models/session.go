// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

// Package models defines the data structures shared by the ingestion engine,
// the storage layer, and the CLI: intermediate playback rows, reconstructed
// sessions, reference entities, and import run records.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PositionKind classifies how a raw playback-position value was interpreted.
// The export format mixes seconds and milliseconds depending on the client
// and plugin version, with no per-row discriminator.
type PositionKind string

const (
	// PositionSeconds means the raw value was taken as seconds unchanged.
	PositionSeconds PositionKind = "seconds"

	// PositionMilliseconds means the raw value was read as milliseconds
	// and divided by 1000.
	PositionMilliseconds PositionKind = "milliseconds"

	// PositionInvalid means the raw value was the not-recorded sentinel,
	// non-finite, or implausible under either unit.
	PositionInvalid PositionKind = "invalid"
)

// PlaybackRow is the parsed, not-yet-validated representation of one input
// record from a playback reporting export.
//
// A row is either fully populated (all nine logical fields present) or never
// produced at all: the tokenizer and the format adapters return nothing for
// records they cannot structure. Field-level parse ambiguity is captured in
// the typed companions (TimestampMs, Play, PositionKind) rather than raised
// as an error.
//
// Raw/diagnostic companions:
//   - TimestampRaw preserves the source text alongside the parsed TimestampMs.
//   - ItemNameRaw preserves original whitespace and embedded tabs; ItemName
//     is the trimmed form used everywhere else.
//   - PositionSecondsRaw holds the source number before unit disambiguation.
type PlaybackRow struct {
	TimestampRaw string `json:"timestamp_raw"`
	// TimestampMs is the absolute epoch-milliseconds instant, if parseable.
	TimestampMs *int64 `json:"timestamp_ms,omitempty"`

	// UserID and ItemID are external identifiers, expected to be
	// 32-character hexadecimal strings but not validated at this stage.
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`

	ItemType    string `json:"item_type"`
	ItemName    string `json:"item_name"`
	ItemNameRaw string `json:"item_name_raw"`

	PlayMethodRaw string     `json:"play_method_raw"`
	Play          PlayMethod `json:"play"`

	Client     string `json:"client"`
	DeviceName string `json:"device_name"`

	PositionSeconds    *float64     `json:"position_seconds,omitempty"`
	PositionSecondsRaw float64      `json:"position_seconds_raw"`
	PositionKind       PositionKind `json:"position_kind"`
}

// PlayMode is the structured playback-method classification.
type PlayMode string

const (
	PlayModeDirectPlay   PlayMode = "DirectPlay"
	PlayModeDirectStream PlayMode = "DirectStream"
	PlayModeTranscode    PlayMode = "Transcode"
	PlayModeOther        PlayMode = "Other"
)

// PlayMethod is the parsed form of the free-text playback-method descriptor.
// Video and Audio are populated only when Mode is Transcode and the source
// string carried explicit codec annotations; otherwise they are empty.
type PlayMethod struct {
	Mode  PlayMode `json:"mode"`
	Video string   `json:"video,omitempty"`
	Audio string   `json:"audio,omitempty"`
}

// PlaybackSession is the persisted, normalized playback record built from a
// validated row plus referential lookups.
//
// Key fields:
//   - ID: deterministic UUID derived from the row's identity content, so a
//     re-import of the same source row reproduces the same ID and the
//     conflict-ignore insert makes the import idempotent.
//   - UserID/ItemID: nullable external references. A referential miss nulls
//     the field and appends a human-readable note to AuditNotes; it never
//     fails the row.
//   - Completed: always true; imported history is finished playback, never a
//     live session.
type PlaybackSession struct {
	ID uuid.UUID `json:"id"`

	// References (nulled on miss, with an audit note)
	UserID   *string `json:"user_id,omitempty"`
	UserName *string `json:"user_name,omitempty"`
	ItemID   *string `json:"item_id,omitempty"`

	// Media identification
	ItemType string `json:"item_type"`
	ItemName string `json:"item_name"`

	// Episode identity recovered from the item name, when episode-like
	SeriesName    *string `json:"series_name,omitempty"`
	SeasonNumber  *int64  `json:"season_number,omitempty"`
	EpisodeNumber *int64  `json:"episode_number,omitempty"`

	// Timing
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds int64     `json:"duration_seconds"`

	// Playback method
	PlayMethod   string  `json:"play_method"` // raw descriptor as exported
	PlayMode     string  `json:"play_mode"`   // classified mode
	VideoCodec   *string `json:"video_codec,omitempty"`
	AudioCodec   *string `json:"audio_codec,omitempty"`
	IsTranscode  bool    `json:"is_transcode"`
	IsDirectPlay bool    `json:"is_direct_play"`

	// Client
	ClientName string `json:"client_name"`
	DeviceName string `json:"device_name"`

	Completed bool `json:"completed"`

	// AuditNotes records soft integrity decisions (missing user, missing
	// item). Persisted joined with "; ".
	AuditNotes []string `json:"audit_notes,omitempty"`

	// Provenance
	Source     string    `json:"source"` // originating export system
	ImportedAt time.Time `json:"imported_at"`
}
