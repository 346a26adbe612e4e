// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chronica-app/chronica/internal/models"
)

// ReferenceResolver answers whether an external user or library item exists
// in the target store, returning its display name when it does. It is an
// injected capability: the engine never owns the store's lifecycle or
// assumes a process-wide connection.
type ReferenceResolver interface {
	LookupUser(ctx context.Context, id string) (name string, ok bool, err error)
	LookupItem(ctx context.Context, id string) (name string, ok bool, err error)
}

// Reconstructor maps one normalized row plus referential lookups into a
// complete, storable session entity, applying the soft-integrity and
// idempotence policies.
type Reconstructor struct {
	refs ReferenceResolver

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewReconstructor creates a session reconstructor using the given
// referential lookup capability.
func NewReconstructor(refs ReferenceResolver) *Reconstructor {
	return &Reconstructor{
		refs: refs,
		now:  time.Now,
	}
}

// BuildSession converts a validated row into a playback session.
//
// The only row-fatal conditions are a timestamp that neither parser can read
// and a missing or non-positive duration; the caller records the returned
// error and continues with sibling rows. A referential miss is not an error:
// the corresponding field is nulled and a human-readable note appended to
// the session's audit list. Lookup I/O failures are treated the same way.
func (r *Reconstructor) BuildSession(ctx context.Context, row *models.PlaybackRow, source string) (*models.PlaybackSession, error) {
	start, err := r.resolveStartTime(row)
	if err != nil {
		return nil, err
	}

	if row.PositionSeconds == nil {
		return nil, fmt.Errorf("missing play duration")
	}
	if *row.PositionSeconds <= 0 {
		return nil, fmt.Errorf("non-positive play duration %v", *row.PositionSeconds)
	}
	// Fractional seconds from upstream are not preserved beyond this
	// rounding; the storage column is whole seconds.
	durationSeconds := int64(math.Round(*row.PositionSeconds))

	play := ParsePlayMethod(row.PlayMethodRaw)

	session := &models.PlaybackSession{
		ID:              deterministicSessionID(row, start.UnixMilli(), durationSeconds),
		ItemType:        row.ItemType,
		ItemName:        row.ItemName,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(durationSeconds) * time.Second),
		DurationSeconds: durationSeconds,
		PlayMethod:      row.PlayMethodRaw,
		PlayMode:        string(play.Mode),
		IsTranscode:     play.Mode == models.PlayModeTranscode,
		IsDirectPlay:    play.Mode == models.PlayModeDirectPlay,
		ClientName:      row.Client,
		DeviceName:      row.DeviceName,

		// Imported history is always finished playback, never live.
		Completed: true,

		Source:     source,
		ImportedAt: r.now(),
	}

	if play.Video != "" {
		session.VideoCodec = &play.Video
	}
	if play.Audio != "" {
		session.AudioCodec = &play.Audio
	}

	if strings.EqualFold(row.ItemType, "Episode") {
		if info, ok := ParseEpisodeInfo(row.ItemName); ok {
			season, episode := int64(info.Season), int64(info.Episode)
			session.SeriesName = &info.Series
			session.SeasonNumber = &season
			session.EpisodeNumber = &episode
		}
	}

	r.resolveUser(ctx, row, session)
	r.resolveItem(ctx, row, session)

	return session, nil
}

// resolveStartTime reads the row's start instant, preferring the adapter's
// parsed milliseconds and falling back to re-parsing the raw text with the
// export parser and then the generic fallback.
func (r *Reconstructor) resolveStartTime(row *models.PlaybackRow) (time.Time, error) {
	if row.TimestampMs != nil {
		return time.UnixMilli(*row.TimestampMs), nil
	}
	if ts, ok := ParseExportTimestamp(row.TimestampRaw); ok {
		return ts, nil
	}
	if ts, ok := ParseFallbackTimestamp(row.TimestampRaw); ok {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", row.TimestampRaw)
}

// resolveUser attaches the user reference, nulling it with an audit note
// when the ID is absent, unknown, or the lookup fails.
func (r *Reconstructor) resolveUser(ctx context.Context, row *models.PlaybackRow, session *models.PlaybackSession) {
	id := strings.TrimSpace(row.UserID)
	if id == "" {
		session.AuditNotes = append(session.AuditNotes, "source row has no user id")
		return
	}

	name, ok, err := r.refs.LookupUser(ctx, id)
	if err != nil {
		session.AuditNotes = append(session.AuditNotes,
			fmt.Sprintf("user lookup failed for %s: %v", id, err))
		return
	}
	if !ok {
		session.AuditNotes = append(session.AuditNotes,
			fmt.Sprintf("user %s not found; reference omitted", id))
		return
	}

	session.UserID = &id
	session.UserName = &name
}

// resolveItem attaches the library-item reference, nulling it with an audit
// note when the ID is absent, unknown, or the lookup fails.
func (r *Reconstructor) resolveItem(ctx context.Context, row *models.PlaybackRow, session *models.PlaybackSession) {
	id := strings.TrimSpace(row.ItemID)
	if id == "" {
		session.AuditNotes = append(session.AuditNotes, "source row has no item id")
		return
	}

	_, ok, err := r.refs.LookupItem(ctx, id)
	if err != nil {
		session.AuditNotes = append(session.AuditNotes,
			fmt.Sprintf("item lookup failed for %s: %v", id, err))
		return
	}
	if !ok {
		session.AuditNotes = append(session.AuditNotes,
			fmt.Sprintf("item %s not found; reference omitted", id))
		return
	}

	session.ItemID = &id
}

// deterministicSessionID derives the session identity from row content, so
// re-importing the same source row reproduces the same ID. The source format
// carries no native session identifier; hashing the identity fields makes
// the conflict-ignore insert the deduplication point.
func deterministicSessionID(row *models.PlaybackRow, startMs, durationSeconds int64) uuid.UUID {
	input := fmt.Sprintf("%s|%s|%d|%d|%s|%s",
		row.UserID, row.ItemID, startMs, durationSeconds, row.Client, row.DeviceName)

	hash := sha256.Sum256([]byte(input))

	// 16 bytes of input cannot fail the conversion.
	id, err := uuid.FromBytes(hash[:16])
	if err != nil {
		return uuid.New()
	}

	// Stamp version 5 (hash-derived) and RFC 4122 variant bits.
	id[6] = (id[6] & 0x0f) | 0x50
	id[8] = (id[8] & 0x3f) | 0x80

	return id
}
