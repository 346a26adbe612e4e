// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chronica-app/chronica/internal/models"
)

// fakeResolver is a map-backed ReferenceResolver with error injection.
// Shared by the reconstructor and importer tests.
type fakeResolver struct {
	users map[string]string
	items map[string]string
	err   error
}

func (f *fakeResolver) LookupUser(_ context.Context, id string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	name, ok := f.users[id]
	return name, ok, nil
}

func (f *fakeResolver) LookupItem(_ context.Context, id string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	name, ok := f.items[id]
	return name, ok, nil
}

// knownRefs returns a resolver that recognizes the shared test IDs.
func knownRefs() *fakeResolver {
	return &fakeResolver{
		users: map[string]string{testUserID: "alice"},
		items: map[string]string{testItemID: "The Matrix"},
	}
}

// testReconstructor pins the clock so ImportedAt is assertable.
func testReconstructor(refs ReferenceResolver) (*Reconstructor, time.Time) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewReconstructor(refs)
	r.now = func() time.Time { return fixed }
	return r, fixed
}

// validRow produces a complete tabular row through the real tokenizer.
func validRow(t *testing.T) *models.PlaybackRow {
	t.Helper()
	line := exportLine(
		"2010-08-21 20:21:05.6262924", testUserID, testItemID,
		"Movie", "The Matrix", "DirectPlay", "Jellyfin Web", "Firefox", "7200",
	)
	row, ok := TokenizeLine(line)
	if !ok {
		t.Fatal("fixture line did not tokenize")
	}
	return row
}

func TestBuildSession(t *testing.T) {
	ctx := context.Background()

	t.Run("complete row", func(t *testing.T) {
		r, fixed := testReconstructor(knownRefs())
		row := validRow(t)

		session, err := r.BuildSession(ctx, row, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}

		wantStart := time.Date(2010, 8, 21, 20, 21, 5, 626*int(time.Millisecond), time.Local)
		if !session.StartTime.Equal(wantStart) {
			t.Errorf("StartTime = %v, want %v", session.StartTime, wantStart)
		}
		if !session.EndTime.Equal(wantStart.Add(7200 * time.Second)) {
			t.Errorf("EndTime = %v, want start+duration", session.EndTime)
		}
		if session.DurationSeconds != 7200 {
			t.Errorf("DurationSeconds = %d, want 7200", session.DurationSeconds)
		}
		if session.ItemType != "Movie" || session.ItemName != "The Matrix" {
			t.Errorf("item = %q/%q", session.ItemType, session.ItemName)
		}
		if session.PlayMethod != "DirectPlay" || session.PlayMode != "DirectPlay" {
			t.Errorf("play = %q/%q", session.PlayMethod, session.PlayMode)
		}
		if !session.IsDirectPlay || session.IsTranscode {
			t.Errorf("flags = direct:%v transcode:%v", session.IsDirectPlay, session.IsTranscode)
		}
		if session.VideoCodec != nil || session.AudioCodec != nil {
			t.Error("codecs set for a direct play")
		}
		if session.ClientName != "Jellyfin Web" || session.DeviceName != "Firefox" {
			t.Errorf("client = %q/%q", session.ClientName, session.DeviceName)
		}
		if !session.Completed {
			t.Error("Completed = false, imported history is always finished")
		}
		if session.Source != "playback_reporting" {
			t.Errorf("Source = %q", session.Source)
		}
		if !session.ImportedAt.Equal(fixed) {
			t.Errorf("ImportedAt = %v, want pinned clock", session.ImportedAt)
		}
		if session.UserID == nil || *session.UserID != testUserID {
			t.Errorf("UserID = %v, want resolved reference", session.UserID)
		}
		if session.UserName == nil || *session.UserName != "alice" {
			t.Errorf("UserName = %v, want alice", session.UserName)
		}
		if session.ItemID == nil || *session.ItemID != testItemID {
			t.Errorf("ItemID = %v, want resolved reference", session.ItemID)
		}
		if len(session.AuditNotes) != 0 {
			t.Errorf("AuditNotes = %v, want none", session.AuditNotes)
		}
	})

	t.Run("deterministic ID", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())

		first, err := r.BuildSession(ctx, validRow(t), "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		second, err := r.BuildSession(ctx, validRow(t), "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}

		if first.ID != second.ID {
			t.Errorf("same row produced different IDs: %s, %s", first.ID, second.ID)
		}
		if first.ID.Version() != uuid.Version(5) {
			t.Errorf("ID version = %d, want 5", first.ID.Version())
		}
		if first.ID.Variant() != uuid.RFC4122 {
			t.Errorf("ID variant = %v, want RFC4122", first.ID.Variant())
		}
	})

	t.Run("ID changes with identity fields", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())

		base, err := r.BuildSession(ctx, validRow(t), "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}

		changed := validRow(t)
		changed.DeviceName = "Chromecast"
		other, err := r.BuildSession(ctx, changed, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}

		if base.ID == other.ID {
			t.Error("device change did not change the session ID")
		}
	})

	t.Run("ID ignores the display name", func(t *testing.T) {
		// Renaming an item upstream must not duplicate history on re-import
		r, _ := testReconstructor(knownRefs())

		base, err := r.BuildSession(ctx, validRow(t), "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}

		renamed := validRow(t)
		renamed.ItemName = "The Matrix (Remastered)"
		other, err := r.BuildSession(ctx, renamed, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}

		if base.ID != other.ID {
			t.Error("display name participated in the session identity")
		}
	})

	t.Run("fractional duration rounded to whole seconds", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		seconds := 86.6
		row.PositionSeconds = &seconds

		session, err := r.BuildSession(ctx, row, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if session.DurationSeconds != 87 {
			t.Errorf("DurationSeconds = %d, want 87", session.DurationSeconds)
		}
	})

	t.Run("transcode codecs attached", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		row.PlayMethodRaw = "Transcode (v:h264 a:aac)"

		session, err := r.BuildSession(ctx, row, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if !session.IsTranscode || session.IsDirectPlay {
			t.Errorf("flags = transcode:%v direct:%v", session.IsTranscode, session.IsDirectPlay)
		}
		if session.PlayMode != "Transcode" {
			t.Errorf("PlayMode = %q", session.PlayMode)
		}
		if session.VideoCodec == nil || *session.VideoCodec != "h264" {
			t.Errorf("VideoCodec = %v, want h264", session.VideoCodec)
		}
		if session.AudioCodec == nil || *session.AudioCodec != "aac" {
			t.Errorf("AudioCodec = %v, want aac", session.AudioCodec)
		}
		if session.PlayMethod != "Transcode (v:h264 a:aac)" {
			t.Errorf("PlayMethod = %q, raw descriptor not preserved", session.PlayMethod)
		}
	})

	t.Run("episode identity extracted", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		row.ItemType = "Episode"
		row.ItemName = "Breaking Bad - s01e01 - Pilot"

		session, err := r.BuildSession(ctx, row, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if session.SeriesName == nil || *session.SeriesName != "Breaking Bad" {
			t.Errorf("SeriesName = %v, want Breaking Bad", session.SeriesName)
		}
		if session.SeasonNumber == nil || *session.SeasonNumber != 1 {
			t.Errorf("SeasonNumber = %v, want 1", session.SeasonNumber)
		}
		if session.EpisodeNumber == nil || *session.EpisodeNumber != 1 {
			t.Errorf("EpisodeNumber = %v, want 1", session.EpisodeNumber)
		}
	})

	t.Run("episode extraction is gated on item type", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		row.ItemType = "Movie"
		row.ItemName = "Breaking Bad - s01e01"

		session, err := r.BuildSession(ctx, row, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if session.SeriesName != nil {
			t.Errorf("SeriesName = %v for a movie", *session.SeriesName)
		}
	})

	t.Run("non-episodic episode name is not an error", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		row.ItemType = "Episode"
		row.ItemName = "Christmas Special"

		session, err := r.BuildSession(ctx, row, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if session.SeriesName != nil || session.SeasonNumber != nil {
			t.Error("episode fields set from an unmarked title")
		}
	})

	t.Run("adapter milliseconds preferred over raw text", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		ms := time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC).UnixMilli()
		row.TimestampMs = &ms
		row.TimestampRaw = "garbage that would not parse"

		session, err := r.BuildSession(ctx, row, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if !session.StartTime.Equal(time.UnixMilli(ms)) {
			t.Errorf("StartTime = %v, adapter milliseconds not used", session.StartTime)
		}
	})

	t.Run("unparseable timestamp is row-fatal", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		row.TimestampMs = nil
		row.TimestampRaw = "garbage"

		_, err := r.BuildSession(ctx, row, "playback_reporting")
		if err == nil {
			t.Fatal("BuildSession() accepted an unparseable timestamp")
		}
		if !strings.Contains(err.Error(), `"garbage"`) {
			t.Errorf("error %q does not quote the raw timestamp", err.Error())
		}
	})

	t.Run("missing duration is row-fatal", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		row.PositionSeconds = nil

		_, err := r.BuildSession(ctx, row, "playback_reporting")
		if err == nil || !strings.Contains(err.Error(), "missing play duration") {
			t.Errorf("BuildSession() error = %v, want missing play duration", err)
		}
	})

	t.Run("zero duration is row-fatal", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		zero := 0.0
		row.PositionSeconds = &zero

		_, err := r.BuildSession(ctx, row, "playback_reporting")
		if err == nil || !strings.Contains(err.Error(), "non-positive play duration") {
			t.Errorf("BuildSession() error = %v, want non-positive play duration", err)
		}
	})

	t.Run("negative duration is row-fatal", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		negative := -10.0
		row.PositionSeconds = &negative

		_, err := r.BuildSession(ctx, row, "playback_reporting")
		if err == nil {
			t.Error("BuildSession() accepted a negative duration")
		}
	})
}

func TestBuildSessionReferences(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user nulled with audit note", func(t *testing.T) {
		refs := knownRefs()
		delete(refs.users, testUserID)
		r, _ := testReconstructor(refs)

		session, err := r.BuildSession(ctx, validRow(t), "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if session.UserID != nil || session.UserName != nil {
			t.Error("unknown user reference not nulled")
		}
		if len(session.AuditNotes) != 1 || !strings.Contains(session.AuditNotes[0], "not found") {
			t.Errorf("AuditNotes = %v, want a not-found note", session.AuditNotes)
		}
		if !strings.Contains(session.AuditNotes[0], testUserID) {
			t.Errorf("AuditNotes = %v, note does not name the ID", session.AuditNotes)
		}
	})

	t.Run("unknown item nulled with audit note", func(t *testing.T) {
		refs := knownRefs()
		delete(refs.items, testItemID)
		r, _ := testReconstructor(refs)

		session, err := r.BuildSession(ctx, validRow(t), "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if session.ItemID != nil {
			t.Error("unknown item reference not nulled")
		}
		if len(session.AuditNotes) != 1 || !strings.Contains(session.AuditNotes[0], "item") {
			t.Errorf("AuditNotes = %v, want an item note", session.AuditNotes)
		}
	})

	t.Run("empty IDs noted without lookup", func(t *testing.T) {
		r, _ := testReconstructor(knownRefs())
		row := validRow(t)
		row.UserID = "  "
		row.ItemID = ""

		session, err := r.BuildSession(ctx, row, "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() failed: %v", err)
		}
		if len(session.AuditNotes) != 2 {
			t.Fatalf("AuditNotes = %v, want two notes", session.AuditNotes)
		}
		if !strings.Contains(session.AuditNotes[0], "no user id") {
			t.Errorf("first note = %q", session.AuditNotes[0])
		}
		if !strings.Contains(session.AuditNotes[1], "no item id") {
			t.Errorf("second note = %q", session.AuditNotes[1])
		}
	})

	t.Run("lookup failure is soft", func(t *testing.T) {
		refs := &fakeResolver{err: errors.New("store offline")}
		r, _ := testReconstructor(refs)

		session, err := r.BuildSession(ctx, validRow(t), "playback_reporting")
		if err != nil {
			t.Fatalf("BuildSession() treated a lookup failure as fatal: %v", err)
		}
		if session.UserID != nil || session.ItemID != nil {
			t.Error("references set despite lookup failures")
		}
		if len(session.AuditNotes) != 2 {
			t.Fatalf("AuditNotes = %v, want two notes", session.AuditNotes)
		}
		for _, note := range session.AuditNotes {
			if !strings.Contains(note, "lookup failed") {
				t.Errorf("note %q does not mention the failure", note)
			}
		}
	})
}
