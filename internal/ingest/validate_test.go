// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/chronica-app/chronica/internal/models"
)

// rowWithTimestamp builds a minimal row carrying only the raw timestamp,
// which is all the batch validator inspects.
func rowWithTimestamp(ts string) models.PlaybackRow {
	return models.PlaybackRow{TimestampRaw: ts}
}

func TestValidateBatch(t *testing.T) {
	t.Run("empty batch rejected", func(t *testing.T) {
		err := ValidateBatch(nil)
		if !errors.Is(err, ErrEmptyBatch) {
			t.Errorf("ValidateBatch(nil) = %v, want ErrEmptyBatch", err)
		}
	})

	t.Run("valid export timestamps accepted", func(t *testing.T) {
		rows := []models.PlaybackRow{
			rowWithTimestamp("2010-08-21 20:21:05"),
			rowWithTimestamp("2010-08-21 20:21:05.626"),
		}
		if err := ValidateBatch(rows); err != nil {
			t.Errorf("ValidateBatch() = %v, want nil", err)
		}
	})

	t.Run("fallback timestamps accepted", func(t *testing.T) {
		rows := []models.PlaybackRow{
			rowWithTimestamp("2010-08-21T20:21:05Z"),
			rowWithTimestamp("2010-08-21"),
		}
		if err := ValidateBatch(rows); err != nil {
			t.Errorf("ValidateBatch() = %v, want nil", err)
		}
	})

	t.Run("missing timestamp names the record", func(t *testing.T) {
		rows := []models.PlaybackRow{
			rowWithTimestamp("2010-08-21 20:21:05"),
			rowWithTimestamp("   "),
		}
		err := ValidateBatch(rows)
		if err == nil {
			t.Fatal("ValidateBatch() accepted a blank timestamp")
		}
		if !strings.Contains(err.Error(), "record 2") {
			t.Errorf("error %q does not name record 2", err.Error())
		}
		if !strings.Contains(err.Error(), "missing timestamp") {
			t.Errorf("error %q does not say missing timestamp", err.Error())
		}
	})

	t.Run("unparseable timestamp names the record and value", func(t *testing.T) {
		rows := []models.PlaybackRow{
			rowWithTimestamp("garbage"),
		}
		err := ValidateBatch(rows)
		if err == nil {
			t.Fatal("ValidateBatch() accepted an unparseable timestamp")
		}
		if !strings.Contains(err.Error(), "record 1") {
			t.Errorf("error %q does not name record 1", err.Error())
		}
		if !strings.Contains(err.Error(), `"garbage"`) {
			t.Errorf("error %q does not quote the value", err.Error())
		}
	})

	t.Run("only the first five records are sampled", func(t *testing.T) {
		rows := make([]models.PlaybackRow, 0, 6)
		for i := 0; i < 5; i++ {
			rows = append(rows, rowWithTimestamp("2010-08-21 20:21:05"))
		}
		rows = append(rows, rowWithTimestamp("garbage beyond the sample"))

		if err := ValidateBatch(rows); err != nil {
			t.Errorf("ValidateBatch() = %v, sampling window exceeded", err)
		}
	})

	t.Run("fifth record is still sampled", func(t *testing.T) {
		rows := make([]models.PlaybackRow, 0, 5)
		for i := 0; i < 4; i++ {
			rows = append(rows, rowWithTimestamp("2010-08-21 20:21:05"))
		}
		rows = append(rows, rowWithTimestamp("garbage"))

		err := ValidateBatch(rows)
		if err == nil {
			t.Fatal("ValidateBatch() did not sample the fifth record")
		}
		if !strings.Contains(err.Error(), "record 5") {
			t.Errorf("error %q does not name record 5", err.Error())
		}
	})

	t.Run("batch smaller than the sample window", func(t *testing.T) {
		rows := []models.PlaybackRow{
			rowWithTimestamp("2010-08-21 20:21:05"),
		}
		if err := ValidateBatch(rows); err != nil {
			t.Errorf("ValidateBatch() = %v, want nil", err)
		}
	})
}
