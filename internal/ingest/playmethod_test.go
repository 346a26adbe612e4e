// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"testing"

	"github.com/chronica-app/chronica/internal/models"
)

func TestParsePlayMethod(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  models.PlayMethod
	}{
		{
			name:  "direct play",
			input: "DirectPlay",
			want:  models.PlayMethod{Mode: models.PlayModeDirectPlay},
		},
		{
			name:  "direct stream",
			input: "DirectStream",
			want:  models.PlayMethod{Mode: models.PlayModeDirectStream},
		},
		{
			name:  "bare transcode",
			input: "Transcode",
			want:  models.PlayMethod{Mode: models.PlayModeTranscode},
		},
		{
			name:  "transcode with both codecs",
			input: "Transcode (v:h264 a:aac)",
			want:  models.PlayMethod{Mode: models.PlayModeTranscode, Video: "h264", Audio: "aac"},
		},
		{
			name:  "transcode with video codec only",
			input: "Transcode (v:hevc)",
			want:  models.PlayMethod{Mode: models.PlayModeTranscode, Video: "hevc"},
		},
		{
			name:  "transcode with audio codec only",
			input: "Transcode (a:mp3)",
			want:  models.PlayMethod{Mode: models.PlayModeTranscode, Audio: "mp3"},
		},
		{
			name:  "transcode with empty parentheses",
			input: "Transcode ()",
			want:  models.PlayMethod{Mode: models.PlayModeTranscode},
		},
		{
			name:  "transcode with unknown tokens ignored",
			input: "Transcode (v:h264 direct a:aac)",
			want:  models.PlayMethod{Mode: models.PlayModeTranscode, Video: "h264", Audio: "aac"},
		},
		{
			name:  "unbalanced parenthesis degrades to bare transcode",
			input: "Transcode (v:h264 a:aac",
			want:  models.PlayMethod{Mode: models.PlayModeTranscode},
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  DirectPlay  ",
			want:  models.PlayMethod{Mode: models.PlayModeDirectPlay},
		},
		{
			name:  "lowercase is not an exact match",
			input: "directplay",
			want:  models.PlayMethod{Mode: models.PlayModeOther},
		},
		{
			name:  "direct play with space",
			input: "Direct Play",
			want:  models.PlayMethod{Mode: models.PlayModeOther},
		},
		{
			name:  "empty",
			input: "",
			want:  models.PlayMethod{Mode: models.PlayModeOther},
		},
		{
			name:  "unrelated text",
			input: "Streaming",
			want:  models.PlayMethod{Mode: models.PlayModeOther},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePlayMethod(tt.input)
			if got != tt.want {
				t.Errorf("ParsePlayMethod(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
