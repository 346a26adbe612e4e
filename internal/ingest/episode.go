// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// episodePattern matches "series name - s<digits>e<digits>" with optional
// trailing hyphen-delimited title text, which is discarded. The lazy series
// capture stops at the first hyphen that is followed by a valid marker, so
// series names containing their own hyphens survive ("Doctor Who - 2005 -
// s01e01" yields series "Doctor Who - 2005").
var episodePattern = regexp.MustCompile(`(?i)^(.+?)\s*-\s*s(\d+)e(\d+)`)

// EpisodeInfo is the series/season/episode identity recovered from a
// composite display title. All three fields are populated together; partial
// extraction is not a valid outcome.
type EpisodeInfo struct {
	Series  string
	Season  int
	Episode int
}

// ParseEpisodeInfo recovers episode identity from an item display title.
// Returns false for titles with no season/episode marker (movies, specials),
// which is the expected outcome for non-episodic content, not an error.
// Series and trailing episode titles may freely contain hyphens, colons,
// ampersands, apostrophes, commas, and non-ASCII letters.
func ParseEpisodeInfo(title string) (EpisodeInfo, bool) {
	m := episodePattern.FindStringSubmatch(title)
	if m == nil {
		return EpisodeInfo{}, false
	}

	series := strings.TrimSpace(m[1])
	if series == "" {
		return EpisodeInfo{}, false
	}

	season, err := strconv.Atoi(m[2])
	if err != nil {
		return EpisodeInfo{}, false
	}
	episode, err := strconv.Atoi(m[3])
	if err != nil {
		return EpisodeInfo{}, false
	}

	return EpisodeInfo{Series: series, Season: season, Episode: episode}, true
}
