// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"strings"

	"github.com/chronica-app/chronica/internal/models"
)

// ParsePlayMethod classifies the free-text playback-method descriptor.
//
// Exact matches "DirectPlay" and "DirectStream" map to their modes. Text
// beginning with "Transcode" may carry a parenthesized codec suffix of the
// form "(v:<video> a:<audio>)"; the interior tokens are extracted
// independently, so either, both, or neither codec may be present. A missing
// or unbalanced suffix degrades to a bare Transcode classification rather
// than an error. Anything else, including the empty string, is Other.
func ParsePlayMethod(s string) models.PlayMethod {
	s = strings.TrimSpace(s)

	switch s {
	case "DirectPlay":
		return models.PlayMethod{Mode: models.PlayModeDirectPlay}
	case "DirectStream":
		return models.PlayMethod{Mode: models.PlayModeDirectStream}
	}

	if strings.HasPrefix(s, "Transcode") {
		method := models.PlayMethod{Mode: models.PlayModeTranscode}

		open := strings.Index(s, "(")
		if open < 0 {
			return method
		}
		closing := strings.Index(s[open:], ")")
		if closing < 0 {
			// Opening parenthesis with no close: keep the bare mode.
			return method
		}

		for _, token := range strings.Fields(s[open+1 : open+closing]) {
			switch {
			case strings.HasPrefix(token, "v:"):
				method.Video = strings.TrimPrefix(token, "v:")
			case strings.HasPrefix(token, "a:"):
				method.Audio = strings.TrimPrefix(token, "a:")
			}
		}
		return method
	}

	return models.PlayMethod{Mode: models.PlayModeOther}
}
