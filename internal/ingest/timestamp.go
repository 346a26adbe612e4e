// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"strconv"
	"strings"
	"time"
)

// ParseExportTimestamp parses the plugin's timestamp format:
// "YYYY-MM-DD HH:mm:ss" with an optional fractional-seconds suffix of 0-7
// digits (a vendor fixed-point decimal, not an ISO fraction).
//
// The fraction is right-padded or truncated to exactly 3 digits and read as
// milliseconds, so ".5" means 500ms and ".6262924" means 626ms. The source
// format encodes no timezone; the result is the local-calendar interpretation
// of the components.
//
// Returns false when the date/time space separator is missing, the date does
// not have exactly 3 dash-separated parts, the time does not have exactly 3
// colon-separated parts, or any component is not numeric.
func ParseExportTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)

	parts := strings.Split(s, " ")
	if len(parts) < 2 {
		return time.Time{}, false
	}
	datePart, timePart := parts[0], parts[1]

	dateFields := strings.Split(datePart, "-")
	if len(dateFields) != 3 {
		return time.Time{}, false
	}
	timeFields := strings.Split(timePart, ":")
	if len(timeFields) != 3 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(dateFields[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(dateFields[1])
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dateFields[2])
	if err != nil {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(timeFields[0])
	if err != nil {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(timeFields[1])
	if err != nil {
		return time.Time{}, false
	}

	secondField, fraction, _ := strings.Cut(timeFields[2], ".")
	second, err := strconv.Atoi(secondField)
	if err != nil {
		return time.Time{}, false
	}

	millis, ok := fractionToMillis(fraction)
	if !ok {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, minute, second,
		millis*int(time.Millisecond), time.Local), true
}

// fractionToMillis converts a 0-7 digit fractional-seconds suffix to whole
// milliseconds: right-pad with zeros or truncate to 3 digits, then parse.
// Precision beyond milliseconds is deliberately discarded.
func fractionToMillis(fraction string) (int, bool) {
	if len(fraction) < 3 {
		fraction += strings.Repeat("0", 3-len(fraction))
	}
	fraction = fraction[:3]

	millis, err := strconv.Atoi(fraction)
	if err != nil {
		return 0, false
	}
	return millis, true
}

// fallbackLayouts are the generic layouts tried, in order, when the dedicated
// export format does not match. Covers ISO-style exports seen in the wild.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFallbackTimestamp attempts a generic date parse of s against a short
// list of common layouts. Used by the batch validator and the session
// reconstructor when the dedicated export format fails.
func ParseFallbackTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
