// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"math"

	"github.com/chronica-app/chronica/internal/models"
)

const (
	// positionNotRecorded is the upstream sentinel for "position not
	// recorded" (minimum 32-bit signed integer), distinct from zero.
	positionNotRecorded = -2147483648

	// secondsUnitCeiling is the magnitude (24 hours) at which a raw value
	// stops being plausible as seconds and is reinterpreted as milliseconds.
	secondsUnitCeiling = 86400

	// millisResultCeiling is the maximum plausible position in seconds
	// (6 hours) after a milliseconds reinterpretation.
	millisResultCeiling = 21600
)

// Position is the unit-disambiguated form of a raw playback position.
// Seconds is meaningful only when Kind is not PositionInvalid.
type Position struct {
	Seconds float64
	Kind    models.PositionKind
}

// NormalizePosition disambiguates a raw playback-position value whose unit
// the export format does not declare. Clients silently mix seconds and
// milliseconds depending on version, so the value is classified by magnitude:
// below 24 hours it is taken as seconds; at or above, it is hypothesized to
// be milliseconds and accepted only if dividing by 1000 lands strictly
// between zero and 6 hours. The not-recorded sentinel and non-finite values
// are always invalid.
func NormalizePosition(v float64) Position {
	if math.IsNaN(v) || math.IsInf(v, 0) || v == positionNotRecorded {
		return Position{Kind: models.PositionInvalid}
	}

	if math.Abs(v) < secondsUnitCeiling {
		return Position{Seconds: v, Kind: models.PositionSeconds}
	}

	seconds := v / 1000
	if seconds > 0 && seconds < millisResultCeiling {
		return Position{Seconds: seconds, Kind: models.PositionMilliseconds}
	}
	return Position{Kind: models.PositionInvalid}
}
