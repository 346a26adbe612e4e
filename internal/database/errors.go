// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package database

import (
	"io"

	"github.com/chronica-app/chronica/internal/logging"
)

// closeWithLog closes a resource and logs any error at warn level.
// Used on cleanup paths where the close error cannot change the outcome
// but should not vanish silently.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().
			Err(err).
			Str("resource", resourceType).
			Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and discards any error. Only for error
// paths where a close failure carries no information the caller can use.
func closeQuietly(closer io.Closer) {
	if closer == nil {
		return
	}
	_ = closer.Close()
}
