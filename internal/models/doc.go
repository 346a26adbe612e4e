// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

/*
Package models defines the data structures shared across Chronica.

The import pipeline moves through three shapes:

 1. PlaybackRow: one source record after format adaptation. Raw field
    values are preserved next to their normalized companions so that
    reconstruction and error reporting can always refer back to what the
    export actually said.
 2. PlaybackSession: the reconstructed, persisted playback record with a
    deterministic identity, resolved references, and audit notes for
    anything the source left dangling.
 3. ImportRun: the audit record of one import invocation.

User and LibraryItem are the reference-store entries sessions resolve
their external IDs against.
*/
package models
