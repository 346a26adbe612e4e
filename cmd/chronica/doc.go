// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

// Package main hosts the Chronica CLI entrypoint and command graph.
//
// The Cobra-based command tree drives one-shot imports of playback
// reporting exports, reference-table loading, and import-run inspection.
// It centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
