// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package validation

// ImportRequest is the validated shape of an import invocation.
type ImportRequest struct {
	// Path is the export file to import.
	Path string `validate:"required,file"`

	// Format selects the adapter; auto resolves from the file extension.
	Format string `validate:"required,oneof=tsv json sqlite auto"`
}

// RefsLoadRequest is the validated shape of a reference-table load. At
// least one of the two files must be given.
type RefsLoadRequest struct {
	// Users is a JSON export of user references.
	Users string `validate:"required_without=Items,omitempty,file"`

	// Items is a JSON export of library item references.
	Items string `validate:"required_without=Users,omitempty,file"`
}
