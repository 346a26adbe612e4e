// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTempFile creates a file whose path can satisfy the "file" rule.
func writeTempFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "export.tsv")
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestValidateStruct_ImportRequest(t *testing.T) {
	existing := writeTempFile(t)

	tests := []struct {
		name    string
		req     ImportRequest
		wantErr string
	}{
		{
			name: "valid request",
			req:  ImportRequest{Path: existing, Format: "tsv"},
		},
		{
			name: "valid auto format",
			req:  ImportRequest{Path: existing, Format: "auto"},
		},
		{
			name:    "missing path",
			req:     ImportRequest{Format: "tsv"},
			wantErr: "Path is required",
		},
		{
			name:    "path does not exist",
			req:     ImportRequest{Path: "/nonexistent/export.tsv", Format: "tsv"},
			wantErr: "Path must be an existing file",
		},
		{
			name:    "missing format",
			req:     ImportRequest{Path: existing},
			wantErr: "Format is required",
		},
		{
			name:    "unknown format",
			req:     ImportRequest{Path: existing, Format: "xml"},
			wantErr: "Format must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("ValidateStruct() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateStruct_RefsLoadRequest(t *testing.T) {
	existing := writeTempFile(t)

	tests := []struct {
		name    string
		req     RefsLoadRequest
		wantErr bool
	}{
		{
			name: "users only",
			req:  RefsLoadRequest{Users: existing},
		},
		{
			name: "items only",
			req:  RefsLoadRequest{Items: existing},
		},
		{
			name: "both files",
			req:  RefsLoadRequest{Users: existing, Items: existing},
		},
		{
			name:    "neither file",
			req:     RefsLoadRequest{},
			wantErr: true,
		},
		{
			name:    "users path missing on disk",
			req:     RefsLoadRequest{Users: "/nonexistent/users.json"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationError_Accessors(t *testing.T) {
	req := ImportRequest{Format: "xml"}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	errs := err.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}

	first := errs[0]
	if first.Field() != "Path" {
		t.Errorf("Field() = %q, want Path", first.Field())
	}
	if first.Tag() != "required" {
		t.Errorf("Tag() = %q, want required", first.Tag())
	}

	second := errs[1]
	if second.Tag() != "oneof" {
		t.Errorf("Tag() = %q, want oneof", second.Tag())
	}
	if second.Param() != "tsv json sqlite auto" {
		t.Errorf("Param() = %q, want allowed format list", second.Param())
	}
	if second.Value() != "xml" {
		t.Errorf("Value() = %v, want xml", second.Value())
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
