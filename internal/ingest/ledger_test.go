// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"testing"
	"time"
)

func testLedgerEntry() *LedgerEntry {
	return &LedgerEntry{
		Source:     "/exports/history.tsv",
		Format:     "tsv",
		ImportedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Imported:   40,
		Skipped:    2,
		Errors:     1,
		Total:      43,
	}
}

func TestSourceDigest(t *testing.T) {
	a := SourceDigest([]byte("export content"))
	b := SourceDigest([]byte("export content"))
	c := SourceDigest([]byte("different content"))

	if a != b {
		t.Errorf("digest of identical content differs: %q vs %q", a, b)
	}
	if a == c {
		t.Error("digest of different content collides")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex characters", len(a))
	}
}

func TestMemoryLedger(t *testing.T) {
	ledger := NewMemoryLedger()
	digest := SourceDigest([]byte("export content"))

	entry, err := ledger.Seen(digest)
	if err != nil {
		t.Fatalf("Seen() on empty ledger: %v", err)
	}
	if entry != nil {
		t.Fatalf("Seen() = %+v, want nil for unknown digest", entry)
	}

	recorded := testLedgerEntry()
	if err := ledger.Record(digest, recorded); err != nil {
		t.Fatalf("Record(): %v", err)
	}

	entry, err = ledger.Seen(digest)
	if err != nil {
		t.Fatalf("Seen(): %v", err)
	}
	if entry == nil {
		t.Fatal("Seen() = nil after Record")
	}
	if entry.Source != recorded.Source || entry.Imported != recorded.Imported || entry.Total != recorded.Total {
		t.Errorf("Seen() = %+v, want %+v", entry, recorded)
	}

	// The ledger holds copies on both sides.
	recorded.Imported = 999
	entry.Skipped = 999

	again, err := ledger.Seen(digest)
	if err != nil {
		t.Fatalf("Seen(): %v", err)
	}
	if again.Imported != 40 || again.Skipped != 2 {
		t.Errorf("stored entry mutated through a caller copy: %+v", again)
	}

	if err := ledger.Close(); err != nil {
		t.Errorf("Close(): %v", err)
	}
}

func TestBadgerLedger(t *testing.T) {
	dir := t.TempDir()
	digest := SourceDigest([]byte("export content"))

	ledger, err := OpenBadgerLedger(dir)
	if err != nil {
		t.Fatalf("OpenBadgerLedger(): %v", err)
	}

	entry, err := ledger.Seen(digest)
	if err != nil {
		t.Fatalf("Seen() on fresh ledger: %v", err)
	}
	if entry != nil {
		t.Fatalf("Seen() = %+v, want nil for unknown digest", entry)
	}

	recorded := testLedgerEntry()
	if err := ledger.Record(digest, recorded); err != nil {
		t.Fatalf("Record(): %v", err)
	}

	entry, err = ledger.Seen(digest)
	if err != nil {
		t.Fatalf("Seen(): %v", err)
	}
	if entry == nil {
		t.Fatal("Seen() = nil after Record")
	}
	if entry.Source != recorded.Source || entry.Format != recorded.Format {
		t.Errorf("Seen() = %+v, want %+v", entry, recorded)
	}
	if !entry.ImportedAt.Equal(recorded.ImportedAt) {
		t.Errorf("ImportedAt = %v, want %v", entry.ImportedAt, recorded.ImportedAt)
	}

	if err := ledger.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}

	// Entries survive a reopen.
	reopened, err := OpenBadgerLedger(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Errorf("Close(): %v", err)
		}
	}()

	entry, err = reopened.Seen(digest)
	if err != nil {
		t.Fatalf("Seen() after reopen: %v", err)
	}
	if entry == nil {
		t.Fatal("entry lost across reopen")
	}
	if entry.Imported != 40 {
		t.Errorf("Imported = %d, want 40", entry.Imported)
	}
}
