// Chronica - Playback History Import and Normalization
// Copyright 2026 The Chronica Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chronica-app/chronica

package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ledgerKeyPrefix namespaces ledger entries in the BadgerDB keyspace.
const ledgerKeyPrefix = "ledger:"

// LedgerEntry records one completed import of a source file.
type LedgerEntry struct {
	// Source is the path the file was imported from.
	Source string `json:"source"`

	// Format is the resolved import format.
	Format string `json:"format"`

	// ImportedAt is when the import completed.
	ImportedAt time.Time `json:"imported_at"`

	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
	Total    int `json:"total"`
}

// RunLedger remembers which source files have already been imported, keyed
// by content digest. It exists to make accidental re-imports a no-op report
// instead of a scan over thousands of duplicate inserts.
type RunLedger interface {
	// Seen returns the entry for a digest, or nil, nil when unknown.
	Seen(digest string) (*LedgerEntry, error)

	// Record persists the entry for a digest, replacing any previous one.
	Record(digest string, entry *LedgerEntry) error

	Close() error
}

// SourceDigest returns the hex SHA-256 of the source file content. Identity
// is by content, so a renamed copy of an imported file is still recognized.
func SourceDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BadgerLedger implements RunLedger using BadgerDB for persistence.
// This keeps re-import detection working across process restarts.
type BadgerLedger struct {
	db *badger.DB
}

// OpenBadgerLedger opens (or creates) a ledger database at the given path.
func OpenBadgerLedger(path string) (*BadgerLedger, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	opts := badger.DefaultOptions(path)

	// Badger logs to stderr unless given a logger.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	return &BadgerLedger{db: db}, nil
}

// NewBadgerLedger creates a ledger over an already open BadgerDB instance.
func NewBadgerLedger(db *badger.DB) *BadgerLedger {
	return &BadgerLedger{db: db}
}

// Seen retrieves the entry for a digest.
// Returns nil, nil if the digest has never been recorded.
func (l *BadgerLedger) Seen(digest string) (*LedgerEntry, error) {
	var entry LedgerEntry

	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ledgerKey(digest))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})

	if err != nil {
		return nil, fmt.Errorf("load ledger entry: %w", err)
	}

	// A recorded entry always carries its import time; zero means not found.
	if entry.ImportedAt.IsZero() {
		return nil, nil
	}

	return &entry, nil
}

// Record persists the entry for a digest.
func (l *BadgerLedger) Record(digest string, entry *LedgerEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal ledger entry: %w", err)
	}

	return l.db.Update(func(txn *badger.Txn) error {
		return txn.Set(ledgerKey(digest), data)
	})
}

// Close closes the underlying BadgerDB.
func (l *BadgerLedger) Close() error {
	return l.db.Close()
}

func ledgerKey(digest string) []byte {
	return []byte(ledgerKeyPrefix + digest)
}

// MemoryLedger implements RunLedger using in-memory storage.
// This is useful for testing or when persistence is not required.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]*LedgerEntry
}

// NewMemoryLedger creates a new in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]*LedgerEntry)}
}

// Seen retrieves the entry for a digest from memory.
func (l *MemoryLedger) Seen(digest string) (*LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[digest]
	if !ok {
		return nil, nil
	}

	// Return a copy
	entryCopy := *entry
	return &entryCopy, nil
}

// Record stores the entry in memory.
func (l *MemoryLedger) Record(digest string, entry *LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// The ledger keeps its own copy; the caller keeps theirs.
	entryCopy := *entry
	l.entries[digest] = &entryCopy
	return nil
}

// Close is a no-op for the in-memory ledger.
func (l *MemoryLedger) Close() error {
	return nil
}
