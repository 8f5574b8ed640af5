// Package store persists the wardrobe in a Badger key-value database.
//
// All durable entities (members, items, tags, locations, transfer records,
// settings) live here; reads are plain snapshots and change notification is
// handled one layer up by the services, which emit typed events after each
// successful write.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil      // Badger's own logging is too chatty
	opts.SyncWrites = true // survive power loss on the little boxes this runs on
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if logger != nil {
		logger.Info("database opened", "path", path)
	}
	return s, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
