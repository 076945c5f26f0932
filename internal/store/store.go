// Package store keeps workspace state in an in-memory Badger database.
// Nothing survives a restart.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/termalign/termalign-server/internal/domain"
)

const workspacePrefix = "workspace:"

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Workspaces *Entity[domain.Workspace]
}

// New opens an in-memory store.
func New(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}
	store.Workspaces = NewEntity[domain.Workspace](store, workspacePrefix, "workspace")

	if logger != nil {
		logger.Info("workspace store opened", "mode", "in-memory")
	}

	return store, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing workspace store")
	}
	return s.db.Close()
}

// Ping reports whether the database still answers reads.
func (s *Store) Ping() error {
	_, err := s.exists([]byte(workspacePrefix))
	return err
}

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
