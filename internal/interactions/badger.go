// Marquee - Cinema Recommendation, Forecasting and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package interactions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
)

// logKey holds the whole log as one JSON array.
var logKey = []byte("interactions:log")

// BadgerStore persists the log in BadgerDB. Each Append runs read-all,
// append, truncate and write-all inside a single read-write transaction.
// Writers are serialized in-process so transactions never conflict.
type BadgerStore struct {
	db         *badger.DB
	writeMu    sync.Mutex
	maxEntries int
}

// OpenBadgerStore opens (or creates) a store at path.
func OpenBadgerStore(path string, maxEntries int) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	return openBadger(opts, maxEntries)
}

// OpenInMemoryBadgerStore opens a store with no on-disk footprint.
func OpenInMemoryBadgerStore(maxEntries int) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return openBadger(opts, maxEntries)
}

func openBadger(opts badger.Options, maxEntries int) (*BadgerStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	logging.Info().
		Str("path", opts.Dir).
		Bool("in_memory", opts.InMemory).
		Int("max_entries", maxEntries).
		Msg("Interaction store opened")
	return &BadgerStore{db: db, maxEntries: maxEntries}, nil
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Append implements Store.
func (s *BadgerStore) Append(ctx context.Context, in models.Interaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		log, err := readLog(txn)
		if err != nil {
			return err
		}
		data, err := json.Marshal(appendCapped(log, in, s.maxEntries))
		if err != nil {
			return fmt.Errorf("marshal interaction log: %w", err)
		}
		return txn.SetEntry(badger.NewEntry(logKey, data))
	})
	if err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// List implements Store.
func (s *BadgerStore) List(ctx context.Context) ([]models.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var log []models.Interaction
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		log, err = readLog(txn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return log, nil
}

// Clear implements Store.
func (s *BadgerStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(logKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear interactions: %w", err)
	}
	return nil
}

func readLog(txn *badger.Txn) ([]models.Interaction, error) {
	item, err := txn.Get(logKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get interaction log: %w", err)
	}

	var log []models.Interaction
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &log)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal interaction log: %w", err)
	}
	return log, nil
}
