// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

// Package session assembles and caches race sessions: one fully loaded race
// (results plus lap timings) per (year, round). Caching is two-tier: a TTL
// memory cache in front of a BadgerDB disk store, so completed races survive
// restarts without ever re-hitting the upstream provider.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pitwall/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	sessionKeyPrefix  = "session:"
	scheduleKeyPrefix = "schedule:"
)

// ErrNotCached indicates the disk store has no entry for the key.
var ErrNotCached = errors.New("session: not in disk cache")

// Store is the BadgerDB-backed disk tier. Completed races are written
// without a TTL (their data is immutable); in-progress races get a short
// TTL so fresh laps show up on the next poll.
type Store struct {
	db *badger.DB
}

// NewStore creates a disk store on an open Badger database.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

func sessionKey(year, round int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", sessionKeyPrefix, year, round))
}

func scheduleKey(year int) []byte {
	return []byte(fmt.Sprintf("%s%d", scheduleKeyPrefix, year))
}

// GetSession retrieves a cached race session. Returns ErrNotCached when the
// key is absent or expired.
func (s *Store) GetSession(year, round int) (*models.RaceSession, error) {
	var sess models.RaceSession

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(year, round))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotCached
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// PutSession stores a race session. A ttl of zero or less persists the entry
// indefinitely.
func (s *Store) PutSession(sess *models.RaceSession, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(sess.Year, sess.Round), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// GetSchedule retrieves a cached season calendar.
func (s *Store) GetSchedule(year int) ([]models.Race, error) {
	var races []models.Race

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(scheduleKey(year))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotCached
		}
		if err != nil {
			return fmt.Errorf("get schedule: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &races)
		})
	})
	if err != nil {
		return nil, err
	}

	return races, nil
}

// PutSchedule stores a season calendar. Past seasons never change, so they
// are stored without a TTL; pass a positive ttl for the running season.
func (s *Store) PutSchedule(year int, races []models.Race, ttl time.Duration) error {
	data, err := json.Marshal(races)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(scheduleKey(year), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// SessionCount returns the number of persisted sessions, used by the health
// endpoint.
func (s *Store) SessionCount() (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}
