// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/pitwall/internal/logging"
)

const (
	// defaultGCInterval is how often value log GC runs. Session payloads
	// are large and live sessions churn under TTL, so hourly keeps the
	// value log from growing unbounded.
	defaultGCInterval = time.Hour

	// gcDiscardRatio is the minimum fraction of a value log file that must
	// be garbage before Badger rewrites it.
	gcDiscardRatio = 0.5
)

// BadgerGCService periodically runs BadgerDB value log garbage collection
// on the session cache as a supervised service.
type BadgerGCService struct {
	db       *badger.DB
	interval time.Duration
	name     string
}

// NewBadgerGCService creates a GC service for the given database.
// An interval <= 0 uses the hourly default.
func NewBadgerGCService(db *badger.DB, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	return &BadgerGCService{
		db:       db,
		interval: interval,
		name:     "badger-gc",
	}
}

// Serve implements suture.Service. It runs GC on a ticker until the context
// is canceled. GC errors are logged, not returned: a failed sweep is retried
// on the next tick and must not restart the service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runGC()
		}
	}
}

// runGC rewrites value log files until no more cleanup is possible.
// badger.ErrNoRewrite means there was nothing worth collecting.
func (s *BadgerGCService) runGC() {
	start := time.Now()
	rewrites := 0
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			logging.Warn().Err(err).Msg("Badger value log GC failed")
			return
		}
		rewrites++
	}

	if rewrites > 0 {
		logging.Info().
			Int("rewrites", rewrites).
			Dur("duration", time.Since(start)).
			Msg("Badger value log GC completed")
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *BadgerGCService) String() string {
	return s.name
}
