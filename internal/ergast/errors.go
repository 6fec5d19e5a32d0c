// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package ergast

import "errors"

var (
	// ErrNotFound indicates the provider has no data for the requested
	// season or round (empty RaceTable).
	ErrNotFound = errors.New("ergast: no data for requested race")

	// ErrRateLimited indicates the provider kept returning HTTP 429 after
	// all retries were exhausted.
	ErrRateLimited = errors.New("ergast: rate limit exceeded after retries")
)
