// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

// errors.go - Client-facing error messages
//
// The API emits a single coarse error shape; these are the canonical
// messages for each failure class.
package api

const (
	msgInvalidYear     = "invalid season year"
	msgInvalidRound    = "invalid round number"
	msgRaceNotFound    = "race data not found"
	msgUpstreamFailure = "upstream data provider unavailable"
)
