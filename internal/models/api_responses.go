// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package models

import "time"

// Response status discriminator values. Every payload the API emits carries
// exactly one of these in its "status" field.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorResponse is the single coarse error shape for all endpoints.
// The message is surfaced to the client verbatim.
//
//	{"status": "error", "message": "round 99 not found for season 2024"}
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HomeResponse is the service status payload served at GET /.
type HomeResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// RacesResponse lists a season's races for the race selector.
//
//	{"status":"success","year":2024,"races":[{"round":1,"name":"Bahrain Grand Prix",...}]}
type RacesResponse struct {
	Status string `json:"status"`
	Year   int    `json:"year"`
	Races  []Race `json:"races"`
}

// SessionSummary carries the server-side derivations for a loaded session:
// the race winner and the fastest timed lap.
type SessionSummary struct {
	Winner     *Result `json:"winner,omitempty"`
	FastestLap *Lap    `json:"fastest_lap,omitempty"`
}

// RaceDataResponse is the full payload for one race: header, results, lap
// records, and the derived summary.
type RaceDataResponse struct {
	Status    string          `json:"status"`
	Race      RaceInfo        `json:"race"`
	Results   []Result        `json:"results"`
	Laps      []Lap           `json:"laps"`
	TotalLaps int             `json:"total_laps"`
	Summary   *SessionSummary `json:"summary,omitempty"`
}

// DriversResponse lists the drivers who took part in a race.
type DriversResponse struct {
	Status  string   `json:"status"`
	Drivers []Driver `json:"drivers"`
}

// CacheStats is the session cache health snapshot exposed by /api/health.
type CacheStats struct {
	MemoryHits   int64 `json:"memory_hits"`
	MemoryMisses int64 `json:"memory_misses"`
	MemoryKeys   int64 `json:"memory_keys"`
	DiskSessions int   `json:"disk_sessions"`
}

// HealthStatus is the structured payload for GET /api/health.
type HealthStatus struct {
	Status            string      `json:"status"`
	Version           string      `json:"version"`
	UpstreamConnected bool        `json:"upstream_connected"`
	Cache             *CacheStats `json:"cache,omitempty"`
	Uptime            float64     `json:"uptime_seconds"`
	Timestamp         time.Time   `json:"timestamp"`
}
