// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

/*
Package api provides the HTTP layer for Pitwall.

It exposes a small read-only JSON API consumed by the bundled dashboard:

  - GET /                              service status and endpoint directory
  - GET /api/races/{year}              season schedule for the race selector
  - GET /api/race/{year}/{round}       full race payload: results, laps, summary
  - GET /api/drivers/{year}/{round}    driver selector list for a race
  - GET /api/health                    upstream and cache health
  - GET /metrics                       Prometheus metrics
  - GET /dashboard/*                   embedded single-page dashboard

Routing uses Chi with the go-chi middleware ecosystem (cors, httprate).
All payloads are flat JSON with a "status" discriminator; errors are the
single shape {"status":"error","message":"..."}.
*/
package api
