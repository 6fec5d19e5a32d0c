// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package session

import (
	"sort"

	"github.com/tomtom215/pitwall/internal/models"
)

// Winner returns the result classified in position 1, falling back to the
// first listed result for historic races without position data. Returns nil
// for an empty result set.
func Winner(results []models.Result) *models.Result {
	for i := range results {
		if results[i].Position != nil && *results[i].Position == 1 {
			return &results[i]
		}
	}
	if len(results) > 0 {
		return &results[0]
	}
	return nil
}

// FastestLap returns the lap with the minimum recorded time. Laps without a
// time never enter the session, so every candidate is comparable. Returns
// nil when no laps were timed.
func FastestLap(laps []models.Lap) *models.Lap {
	var fastest *models.Lap
	for i := range laps {
		if fastest == nil || laps[i].LapTime < fastest.LapTime {
			fastest = &laps[i]
		}
	}
	return fastest
}

// DriverSeries extracts one driver's chart-ready lap series: laps without a
// recorded position are dropped and the remainder is sorted by lap number
// ascending.
func DriverSeries(laps []models.Lap, driver string) []models.Lap {
	series := make([]models.Lap, 0)
	for _, lap := range laps {
		if lap.Driver == driver && lap.Position != nil {
			series = append(series, lap)
		}
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].LapNumber < series[j].LapNumber
	})
	return series
}
