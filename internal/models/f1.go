// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

// Package models defines the flat, externally-sourced records Pitwall serves.
//
// All records originate from the upstream F1 data provider and are consumed
// as-is: no foreign-key enforcement, no normalization, no durable store
// beyond the transparent session cache. Nullable fields (lap position, lap
// time upstream) are expected and filtered where charts need them.
package models

// Race identifies one Grand Prix within a season.
type Race struct {
	Round    int    `json:"round"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Location string `json:"location"`
}

// Lap is one driver's timing and position data for one lap of one race.
//
// Position is a pointer because the provider omits it for laps where the
// driver was in the pits or the data feed dropped; chart series filter
// nil positions client- and server-side.
type Lap struct {
	Driver    string  `json:"driver"`
	LapNumber int     `json:"lap_number"`
	LapTime   float64 `json:"lap_time"`
	Position  *int    `json:"position"`
}

// Result is one driver's classified finishing record for a race.
type Result struct {
	Driver     string  `json:"driver"`
	DriverName string  `json:"driver_name"`
	Team       string  `json:"team"`
	Position   *int    `json:"position"`
	Points     float64 `json:"points"`
}

// Driver is a display record for the driver selector.
type Driver struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Team string `json:"team"`
}

// RaceInfo is the descriptive header for a loaded race session.
type RaceInfo struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Location string `json:"location"`
}

// RaceSession is a fully loaded race: header, classified results, and every
// timed lap. It is the unit of caching — one session per (year, round).
type RaceSession struct {
	Year      int      `json:"year"`
	Round     int      `json:"round"`
	Race      RaceInfo `json:"race"`
	Results   []Result `json:"results"`
	Laps      []Lap    `json:"laps"`
	TotalLaps int      `json:"total_laps"`
}

// Drivers derives the driver selector list from the session's results,
// preserving classified order.
func (s *RaceSession) Drivers() []Driver {
	drivers := make([]Driver, 0, len(s.Results))
	for _, res := range s.Results {
		drivers = append(drivers, Driver{
			Code: res.Driver,
			Name: res.DriverName,
			Team: res.Team,
		})
	}
	return drivers
}
