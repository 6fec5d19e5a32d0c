// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package ergast

// Wire types for the Ergast-compatible API (Jolpica). All numeric fields
// arrive as JSON strings, matching the provider's XML heritage; conversion
// to native types happens in internal/session.

// Envelope is the outermost wrapper every provider response carries.
type Envelope struct {
	MRData MRData `json:"MRData"`
}

// MRData holds pagination bookkeeping and exactly one payload table.
type MRData struct {
	Limit     string     `json:"limit"`
	Offset    string     `json:"offset"`
	Total     string     `json:"total"`
	RaceTable *RaceTable `json:"RaceTable,omitempty"`
}

// RaceTable is the payload for schedule, results and laps queries.
type RaceTable struct {
	Season string `json:"season"`
	Round  string `json:"round,omitempty"`
	Races  []Race `json:"Races"`
}

// Race carries schedule metadata plus whichever of Results/Laps the query
// asked for.
type Race struct {
	Season   string   `json:"season"`
	Round    string   `json:"round"`
	RaceName string   `json:"raceName"`
	Circuit  Circuit  `json:"Circuit"`
	Date     string   `json:"date"`
	Time     string   `json:"time,omitempty"`
	Results  []Result `json:"Results,omitempty"`
	Laps     []Lap    `json:"Laps,omitempty"`
}

type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

type Location struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

type Driver struct {
	DriverID    string `json:"driverId"`
	Code        string `json:"code,omitempty"`
	PermanentNo string `json:"permanentNumber,omitempty"`
	GivenName   string `json:"givenName"`
	FamilyName  string `json:"familyName"`
}

type Constructor struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
}

// Result is one classified finisher. Position is absent for some historic
// non-classified entries; PositionText carries "R"/"D"/"W" markers instead.
type Result struct {
	Number       string      `json:"number"`
	Position     string      `json:"position"`
	PositionText string      `json:"positionText"`
	Points       string      `json:"points"`
	Driver       Driver      `json:"Driver"`
	Constructor  Constructor `json:"Constructor"`
	Grid         string      `json:"grid"`
	Laps         string      `json:"laps"`
	Status       string      `json:"status"`
}

// Lap is one lap of the race with per-driver timings. Timings are keyed by
// driverId, not the three-letter code the dashboard displays.
type Lap struct {
	Number  string   `json:"number"`
	Timings []Timing `json:"Timings"`
}

type Timing struct {
	DriverID string `json:"driverId"`
	Position string `json:"position"`
	Time     string `json:"time"` // "1:23.456"
}
