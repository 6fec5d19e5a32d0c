// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package session

import (
	"testing"

	"github.com/tomtom215/pitwall/internal/models"
)

func intPtr(v int) *int { return &v }

func TestWinner(t *testing.T) {
	tests := []struct {
		name    string
		results []models.Result
		want    string // driver code, "" = nil expected
	}{
		{
			name: "classified winner",
			results: []models.Result{
				{Driver: "NOR", Position: intPtr(2)},
				{Driver: "VER", Position: intPtr(1)},
			},
			want: "VER",
		},
		{
			name: "no position data falls back to first listed",
			results: []models.Result{
				{Driver: "FAN", Position: nil},
				{Driver: "MOS", Position: nil},
			},
			want: "FAN",
		},
		{
			name:    "empty results",
			results: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Winner(tt.results)
			switch {
			case tt.want == "" && got != nil:
				t.Errorf("Winner() = %+v, want nil", got)
			case tt.want != "" && (got == nil || got.Driver != tt.want):
				t.Errorf("Winner() = %+v, want driver %q", got, tt.want)
			}
		})
	}
}

func TestFastestLap(t *testing.T) {
	laps := []models.Lap{
		{Driver: "VER", LapNumber: 10, LapTime: 93.2, Position: intPtr(1)},
		{Driver: "NOR", LapNumber: 44, LapTime: 91.7, Position: intPtr(2)},
		{Driver: "VER", LapNumber: 45, LapTime: 92.1, Position: intPtr(1)},
	}

	got := FastestLap(laps)
	if got == nil || got.Driver != "NOR" || got.LapNumber != 44 {
		t.Errorf("FastestLap() = %+v, want NOR lap 44", got)
	}

	if got := FastestLap(nil); got != nil {
		t.Errorf("FastestLap(nil) = %+v, want nil", got)
	}
}

func TestDriverSeries(t *testing.T) {
	laps := []models.Lap{
		{Driver: "VER", LapNumber: 3, LapTime: 92.0, Position: intPtr(1)},
		{Driver: "NOR", LapNumber: 1, LapTime: 95.0, Position: intPtr(2)},
		{Driver: "VER", LapNumber: 1, LapTime: 95.5, Position: intPtr(1)},
		{Driver: "VER", LapNumber: 2, LapTime: 93.0, Position: nil}, // pit lap, no position
	}

	series := DriverSeries(laps, "VER")
	if len(series) != 2 {
		t.Fatalf("DriverSeries() returned %d laps, want 2 (nil positions dropped)", len(series))
	}
	if series[0].LapNumber != 1 || series[1].LapNumber != 3 {
		t.Errorf("series not ascending by lap number: %+v", series)
	}

	if got := DriverSeries(laps, "HAM"); len(got) != 0 {
		t.Errorf("DriverSeries() for absent driver = %+v, want empty", got)
	}
}
