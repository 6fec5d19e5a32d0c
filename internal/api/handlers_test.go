// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pitwall/internal/cache"
	"github.com/tomtom215/pitwall/internal/ergast"
	"github.com/tomtom215/pitwall/internal/models"
	"github.com/tomtom215/pitwall/internal/session"
)

// mockLoader implements SessionLoader for handler tests.
type mockLoader struct {
	racesFn   func(ctx context.Context, year int) ([]models.Race, error)
	sessionFn func(ctx context.Context, year, round int) (*models.RaceSession, error)
	pingErr   error
}

func (m *mockLoader) Races(ctx context.Context, year int) ([]models.Race, error) {
	if m.racesFn == nil {
		return nil, ergast.ErrNotFound
	}
	return m.racesFn(ctx, year)
}

func (m *mockLoader) LoadSession(ctx context.Context, year, round int) (*models.RaceSession, error) {
	if m.sessionFn == nil {
		return nil, ergast.ErrNotFound
	}
	return m.sessionFn(ctx, year, round)
}

func (m *mockLoader) Ping(ctx context.Context) error {
	return m.pingErr
}

func intPtr(v int) *int { return &v }

func testSession() *models.RaceSession {
	return &models.RaceSession{
		Year:  2024,
		Round: 5,
		Race: models.RaceInfo{
			Name:     "Chinese Grand Prix",
			Country:  "China",
			Location: "Shanghai",
		},
		Results: []models.Result{
			{Driver: "VER", DriverName: "Max Verstappen", Team: "Red Bull", Position: intPtr(1), Points: 25},
			{Driver: "NOR", DriverName: "Lando Norris", Team: "McLaren", Position: intPtr(2), Points: 18},
		},
		Laps: []models.Lap{
			{Driver: "VER", LapNumber: 1, LapTime: 101.2, Position: intPtr(1)},
			{Driver: "VER", LapNumber: 2, LapTime: 100.1, Position: intPtr(1)},
			{Driver: "NOR", LapNumber: 1, LapTime: 101.9, Position: intPtr(2)},
		},
		TotalLaps: 2,
	}
}

// serveRoute runs a request through the full Chi stack so URL parameters
// resolve the same way they do in production.
func serveRoute(t *testing.T, loader SessionLoader, path string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(loader, nil, nil)
	router := NewRouter(handler, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.SetupChi().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
}

func TestHome(t *testing.T) {
	rec := serveRoute(t, &mockLoader{}, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.HomeResponse
	decodeBody(t, rec, &resp)

	if resp.Status != models.StatusSuccess {
		t.Errorf("expected success status, got %q", resp.Status)
	}
	if resp.Endpoints["races"] == "" {
		t.Error("expected endpoint directory to list races")
	}
}

func TestRaces(t *testing.T) {
	loader := &mockLoader{
		racesFn: func(ctx context.Context, year int) ([]models.Race, error) {
			if year != 2024 {
				t.Errorf("expected year 2024, got %d", year)
			}
			return []models.Race{
				{Round: 1, Name: "Bahrain Grand Prix", Country: "Bahrain", Location: "Sakhir"},
				{Round: 2, Name: "Saudi Arabian Grand Prix", Country: "Saudi Arabia", Location: "Jeddah"},
			}, nil
		},
	}

	rec := serveRoute(t, loader, "/api/races/2024")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.RacesResponse
	decodeBody(t, rec, &resp)

	if resp.Year != 2024 {
		t.Errorf("expected year 2024, got %d", resp.Year)
	}
	if len(resp.Races) != 2 {
		t.Fatalf("expected 2 races, got %d", len(resp.Races))
	}
	if resp.Races[0].Name != "Bahrain Grand Prix" {
		t.Errorf("unexpected first race: %q", resp.Races[0].Name)
	}
}

func TestRacesInvalidYear(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"non-numeric", "/api/races/abc"},
		{"before first season", "/api/races/1949"},
		{"far future", "/api/races/3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveRoute(t, &mockLoader{}, tt.path)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}

			var resp models.ErrorResponse
			decodeBody(t, rec, &resp)
			if resp.Status != models.StatusError {
				t.Errorf("expected error status, got %q", resp.Status)
			}
			if resp.Message != msgInvalidYear {
				t.Errorf("expected %q, got %q", msgInvalidYear, resp.Message)
			}
		})
	}
}

func TestRaceData(t *testing.T) {
	loader := &mockLoader{
		sessionFn: func(ctx context.Context, year, round int) (*models.RaceSession, error) {
			return testSession(), nil
		},
	}

	rec := serveRoute(t, loader, "/api/race/2024/5")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.RaceDataResponse
	decodeBody(t, rec, &resp)

	if resp.Race.Name != "Chinese Grand Prix" {
		t.Errorf("unexpected race name: %q", resp.Race.Name)
	}
	if resp.TotalLaps != 2 {
		t.Errorf("expected 2 total laps, got %d", resp.TotalLaps)
	}
	if len(resp.Laps) != 3 {
		t.Errorf("expected 3 lap records, got %d", len(resp.Laps))
	}

	if resp.Summary == nil {
		t.Fatal("expected summary")
	}
	if resp.Summary.Winner == nil || resp.Summary.Winner.Driver != "VER" {
		t.Errorf("expected VER as winner, got %+v", resp.Summary.Winner)
	}
	if resp.Summary.FastestLap == nil || resp.Summary.FastestLap.LapTime != 100.1 {
		t.Errorf("expected fastest lap 100.1, got %+v", resp.Summary.FastestLap)
	}
}

func TestRaceDataNotFound(t *testing.T) {
	rec := serveRoute(t, &mockLoader{}, "/api/race/2024/24")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != msgRaceNotFound {
		t.Errorf("expected %q, got %q", msgRaceNotFound, resp.Message)
	}
}

func TestRaceDataUpstreamFailure(t *testing.T) {
	loader := &mockLoader{
		sessionFn: func(ctx context.Context, year, round int) (*models.RaceSession, error) {
			return nil, errors.New("connection refused")
		},
	}

	rec := serveRoute(t, loader, "/api/race/2024/5")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != msgUpstreamFailure {
		t.Errorf("expected %q, got %q", msgUpstreamFailure, resp.Message)
	}
}

func TestRaceDataInvalidRound(t *testing.T) {
	rec := serveRoute(t, &mockLoader{}, "/api/race/2024/99")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != msgInvalidRound {
		t.Errorf("expected %q, got %q", msgInvalidRound, resp.Message)
	}
}

func TestDrivers(t *testing.T) {
	loader := &mockLoader{
		sessionFn: func(ctx context.Context, year, round int) (*models.RaceSession, error) {
			return testSession(), nil
		},
	}

	rec := serveRoute(t, loader, "/api/drivers/2024/5")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.DriversResponse
	decodeBody(t, rec, &resp)

	if len(resp.Drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(resp.Drivers))
	}
	if resp.Drivers[0].Code != "VER" || resp.Drivers[0].Name != "Max Verstappen" {
		t.Errorf("unexpected first driver: %+v", resp.Drivers[0])
	}
}

func TestHealth(t *testing.T) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mem := cache.New(time.Minute)
	t.Cleanup(mem.Close)
	store := session.NewStore(db)

	if err := store.PutSession(testSession(), 0); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	handler := NewHandler(&mockLoader{}, mem, store)
	router := NewRouter(handler, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	router.SetupChi().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.HealthStatus
	decodeBody(t, rec, &resp)

	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %q", resp.Status)
	}
	if !resp.UpstreamConnected {
		t.Error("expected upstream connected")
	}
	if resp.Cache == nil {
		t.Fatal("expected cache stats")
	}
	if resp.Cache.DiskSessions != 1 {
		t.Errorf("expected 1 cached session, got %d", resp.Cache.DiskSessions)
	}
}

func TestHealthDegraded(t *testing.T) {
	loader := &mockLoader{pingErr: errors.New("unreachable")}
	rec := serveRoute(t, loader, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.HealthStatus
	decodeBody(t, rec, &resp)

	if resp.Status != "degraded" {
		t.Errorf("expected degraded, got %q", resp.Status)
	}
	if resp.UpstreamConnected {
		t.Error("expected upstream disconnected")
	}
}
