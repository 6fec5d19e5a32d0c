// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/pitwall/internal/cache"
	"github.com/tomtom215/pitwall/internal/ergast"
	"github.com/tomtom215/pitwall/internal/logging"
	"github.com/tomtom215/pitwall/internal/models"
	"github.com/tomtom215/pitwall/internal/session"
	"github.com/tomtom215/pitwall/internal/validation"
)

// Version is the reported application version.
const Version = "1.0.0"

// SessionLoader is the race data surface the handlers depend on.
// *session.Loader satisfies it; tests substitute a mock.
type SessionLoader interface {
	Races(ctx context.Context, year int) ([]models.Race, error)
	LoadSession(ctx context.Context, year, round int) (*models.RaceSession, error)
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across two files:
//   - handlers.go: Handler struct, constructor, data endpoints (this file)
//   - handlers_health.go: Health endpoint
type Handler struct {
	loader    SessionLoader
	mem       *cache.Cache
	store     *session.Store
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - loader: two-tier cached race session loader
//   - mem: memory cache, exposed for hit-rate reporting in /api/health
//   - store: disk cache, exposed for session counts in /api/health
//
// Example:
//
//	handler := api.NewHandler(loader, mem, store)
//	router := api.NewRouter(handler, &cfg.Security)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(loader SessionLoader, mem *cache.Cache, store *session.Store) *Handler {
	return &Handler{
		loader:    loader,
		mem:       mem,
		store:     store,
		startTime: time.Now(),
	}
}

// raceParams carries the validated path parameters for race endpoints.
type raceParams struct {
	Year  int `validate:"season_year"`
	Round int `validate:"min=1,max=30"`
}

// seasonParams carries the validated path parameter for season endpoints.
type seasonParams struct {
	Year int `validate:"season_year"`
}

// Home handles GET / with the service status and endpoint directory.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.HomeResponse{
		Message: "Pitwall F1 Telemetry API",
		Status:  models.StatusSuccess,
		Endpoints: map[string]string{
			"races":     "/api/races/<year>",
			"race_data": "/api/race/<year>/<round>",
			"drivers":   "/api/drivers/<year>/<round>",
			"health":    "/api/health",
			"dashboard": "/dashboard/",
		},
	})
}

// Races handles GET /api/races/{year} with the season schedule.
func (h *Handler) Races(w http.ResponseWriter, r *http.Request) {
	year, err := parseURLInt(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidYear, err)
		return
	}
	if err := validation.ValidateStruct(&seasonParams{Year: year}); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidYear, err)
		return
	}

	races, err := h.loader.Races(r.Context(), year)
	if err != nil {
		respondLoadError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.RacesResponse{
		Status: models.StatusSuccess,
		Year:   year,
		Races:  races,
	})
}

// RaceData handles GET /api/race/{year}/{round} with the full race payload:
// header, classified results, every timed lap, and the derived summary
// (winner plus fastest lap).
func (h *Handler) RaceData(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parseRaceParams(w, r)
	if !ok {
		return
	}

	sess, err := h.loader.LoadSession(r.Context(), params.Year, params.Round)
	if err != nil {
		respondLoadError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.RaceDataResponse{
		Status:    models.StatusSuccess,
		Race:      sess.Race,
		Results:   sess.Results,
		Laps:      sess.Laps,
		TotalLaps: sess.TotalLaps,
		Summary: &models.SessionSummary{
			Winner:     session.Winner(sess.Results),
			FastestLap: session.FastestLap(sess.Laps),
		},
	})
}

// Drivers handles GET /api/drivers/{year}/{round} with the driver selector
// list, in classified order.
func (h *Handler) Drivers(w http.ResponseWriter, r *http.Request) {
	params, ok := h.parseRaceParams(w, r)
	if !ok {
		return
	}

	sess, err := h.loader.LoadSession(r.Context(), params.Year, params.Round)
	if err != nil {
		respondLoadError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.DriversResponse{
		Status:  models.StatusSuccess,
		Drivers: sess.Drivers(),
	})
}

// parseRaceParams extracts and validates {year} and {round}. On failure it
// writes the 400 response and returns ok=false.
func (h *Handler) parseRaceParams(w http.ResponseWriter, r *http.Request) (raceParams, bool) {
	year, err := parseURLInt(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidYear, err)
		return raceParams{}, false
	}
	round, err := parseURLInt(chi.URLParam(r, "round"))
	if err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidRound, err)
		return raceParams{}, false
	}

	params := raceParams{Year: year, Round: round}
	if err := validation.ValidateStruct(&params); err != nil {
		msg := msgInvalidYear
		var se *validation.StructError
		if errors.As(err, &se) && len(se.Errors) > 0 && se.Errors[0].Field == "Round" {
			msg = msgInvalidRound
		}
		respondError(w, http.StatusBadRequest, msg, err)
		return raceParams{}, false
	}
	return params, true
}

// respondLoadError maps loader failures to HTTP status codes: a round the
// provider has no data for is a 404, everything else (rate limit exhaustion,
// open circuit breaker, transport errors) is a 502.
func respondLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, ergast.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgRaceNotFound, nil)
		return
	}
	logging.Warn().Err(err).Msg("Upstream load failed")
	respondError(w, http.StatusBadGateway, msgUpstreamFailure, err)
}
