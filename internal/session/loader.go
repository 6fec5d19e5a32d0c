// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/pitwall/internal/cache"
	"github.com/tomtom215/pitwall/internal/ergast"
	"github.com/tomtom215/pitwall/internal/logging"
	"github.com/tomtom215/pitwall/internal/metrics"
	"github.com/tomtom215/pitwall/internal/models"
)

// completedAfter is how long past the race date a session is considered
// final. Stewards' decisions can reshuffle results for a day or two, so the
// window is generous.
const completedAfter = 48 * time.Hour

// Loader assembles race sessions through the two cache tiers. Lookup order
// is memory, then disk, then the upstream provider; whatever a lower tier
// returns is promoted into the tiers above it.
type Loader struct {
	client  ergast.ClientInterface
	mem     *cache.Cache
	store   *Store
	liveTTL time.Duration
	now     func() time.Time
}

// NewLoader wires a loader onto the provider client and both cache tiers.
// liveTTL bounds how stale an in-progress race may get.
func NewLoader(client ergast.ClientInterface, mem *cache.Cache, store *Store, liveTTL time.Duration) *Loader {
	return &Loader{
		client:  client,
		mem:     mem,
		store:   store,
		liveTTL: liveTTL,
		now:     time.Now,
	}
}

// Races returns the season calendar for the race selector.
func (l *Loader) Races(ctx context.Context, year int) ([]models.Race, error) {
	key := fmt.Sprintf("races:%d", year)

	if v, ok := l.mem.Get(key); ok {
		metrics.RecordCacheHit("memory")
		return v.([]models.Race), nil
	}
	metrics.RecordCacheMiss("memory")

	races, err := l.store.GetSchedule(year)
	switch {
	case err == nil:
		metrics.RecordCacheHit("disk")
		l.mem.Set(key, races)
		return races, nil
	case !errors.Is(err, ErrNotCached):
		log := logging.Ctx(ctx)
		log.Warn().Err(err).Int("year", year).Msg("Disk schedule read failed")
	}
	metrics.RecordCacheMiss("disk")

	table, err := l.client.Schedule(ctx, year)
	if err != nil {
		return nil, err
	}

	races = convertSchedule(table)

	// Past seasons are immutable; the running calendar still gains and
	// loses rounds.
	ttl := time.Duration(0)
	if year >= l.now().Year() {
		ttl = l.liveTTL
	}
	if err := l.store.PutSchedule(year, races, ttl); err != nil {
		log := logging.Ctx(ctx)
		log.Warn().Err(err).Int("year", year).Msg("Disk schedule write failed")
	}
	l.mem.Set(key, races)

	return races, nil
}

// LoadSession returns the fully assembled session for one race, fetching
// results and lap timings from the provider on a cold cache.
func (l *Loader) LoadSession(ctx context.Context, year, round int) (*models.RaceSession, error) {
	key := fmt.Sprintf("session:%d:%d", year, round)

	if v, ok := l.mem.Get(key); ok {
		metrics.RecordCacheHit("memory")
		return v.(*models.RaceSession), nil
	}
	metrics.RecordCacheMiss("memory")

	sess, err := l.store.GetSession(year, round)
	switch {
	case err == nil:
		metrics.RecordCacheHit("disk")
		l.mem.Set(key, sess)
		return sess, nil
	case !errors.Is(err, ErrNotCached):
		log := logging.Ctx(ctx)
		log.Warn().Err(err).Int("year", year).Int("round", round).Msg("Disk session read failed")
	}
	metrics.RecordCacheMiss("disk")

	start := time.Now()

	resultsRace, err := l.client.Results(ctx, year, round)
	if err != nil {
		return nil, err
	}

	lapsRace, err := l.client.Laps(ctx, year, round)
	if err != nil && !errors.Is(err, ergast.ErrNotFound) {
		return nil, err
	}
	// A race can have published results before any lap data (or none at
	// all for pre-1996 seasons); serve it with an empty lap set.

	sess = buildSession(year, round, resultsRace, lapsRace)
	metrics.SessionLoadDuration.Observe(time.Since(start).Seconds())

	ttl := time.Duration(0)
	if !l.completed(resultsRace) {
		ttl = l.liveTTL
	}
	if err := l.store.PutSession(sess, ttl); err != nil {
		log := logging.Ctx(ctx)
		log.Warn().Err(err).Int("year", year).Int("round", round).Msg("Disk session write failed")
	}
	if ttl > 0 {
		l.mem.SetWithTTL(key, sess, ttl)
	} else {
		l.mem.Set(key, sess)
	}

	log := logging.Ctx(ctx)
	log.Info().
		Int("year", year).
		Int("round", round).
		Int("results", len(sess.Results)).
		Int("laps", len(sess.Laps)).
		Dur("load_time", time.Since(start)).
		Msg("Session loaded from provider")

	return sess, nil
}

// Ping reports upstream connectivity for the health endpoint.
func (l *Loader) Ping(ctx context.Context) error {
	return l.client.Ping(ctx)
}

// completed reports whether the race date is comfortably in the past.
// Unparseable dates are treated as live so stale data self-corrects.
func (l *Loader) completed(race *ergast.Race) bool {
	date, err := time.Parse("2006-01-02", race.Date)
	if err != nil {
		return false
	}
	return l.now().After(date.Add(completedAfter))
}

// buildSession converts the provider's results and laps payloads into one
// flat session record.
func buildSession(year, round int, resultsRace, lapsRace *ergast.Race) *models.RaceSession {
	sess := &models.RaceSession{
		Year:  year,
		Round: round,
		Race: models.RaceInfo{
			Name:     resultsRace.RaceName,
			Country:  resultsRace.Circuit.Location.Country,
			Location: resultsRace.Circuit.Location.Locality,
		},
		Results: convertResults(resultsRace.Results),
		Laps:    []models.Lap{},
	}

	if lapsRace != nil {
		codeByID := driverCodes(resultsRace.Results)
		sess.Laps = convertLaps(lapsRace.Laps, codeByID)
		sess.TotalLaps = maxLapNumber(sess.Laps)
	}

	return sess
}

func convertSchedule(table *ergast.RaceTable) []models.Race {
	races := make([]models.Race, 0, len(table.Races))
	for _, r := range table.Races {
		round, err := strconv.Atoi(r.Round)
		if err != nil {
			continue
		}
		races = append(races, models.Race{
			Round:    round,
			Name:     r.RaceName,
			Country:  r.Circuit.Location.Country,
			Location: r.Circuit.Location.Locality,
		})
	}
	sort.Slice(races, func(i, j int) bool { return races[i].Round < races[j].Round })
	return races
}

func convertResults(results []ergast.Result) []models.Result {
	converted := make([]models.Result, 0, len(results))
	for _, r := range results {
		points, _ := strconv.ParseFloat(r.Points, 64)
		converted = append(converted, models.Result{
			Driver:     driverCode(r.Driver),
			DriverName: r.Driver.GivenName + " " + r.Driver.FamilyName,
			Team:       r.Constructor.Name,
			Position:   parsePosition(r.Position),
			Points:     points,
		})
	}
	return converted
}

// convertLaps flattens the provider's per-lap timing lists into individual
// lap records. Timings with malformed times are dropped — they correspond
// to the provider's null lap times and never belong in a chart series.
func convertLaps(laps []ergast.Lap, codeByID map[string]string) []models.Lap {
	converted := make([]models.Lap, 0, len(laps)*20)
	for _, lap := range laps {
		number, err := strconv.Atoi(lap.Number)
		if err != nil {
			continue
		}
		for _, timing := range lap.Timings {
			seconds, err := ergast.ParseLapTime(timing.Time)
			if err != nil {
				continue
			}

			code, ok := codeByID[timing.DriverID]
			if !ok {
				code = strings.ToUpper(timing.DriverID)
			}

			converted = append(converted, models.Lap{
				Driver:    code,
				LapNumber: number,
				LapTime:   seconds,
				Position:  parsePosition(timing.Position),
			})
		}
	}
	sort.SliceStable(converted, func(i, j int) bool {
		return converted[i].LapNumber < converted[j].LapNumber
	})
	return converted
}

// driverCodes maps the provider's driverId keys (used in lap timings) to
// the three-letter codes the dashboard displays.
func driverCodes(results []ergast.Result) map[string]string {
	codes := make(map[string]string, len(results))
	for _, r := range results {
		codes[r.Driver.DriverID] = driverCode(r.Driver)
	}
	return codes
}

// driverCode prefers the official three-letter code, synthesizing one from
// the family name for pre-2000 seasons where the provider omits it.
func driverCode(d ergast.Driver) string {
	if d.Code != "" {
		return d.Code
	}
	name := strings.ToUpper(strings.ReplaceAll(d.FamilyName, " ", ""))
	if len(name) > 3 {
		name = name[:3]
	}
	return name
}

func parsePosition(s string) *int {
	pos, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &pos
}

func maxLapNumber(laps []models.Lap) int {
	max := 0
	for _, lap := range laps {
		if lap.LapNumber > max {
			max = lap.LapNumber
		}
	}
	return max
}
