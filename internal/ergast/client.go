// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

/*
client.go - Ergast-compatible API client

HTTP communication layer for the Jolpica provider (Ergast API successor).

Client features:
  - Politeness rate limiter (golang.org/x/time/rate) ahead of every request
  - Automatic HTTP 429 handling with exponential backoff and Retry-After
  - Paginated lap timing retrieval (the provider caps responses at 1000 rows)
  - Context support for cancellation and timeouts

Resilience is layered: the token-bucket limiter keeps us under the provider's
published allowance, the 429 backoff absorbs bursts we miss, and the circuit
breaker in circuit_breaker.go stops hammering a provider that is down.
*/
package ergast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/pitwall/internal/config"
	"github.com/tomtom215/pitwall/internal/metrics"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// lapPageLimit is the provider's maximum rows per laps response.
const lapPageLimit = 1000

// maxLapPages bounds pagination; no race has produced anywhere near this
// many timing rows (87 laps x 20 drivers < 2 pages).
const maxLapPages = 10

// ClientInterface defines the provider operations the session loader needs.
// Implemented by Client for production and by mocks in tests.
//
// All methods accept a context for cancellation and return ErrNotFound when
// the provider has no data for the requested race.
type ClientInterface interface {
	Ping(ctx context.Context) error
	Schedule(ctx context.Context, year int) (*RaceTable, error)
	Results(ctx context.Context, year, round int) (*Race, error)
	Laps(ctx context.Context, year, round int) (*Race, error)
}

// Client talks to an Ergast-compatible REST API.
//
// Thread safety: safe for concurrent use; each call builds its own request
// and the rate limiter is internally synchronized.
type Client struct {
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a provider client from configuration. The limiter is
// sized from cfg.RateLimit/cfg.Burst so the dashboard never exceeds the
// provider's unauthenticated allowance no matter how many browsers poll it.
func NewClient(cfg *config.ErgastConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		maxRetries:     5,
		retryBaseDelay: 1 * time.Second,
	}
}

// Ping verifies connectivity to the provider.
func (c *Client) Ping(ctx context.Context) error {
	var env Envelope
	if err := c.getJSON(ctx, "ping", c.baseURL+"/current.json?limit=1", &env); err != nil {
		return fmt.Errorf("failed to ping provider: %w", err)
	}
	return nil
}

// Schedule fetches the race calendar for a season.
func (c *Client) Schedule(ctx context.Context, year int) (*RaceTable, error) {
	reqURL := fmt.Sprintf("%s/%d.json?limit=100", c.baseURL, year)

	var env Envelope
	if err := c.getJSON(ctx, "schedule", reqURL, &env); err != nil {
		return nil, err
	}

	table := env.MRData.RaceTable
	if table == nil || len(table.Races) == 0 {
		return nil, fmt.Errorf("season %d: %w", year, ErrNotFound)
	}
	return table, nil
}

// Results fetches the classified finishing order for one race.
func (c *Client) Results(ctx context.Context, year, round int) (*Race, error) {
	reqURL := fmt.Sprintf("%s/%d/%d/results.json?limit=100", c.baseURL, year, round)

	var env Envelope
	if err := c.getJSON(ctx, "results", reqURL, &env); err != nil {
		return nil, err
	}

	table := env.MRData.RaceTable
	if table == nil || len(table.Races) == 0 {
		return nil, fmt.Errorf("race %d round %d: %w", year, round, ErrNotFound)
	}
	return &table.Races[0], nil
}

// Laps fetches all lap timings for one race, following the provider's
// limit/offset pagination until every timing row has been collected. The
// returned Race has the merged Laps slice.
func (c *Client) Laps(ctx context.Context, year, round int) (*Race, error) {
	var merged *Race

	offset := 0
	for page := 0; page < maxLapPages; page++ {
		reqURL := fmt.Sprintf("%s/%d/%d/laps.json?limit=%d&offset=%d",
			c.baseURL, year, round, lapPageLimit, offset)

		var env Envelope
		if err := c.getJSON(ctx, "laps", reqURL, &env); err != nil {
			return nil, err
		}

		table := env.MRData.RaceTable
		if table == nil || len(table.Races) == 0 {
			if merged == nil {
				return nil, fmt.Errorf("laps %d round %d: %w", year, round, ErrNotFound)
			}
			break
		}

		race := table.Races[0]
		if merged == nil {
			copied := race
			merged = &copied
		} else {
			merged.Laps = mergeLaps(merged.Laps, race.Laps)
		}

		total, err := strconv.Atoi(env.MRData.Total)
		if err != nil {
			return nil, fmt.Errorf("laps %d round %d: bad total %q: %w", year, round, env.MRData.Total, err)
		}
		offset += lapPageLimit
		if offset >= total {
			break
		}
	}

	return merged, nil
}

// mergeLaps appends a page of laps onto prev, joining timings when a lap is
// split across a page boundary.
func mergeLaps(prev, next []Lap) []Lap {
	if len(next) == 0 {
		return prev
	}
	if len(prev) > 0 && prev[len(prev)-1].Number == next[0].Number {
		last := &prev[len(prev)-1]
		last.Timings = append(last.Timings, next[0].Timings...)
		next = next[1:]
	}
	return append(prev, next...)
}

// getJSON performs a rate-limited GET with 429 backoff and decodes the
// response envelope, recording upstream metrics per operation.
func (c *Client) getJSON(ctx context.Context, operation, reqURL string, result interface{}) error {
	start := time.Now()

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		metrics.RecordUpstreamRequest(operation, "error", time.Since(start))
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordUpstreamRequest(operation, "not_found", time.Since(start))
		return fmt.Errorf("%s: %w", operation, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		metrics.RecordUpstreamRequest(operation, "error", time.Since(start))
		body := readBodyForError(resp.Body)
		return fmt.Errorf("%s request failed with status %d: %s", operation, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		metrics.RecordUpstreamRequest(operation, "error", time.Since(start))
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}

	metrics.RecordUpstreamRequest(operation, "success", time.Since(start))
	return nil
}

// doRequestWithRateLimit waits on the politeness limiter, then performs the
// request with exponential backoff on HTTP 429 (1s, 2s, 4s, 8s, 16s),
// honoring the Retry-After header when present.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited; close body and retry with backoff.
		_ = resp.Body.Close()
		metrics.UpstreamRetries.Inc()

		if attempt == c.maxRetries {
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, ErrRateLimited
}

// readBodyForError reads at most maxErrorBodySize of a response body for
// inclusion in an error message.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// ParseLapTime converts a provider lap time string ("1:23.456", optionally
// with an hours segment) to seconds.
func ParseLapTime(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed lap time %q", s)
	}

	seconds, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed lap time %q: %w", s, err)
	}

	multiplier := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		unit, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return 0, fmt.Errorf("malformed lap time %q: %w", s, err)
		}
		seconds += unit * multiplier
		multiplier *= 60
	}

	return seconds, nil
}
