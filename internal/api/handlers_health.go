// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pitwall/internal/logging"
	"github.com/tomtom215/pitwall/internal/metrics"
	"github.com/tomtom215/pitwall/internal/models"
)

// Health handles GET /api/health.
//
// Reports upstream provider reachability and cache statistics. The service
// is "degraded" rather than unhealthy when the provider is unreachable:
// cached sessions are still served.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	upstreamConnected := h.loader.Ping(r.Context()) == nil

	status := "healthy"
	if !upstreamConnected {
		status = "degraded"
	}

	var cacheStats *models.CacheStats
	if h.mem != nil && h.store != nil {
		stats := h.mem.GetStats()
		sessions, err := h.store.SessionCount()
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to count cached sessions")
			sessions = 0
		}
		cacheStats = &models.CacheStats{
			MemoryHits:   stats.Hits,
			MemoryMisses: stats.Misses,
			MemoryKeys:   stats.TotalKeys,
			DiskSessions: sessions,
		}
		metrics.CacheSize.WithLabelValues("memory").Set(float64(stats.TotalKeys))
		metrics.CacheSize.WithLabelValues("disk").Set(float64(sessions))
	}

	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)

	respondJSON(w, http.StatusOK, &models.HealthStatus{
		Status:            status,
		Version:           Version,
		UpstreamConnected: upstreamConnected,
		Cache:             cacheStats,
		Uptime:            uptime,
		Timestamp:         time.Now().UTC(),
	})
}
