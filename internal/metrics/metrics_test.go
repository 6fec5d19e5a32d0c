// Pitwall - Formula 1 Race Telemetry Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pitwall

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful races request",
			method:     "GET",
			endpoint:   "/api/races/{year}",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "successful race request",
			method:     "GET",
			endpoint:   "/api/race/{year}/{round}",
			statusCode: "200",
			duration:   150 * time.Millisecond,
		},
		{
			name:       "invalid year",
			method:     "GET",
			endpoint:   "/api/races/{year}",
			statusCode: "400",
			duration:   1 * time.Millisecond,
		},
		{
			name:       "race not found",
			method:     "GET",
			endpoint:   "/api/race/{year}/{round}",
			statusCode: "404",
			duration:   50 * time.Millisecond,
		},
		{
			name:       "upstream failure",
			method:     "GET",
			endpoint:   "/api/drivers/{year}/{round}",
			statusCode: "502",
			duration:   500 * time.Millisecond,
		},
		{
			name:       "rate limited request",
			method:     "GET",
			endpoint:   "/api/races/{year}",
			statusCode: "429",
			duration:   1 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Record the request - should not panic
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
		})
	}
}

// TestRecordUpstreamRequest tests upstream provider metric recording
func TestRecordUpstreamRequest(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		status    string
		duration  time.Duration
	}{
		{
			name:      "successful race list",
			operation: "races",
			status:    "success",
			duration:  200 * time.Millisecond,
		},
		{
			name:      "successful lap fetch",
			operation: "laps",
			status:    "success",
			duration:  1500 * time.Millisecond,
		},
		{
			name:      "missing round",
			operation: "results",
			status:    "not_found",
			duration:  100 * time.Millisecond,
		},
		{
			name:      "provider failure",
			operation: "results",
			status:    "error",
			duration:  5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordUpstreamRequest(tt.operation, tt.status, tt.duration)
		})
	}
}

// TestCacheMetrics tests cache hit/miss/size recording for both tiers
func TestCacheMetrics(t *testing.T) {
	cacheTypes := []string{"memory", "disk"}

	for _, cacheType := range cacheTypes {
		t.Run(cacheType, func(t *testing.T) {
			RecordCacheHit(cacheType)
			RecordCacheHit(cacheType)
			RecordCacheMiss(cacheType)
			CacheSize.WithLabelValues(cacheType).Set(50)
		})
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	// Simulate multiple concurrent requests
	for i := 0; i < 10; i++ {
		TrackActiveRequest(true) // Request starts
	}

	// Some requests complete
	for i := 0; i < 5; i++ {
		TrackActiveRequest(false) // Request ends
	}

	// More requests start
	for i := 0; i < 3; i++ {
		TrackActiveRequest(true)
	}

	// All remaining complete
	for i := 0; i < 8; i++ {
		TrackActiveRequest(false)
	}
}

// TestCircuitBreakerMetrics tests circuit breaker metric recording
func TestCircuitBreakerMetrics(t *testing.T) {
	cbName := "ergast_api"

	// Test state changes (0=closed, 1=half-open, 2=open)
	CircuitBreakerState.WithLabelValues(cbName).Set(0) // closed
	CircuitBreakerState.WithLabelValues(cbName).Set(2) // open
	CircuitBreakerState.WithLabelValues(cbName).Set(1) // half-open

	// Test request counts
	CircuitBreakerRequests.WithLabelValues(cbName, "success").Inc()
	CircuitBreakerRequests.WithLabelValues(cbName, "failure").Inc()
	CircuitBreakerRequests.WithLabelValues(cbName, "rejected").Inc()

	// Test consecutive failures
	CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(5)

	// Test state transitions
	CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open").Inc()
	CircuitBreakerTransitions.WithLabelValues(cbName, "open", "half-open").Inc()
	CircuitBreakerTransitions.WithLabelValues(cbName, "half-open", "closed").Inc()
}

// TestAppMetrics tests application-level metrics
func TestAppMetrics(t *testing.T) {
	// Test app info
	AppInfo.WithLabelValues("1.0.0", "go1.24.0").Set(1)

	// Test uptime
	AppUptime.Set(3600) // 1 hour
	AppUptime.Add(60)   // Add 1 minute
}

// TestAPIRateLimitHits tests rate limit hit counter
func TestAPIRateLimitHits(t *testing.T) {
	endpoints := []string{
		"/api/races/2024",
		"/api/race/2024/5",
		"/api/drivers/2024/5",
	}

	for _, endpoint := range endpoints {
		APIRateLimitHits.WithLabelValues(endpoint).Inc()
	}
}

// TestSessionLoadDuration tests session assembly duration histogram
func TestSessionLoadDuration(t *testing.T) {
	durations := []float64{0.05, 0.3, 1.2, 8.5, 25}

	for _, d := range durations {
		SessionLoadDuration.Observe(d)
	}
}

// TestUpstreamRetries tests the retry counter
func TestUpstreamRetries(t *testing.T) {
	for i := 0; i < 3; i++ {
		UpstreamRetries.Inc()
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 100
	operationsPerGoroutine := 50

	// Test concurrent API request recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordAPIRequest("GET", "/api/races/{year}", "200", time.Duration(j)*time.Millisecond)
			}
		}(i)
	}

	// Test concurrent upstream request recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordUpstreamRequest("laps", "success", time.Duration(j)*time.Millisecond)
			}
		}(i)
	}

	// Test concurrent active request tracking
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}(i)
	}

	// Test concurrent cache recording
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				if j%2 == 0 {
					RecordCacheHit("memory")
				} else {
					RecordCacheMiss("memory")
				}
			}
		}(i)
	}

	wg.Wait()
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	metrics := []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		UpstreamRetries,
		CacheHits,
		CacheMisses,
		CacheSize,
		SessionLoadDuration,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures,
		CircuitBreakerTransitions,
		AppInfo,
		AppUptime,
	}

	// Verify each metric can be described
	for _, m := range metrics {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		// Should have at least one descriptor
		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	// Record some metrics
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)
	RecordUpstreamRequest("races", "success", time.Millisecond)

	// Verify we can lint the metrics (checks for consistency issues)
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}

// Benchmark tests for metrics performance

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/api/races/{year}", "200", 25*time.Millisecond)
	}
}

func BenchmarkRecordUpstreamRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordUpstreamRequest("laps", "success", 200*time.Millisecond)
	}
}

func BenchmarkTrackActiveRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		TrackActiveRequest(true)
		TrackActiveRequest(false)
	}
}
