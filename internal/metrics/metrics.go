// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the settings layer:
// - Settings store writes and corruption resets
// - Read-through cache efficiency
// - Remote bot API calls, circuit breaker and fallbacks
// - Activity log and Discord gateway events
// - API endpoint latency and throughput

var (
	// Settings Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "settings_store_operation_duration_seconds",
			Help:    "Duration of settings store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"engine", "operation"}, // operation: "read", "write", "read_all"
	)

	StoreWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_store_write_failures_total",
			Help: "Total number of rejected or failed settings writes",
		},
		[]string{"engine", "reason"}, // reason: "validation", "io", "conflict"
	)

	StoreResets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_store_resets_total",
			Help: "Total number of times a corrupt settings document was replaced by an empty one",
		},
		[]string{"engine"},
	)

	StoreGuilds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "settings_store_guilds",
			Help: "Number of guilds with stored settings at the last full read",
		},
	)

	LegacyExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_legacy_exports_total",
			Help: "Total number of legacy prefix file exports",
		},
		[]string{"result"}, // "success", "failure"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "settings", "metadata"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of explicit cache invalidations",
		},
		[]string{"cache_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIAuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_auth_failures_total",
			Help: "Total number of rejected bearer tokens on the internal bot API",
		},
		[]string{"endpoint"},
	)

	// Remote Bot API Metrics
	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "remote_bot_request_duration_seconds",
			Help:    "Duration of calls to the remote bot API in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "result"}, // result: "success", "failure"
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settings_fallbacks_total",
			Help: "Total number of operations answered by a fallback source",
		},
		[]string{"operation", "source"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Activity Metrics
	ActivityAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_appends_total",
			Help: "Total number of activity entries appended",
		},
		[]string{"action", "result"},
	)

	// Discord Metrics
	DiscordEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_events_total",
			Help: "Total number of Discord gateway events handled",
		},
		[]string{"event"},
	)

	DiscordNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_notifications_total",
			Help: "Total number of log channel notifications",
		},
		[]string{"result"}, // "sent", "failed", "rate_limited", "skipped"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordStoreOperation records a settings store operation
func RecordStoreOperation(engine, operation string, duration time.Duration) {
	StoreOperationDuration.WithLabelValues(engine, operation).Observe(duration.Seconds())
}

// RecordStoreWriteFailure records a rejected or failed write
func RecordStoreWriteFailure(engine, reason string) {
	StoreWriteFailures.WithLabelValues(engine, reason).Inc()
}

// RecordStoreReset records the replacement of a corrupt document
func RecordStoreReset(engine string) {
	StoreResets.WithLabelValues(engine).Inc()
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAuthFailure records a rejected bearer token
func RecordAuthFailure(endpoint string) {
	APIAuthFailures.WithLabelValues(endpoint).Inc()
}

// RecordRemoteRequest records one call to the remote bot API
func RecordRemoteRequest(operation string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	RemoteRequestDuration.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// RecordFallback records that source answered operation
func RecordFallback(operation, source string) {
	FallbacksTotal.WithLabelValues(operation, source).Inc()
}

// RecordActivityAppend records an activity log append
func RecordActivityAppend(action string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ActivityAppends.WithLabelValues(action, result).Inc()
}

// RecordDiscordEvent records a handled gateway event
func RecordDiscordEvent(event string) {
	DiscordEvents.WithLabelValues(event).Inc()
}

// RecordNotification records the outcome of a log channel notification
func RecordNotification(result string) {
	DiscordNotifications.WithLabelValues(result).Inc()
}
