// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3000/metrics

# Available Metrics

Settings Store:
  - settings_store_operation_duration_seconds (histogram): engine, operation
  - settings_store_write_failures_total (counter): engine, reason
  - settings_store_resets_total (counter): engine
  - settings_store_guilds (gauge)
  - settings_legacy_exports_total (counter): result

Cache:
  - cache_hits_total, cache_misses_total (counter): cache_type
  - cache_entries (gauge): cache_type
  - cache_invalidations_total (counter): cache_type

API:
  - api_requests_total (counter): method, endpoint, status_code
  - api_request_duration_seconds (histogram): method, endpoint
  - api_active_requests (gauge)
  - api_auth_failures_total (counter): endpoint

Remote Bot:
  - remote_bot_request_duration_seconds (histogram): operation, result
  - settings_fallbacks_total (counter): operation, source
  - circuit_breaker_state (gauge, 0=closed 1=half-open 2=open): name
  - circuit_breaker_requests_total (counter): name, result
  - circuit_breaker_consecutive_failures (gauge): name
  - circuit_breaker_state_transitions_total (counter): name, from_state, to_state

Activity and Discord:
  - activity_appends_total (counter): action, result
  - discord_events_total (counter): event
  - discord_notifications_total (counter): result

# Usage

	start := time.Now()
	ok := store.Write(guildID, patch)
	metrics.RecordStoreOperation("json", "write", time.Since(start))

# Thread Safety

All recording functions are safe for concurrent use.
*/
package metrics
