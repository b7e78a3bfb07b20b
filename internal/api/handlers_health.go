// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/guildsync/internal/models"
)

// HealthConfig describes what the health endpoint reports on.
type HealthConfig struct {
	Version     string
	StoreEngine string

	// RemoteState reports the remote bot circuit breaker state. Nil when no
	// remote bot is configured.
	RemoteState func() string

	// DiscordOnline reports whether the gateway session is connected. Nil
	// when this process runs no Discord session.
	DiscordOnline func() bool
}

// Health serves the liveness endpoint.
type Health struct {
	config    HealthConfig
	startTime time.Time
}

// NewHealth creates the health handler.
func NewHealth(config HealthConfig) *Health {
	return &Health{config: config, startTime: time.Now()}
}

// ServeHTTP handles GET /api/health.
//
// The process is "healthy" when every configured dependency is reachable and
// "degraded" otherwise. Degraded still answers 200: reads keep working from
// the local store while the remote bot or Discord is away.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:      "healthy",
		Version:     h.config.Version,
		Uptime:      time.Since(h.startTime).Seconds(),
		StoreEngine: h.config.StoreEngine,
		RemoteBot:   "disabled",
		Checks:      map[string]string{"store": "ok"},
		Timestamp:   time.Now().UTC(),
	}

	if h.config.RemoteState != nil {
		state := h.config.RemoteState()
		status.RemoteBot = state
		status.Checks["remote_bot"] = state
		if state == "open" {
			status.Status = "degraded"
		}
	}

	if h.config.DiscordOnline != nil {
		status.DiscordOnline = h.config.DiscordOnline()
		if status.DiscordOnline {
			status.Checks["discord"] = "connected"
		} else {
			status.Checks["discord"] = "disconnected"
			status.Status = "degraded"
		}
	}

	WriteSuccess(w, r, status)
}
