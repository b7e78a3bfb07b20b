// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/guildsync/internal/models"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		config     HealthConfig
		wantStatus string
		wantRemote string
	}{
		{
			name:       "local only",
			config:     HealthConfig{StoreEngine: "json"},
			wantStatus: "healthy",
			wantRemote: "disabled",
		},
		{
			name:       "remote closed",
			config:     HealthConfig{StoreEngine: "json", RemoteState: func() string { return "closed" }},
			wantStatus: "healthy",
			wantRemote: "closed",
		},
		{
			name:       "remote open",
			config:     HealthConfig{StoreEngine: "badger", RemoteState: func() string { return "open" }},
			wantStatus: "degraded",
			wantRemote: "open",
		},
		{
			name:       "discord disconnected",
			config:     HealthConfig{StoreEngine: "json", DiscordOnline: func() bool { return false }},
			wantStatus: "degraded",
			wantRemote: "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealth(tt.config).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 even when degraded", rec.Code)
			}
			env := decodeEnvelope[models.HealthStatus](t, rec)
			if env.Data.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", env.Data.Status, tt.wantStatus)
			}
			if env.Data.RemoteBot != tt.wantRemote {
				t.Errorf("RemoteBot = %q, want %q", env.Data.RemoteBot, tt.wantRemote)
			}
			if env.Data.StoreEngine != tt.config.StoreEngine {
				t.Errorf("StoreEngine = %q", env.Data.StoreEngine)
			}
		})
	}
}
