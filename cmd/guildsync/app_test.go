// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/guildsync/internal/config"
)

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Mode:    mode,
		Discord: config.DiscordConfig{Token: "test-token"},
		BotAPI:  config.BotAPIConfig{Token: "bot-secret"},
		Remote:  config.RemoteConfig{Timeout: time.Second},
		Storage: config.StorageConfig{
			Engine:             "json",
			Path:               filepath.Join(dir, "settings.json"),
			LegacyExport:       true,
			LegacyPrefixesPath: filepath.Join(dir, "prefixes.json"),
			LegacyBackupDir:    filepath.Join(dir, "backups"),
		},
		Activity:      config.ActivityConfig{MaxEntries: 50},
		Metadata:      config.MetadataConfig{CacheTTL: time.Minute},
		Notifications: config.NotificationsConfig{Enabled: false},
		Server:        config.ServerConfig{Host: "127.0.0.1", Port: 8080, Timeout: time.Second, StatsTTL: time.Second},
		Security:      config.SecurityConfig{CORSOrigins: []string{"*"}, RateLimitDisabled: true},
		Logging:       config.LoggingConfig{Level: "error", Format: "json"},
	}
}

func serve(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApp_Modes(t *testing.T) {
	tests := []struct {
		mode          string
		wantBot       bool
		wantDashboard bool
	}{
		{config.ModeCombined, true, true},
		{config.ModeBot, true, false},
		{config.ModeDashboard, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := testConfig(t, tt.mode)
			a, err := newApp(context.Background(), cfg)
			if err != nil {
				t.Fatalf("newApp() error = %v", err)
			}
			defer a.Close()
			h := a.router.SetupChi()

			if rec := serve(t, h, http.MethodGet, "/api/health", "", ""); rec.Code != http.StatusOK {
				t.Errorf("health status = %d, want 200", rec.Code)
			}

			botCode := serve(t, h, http.MethodGet, "/api/guilds", "bot-secret", "").Code
			if tt.wantBot && botCode != http.StatusOK {
				t.Errorf("bot API status = %d, want 200", botCode)
			}
			if !tt.wantBot && botCode != http.StatusNotFound {
				t.Errorf("bot API status = %d, want 404 when not mounted", botCode)
			}

			dashCode := serve(t, h, http.MethodGet, "/api/stats", "", "").Code
			if tt.wantDashboard && dashCode != http.StatusOK {
				t.Errorf("dashboard status = %d, want 200", dashCode)
			}
			if !tt.wantDashboard && dashCode != http.StatusNotFound {
				t.Errorf("dashboard status = %d, want 404 when not mounted", dashCode)
			}
		})
	}
}

func TestNewApp_CombinedWritesReachBotAPI(t *testing.T) {
	cfg := testConfig(t, config.ModeCombined)
	a, err := newApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.Close()
	h := a.router.SetupChi()

	const guildID = "123456789012345678"
	if rec := serve(t, h, http.MethodPost, "/api/guild/"+guildID+"/prefix", "", `{"prefix":"!!"}`); rec.Code != http.StatusOK {
		t.Fatalf("prefix update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec := serve(t, h, http.MethodGet, "/api/settings/"+guildID, "bot-secret", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"prefix":"!!"`) {
		t.Errorf("bot API settings = %d %s, want the dashboard's prefix", rec.Code, rec.Body.String())
	}

	legacy, err := os.ReadFile(cfg.Storage.LegacyPrefixesPath)
	if err != nil {
		t.Fatalf("legacy prefixes not written: %v", err)
	}
	if !strings.Contains(string(legacy), `"!!"`) {
		t.Errorf("legacy prefixes = %s, want the new prefix", legacy)
	}
}

func TestNewApp_UnknownEngine(t *testing.T) {
	cfg := testConfig(t, config.ModeCombined)
	cfg.Storage.Engine = "sqlite"
	if _, err := newApp(context.Background(), cfg); err == nil {
		t.Fatal("newApp() expected error for unknown engine")
	}
}
