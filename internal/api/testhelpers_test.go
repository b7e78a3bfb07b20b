// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guildsync/internal/activity"
	"github.com/tomtom215/guildsync/internal/botclient"
	"github.com/tomtom215/guildsync/internal/merger"
	"github.com/tomtom215/guildsync/internal/models"
	"github.com/tomtom215/guildsync/internal/settings"
)

const (
	testBotToken = "bot-api-token"
	testGuildID  = "123456789012345678"
)

// testServer wires real components over a temporary JSON store.
type testServer struct {
	handler   http.Handler
	local     *settings.Service
	dashboard *Dashboard
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	local := settings.NewService(settings.NewFileStore(filepath.Join(t.TempDir(), "settings.json")), settings.NewCache(), nil)
	syncer := botclient.NewSyncer(nil, local)
	log := activity.New(syncer)
	dashboard := NewDashboard(syncer, merger.New(syncer), log, local, time.Minute)
	t.Cleanup(dashboard.Close)

	guilds := GuildListerFunc(func(context.Context) []models.GuildSummary { return local.Summaries() })
	router := NewRouter(RouterConfig{
		BotAPIToken: testBotToken,
		Bot:         NewBotAPI(local, guilds, nil),
		Dashboard:   dashboard,
		Health:      NewHealth(HealthConfig{Version: "test", StoreEngine: local.Engine()}),
		Middleware: &ChiMiddlewareConfig{
			RateLimitDisabled: true,
		},
	})

	return &testServer{handler: router.SetupChi(), local: local, dashboard: dashboard}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// envelope decodes a dashboard response with a typed data payload.
type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *APIError `json:"error"`
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}
