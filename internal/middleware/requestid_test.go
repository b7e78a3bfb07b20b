// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/guildsync/internal/logging"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generates an ID"},
		{name: "keeps an upstream ID", incoming: "upstream-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen, correlation string
			handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = logging.RequestIDFromContext(r.Context())
				correlation = logging.CorrelationIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			header := rec.Header().Get(RequestIDHeader)
			if header == "" || header != seen {
				t.Errorf("header %q and context %q must match and be non-empty", header, seen)
			}
			if tt.incoming != "" && seen != tt.incoming {
				t.Errorf("request ID = %q, want %q", seen, tt.incoming)
			}
			if tt.incoming == "" {
				if _, err := uuid.Parse(seen); err != nil {
					t.Errorf("generated ID %q is not a UUID: %v", seen, err)
				}
			}
			if correlation == "" {
				t.Error("correlation ID missing from context")
			}
		})
	}
}
