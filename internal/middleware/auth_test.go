// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{name: "matching token", token: "s3cret", header: "Bearer s3cret", want: http.StatusNoContent},
		{name: "lowercase scheme", token: "s3cret", header: "bearer s3cret", want: http.StatusNoContent},
		{name: "wrong token", token: "s3cret", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "token prefix only", token: "s3cret", header: "Bearer s3c", want: http.StatusUnauthorized},
		{name: "missing header", token: "s3cret", want: http.StatusUnauthorized},
		{name: "basic scheme", token: "s3cret", header: "Basic s3cret", want: http.StatusUnauthorized},
		{name: "empty bearer", token: "s3cret", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "unconfigured token", token: "", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "unconfigured token with value", token: "", header: "Bearer anything", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/guilds", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			BearerAuth(tt.token)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate header missing on 401")
			}
		})
	}
}
