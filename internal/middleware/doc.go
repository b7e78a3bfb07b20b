// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package middleware provides HTTP middleware shared by the internal bot API and
the dashboard API.

Key Components:

  - RequestID: UUID-based request tracking, propagated into the logging context
  - PrometheusMetrics: request count, duration and in-flight instrumentation
    labelled by chi route pattern
  - BearerAuth: constant-time bearer token check guarding the internal bot API

All middleware uses the func(http.Handler) http.Handler shape so it can be
passed straight to chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Route("/api", func(r chi.Router) {
	    r.Use(middleware.BearerAuth(cfg.BotAPI.Token))
	    r.Get("/settings/{guildId}", handler.GetSettings)
	})

Thread Safety:

All middleware is safe for concurrent use. Per-request state lives in the
request context.
*/
package middleware
