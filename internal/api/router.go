// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/guildsync/internal/middleware"
)

// RouterConfig selects which APIs a process serves.
type RouterConfig struct {
	// BotAPIToken guards the internal bot API. Required when Bot is set.
	BotAPIToken string

	Bot       *BotAPI
	Dashboard *Dashboard
	Health    *Health

	Middleware *ChiMiddlewareConfig
}

// Router wires handlers to routes.
type Router struct {
	config        RouterConfig
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil Bot or Dashboard leaves that API unmounted.
func NewRouter(config RouterConfig) *Router {
	return &Router{
		config:        config,
		chiMiddleware: NewChiMiddleware(config.Middleware),
	}
}

// SetupChi configures all HTTP routes.
//
// Both APIs live under /api. The bot API routes (/settings, /guilds,
// /channels) and the dashboard routes (/guild, /stats) do not overlap, so a
// combined process serves both from one listener.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())

	r.Handle("/metrics", promhttp.Handler())

	if h := router.config.Health; h != nil {
		r.With(router.chiMiddleware.RateLimitHealth()).Get("/api/health", h.ServeHTTP)
	}

	if bot := router.config.Bot; bot != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(router.config.BotAPIToken))

			r.Get("/api/settings/{guildId}", bot.GetSettings)
			r.Post("/api/settings/{guildId}", bot.PostSettings)
			r.Get("/api/guilds", bot.GetGuilds)
			r.Get("/api/channels/{guildId}", bot.GetChannels)
		})
	}

	if d := router.config.Dashboard; d != nil {
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(APISecurityHeaders())

			r.Get("/api/stats", d.GetStats)
			r.Get("/api/servers", d.GetServers)
			r.Route("/api/guild/{guildId}", func(r chi.Router) {
				r.Get("/", d.GetGuild)
				r.Get("/activity", d.GetActivity)
				r.Get("/channels", d.GetChannels)

				r.Group(func(r chi.Router) {
					r.Use(router.chiMiddleware.RateLimitWrite())
					r.Post("/prefix", d.UpdatePrefix)
					r.Post("/cogs", d.UpdateCogs)
					r.Post("/log-channel", d.UpdateLogChannel)
				})
			})
		})
	}

	return r
}
