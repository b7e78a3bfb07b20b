// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/tomtom215/guildsync/internal/activity"
	"github.com/tomtom215/guildsync/internal/api"
	"github.com/tomtom215/guildsync/internal/botclient"
	"github.com/tomtom215/guildsync/internal/config"
	"github.com/tomtom215/guildsync/internal/discord"
	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/merger"
	"github.com/tomtom215/guildsync/internal/models"
	"github.com/tomtom215/guildsync/internal/settings"
)

// app holds the wired components of one process.
type app struct {
	store   settings.Store
	service *settings.Service
	session *discordgo.Session
	fetcher *discord.MetadataFetcher
	breaker *botclient.CircuitBreakerClient
	router  *api.Router
	closers []func()
}

// newApp opens the settings store and wires the components cfg.Mode needs.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	store, err := settings.NewStore(settings.StoreConfig{
		Engine:     cfg.Storage.Engine,
		Path:       cfg.Storage.Path,
		BadgerPath: cfg.Storage.BadgerPath,
	})
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}
	a.store = store

	var legacy *settings.LegacyExporter
	if cfg.Storage.LegacyExport {
		legacy = settings.NewLegacyExporter(cfg.Storage.LegacyPrefixesPath, cfg.Storage.LegacyBackupDir)
	}
	a.service = settings.NewService(store, settings.NewCache(), legacy)
	a.closers = append(a.closers, func() {
		if err := a.service.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing settings store")
		}
	})

	a.service.Warm(ctx)
	if legacy != nil {
		if err := a.service.ExportLegacy(); err != nil {
			logging.Warn().Err(err).Msg("Failed to export legacy prefixes at startup")
		}
	}

	if err := a.initDiscord(cfg); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.HasRemote() {
		client := botclient.NewClient(cfg.Remote.URL, cfg.Remote.Token, cfg.Remote.Timeout)
		a.breaker = botclient.NewCircuitBreakerClient(client, botclient.BreakerSettings{})
		logging.Info().Str("url", cfg.Remote.URL).Msg("Remote bot client enabled")
	}

	a.router = api.NewRouter(a.routerConfig(cfg))
	return a, nil
}

// initDiscord creates the discordgo session. Bot processes register the
// gateway handlers; a dashboard with a token uses the session for REST only.
func (a *app) initDiscord(cfg *config.Config) error {
	if cfg.Discord.Token == "" {
		logging.Info().Msg("No Discord token configured, live guild metadata disabled")
		return nil
	}

	session, err := discord.NewSession(cfg.Discord.Token, nil)
	if err != nil {
		return err
	}
	a.session = session
	a.fetcher = discord.NewMetadataFetcher(session, cfg.Metadata.CacheTTL)
	a.closers = append(a.closers, a.fetcher.Close)

	if cfg.RunsBot() {
		discord.NewHandlers(a.service, a.fetcher).Register(session)
	}
	return nil
}

func (a *app) routerConfig(cfg *config.Config) api.RouterConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled

	rc := api.RouterConfig{
		BotAPIToken: cfg.BotAPI.Token,
		Middleware:  mw,
	}

	health := api.HealthConfig{Version: version, StoreEngine: a.service.Engine()}
	if a.breaker != nil {
		health.RemoteState = a.breaker.State
	}

	if cfg.RunsBot() {
		session := a.session
		health.DiscordOnline = func() bool { return session.DataReady }

		guilds := api.GuildListerFunc(func(context.Context) []models.GuildSummary {
			return discord.GuildsFromState(session.State)
		})
		rc.Bot = api.NewBotAPI(a.service, guilds, a.fetcher)
		if cfg.BotAPI.Token == "" {
			logging.Warn().Msg("BOT_API_TOKEN is empty, every bot API request will be rejected")
		}
	}

	if cfg.RunsDashboard() {
		var remote botclient.Remote
		if a.breaker != nil {
			remote = a.breaker
		}
		syncer := botclient.NewSyncer(remote, a.service)

		activityOpts := []activity.Option{activity.WithMaxEntries(cfg.Activity.MaxEntries)}
		if a.session != nil && cfg.Notifications.Enabled {
			activityOpts = append(activityOpts, activity.WithNotifier(discord.NewLogChannelNotifier(a.session, cfg.Notifications.PerMinute)))
		}

		mergerOpts := []merger.Option{merger.WithMetadataWriter(a.service)}
		if a.fetcher != nil {
			mergerOpts = append(mergerOpts, merger.WithMetadataSource(a.fetcher))
		}

		dashboard := api.NewDashboard(
			syncer,
			merger.New(syncer, mergerOpts...),
			activity.New(syncer, activityOpts...),
			a.service,
			cfg.Server.StatsTTL,
		)
		a.closers = append(a.closers, dashboard.Close)
		rc.Dashboard = dashboard
	}

	rc.Health = api.NewHealth(health)
	return rc
}

// Close releases components in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
