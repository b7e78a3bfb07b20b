// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/guildsync/internal/config"
	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/settings"
	"github.com/tomtom215/guildsync/internal/supervisor"
	"github.com/tomtom215/guildsync/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("mode", cfg.Mode).
		Str("engine", cfg.Storage.Engine).
		Bool("remote", cfg.HasRemote()).
		Msg("Starting Guildsync")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApp(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer app.Close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Storage layer
	if badgerStore, ok := app.store.(*settings.BadgerStore); ok {
		tree.AddStorageService(services.NewBadgerGCService(badgerStore, cfg.Storage.GCInterval))
		logging.Info().Dur("interval", cfg.Storage.GCInterval).Msg("Badger GC service added")
	}

	// Gateway layer
	if cfg.RunsBot() {
		tree.AddGatewayService(services.NewDiscordSessionService(app.session))
		logging.Info().Msg("Discord session service added")
	}
	if path := config.ConfigFilePath(); path != "" {
		tree.AddGatewayService(services.NewConfigWatchService(path, config.WatchConfigFile, reloadLogLevel))
		logging.Info().Str("path", path).Msg("Config watch service added")
	}

	// API layer
	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      app.router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// reloadLogLevel re-reads the configuration and applies its log level.
// Everything else requires a restart.
func reloadLogLevel() {
	cfg, err := config.Load()
	if err != nil {
		logging.Warn().Err(err).Msg("Config reload failed, keeping current settings")
		return
	}
	logging.SetLevelString(cfg.Logging.Level)
	logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
}
