// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package services provides suture.Service wrappers for Guildsync components.

Each wrapper translates a component's own lifecycle (ListenAndServe, Open and
Close, a ticker, a file watch) into suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

  - HTTPServerService: wraps *http.Server with graceful shutdown
  - DiscordSessionService: opens the discordgo gateway session and closes it on shutdown
  - BadgerGCService: periodic badger value-log GC
  - ConfigWatchService: re-applies runtime settings when the config file changes

Serve returns ctx.Err() on shutdown. Any other error tells the supervisor to
restart the service.
*/
package services
