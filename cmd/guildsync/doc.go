// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Guildsync keeps per-guild Discord bot settings (prefix, enabled modules, log
channel, counters, activity) consistent between a bot process and a web
dashboard.

# Application Architecture

	RootSupervisor ("guildsync")
	├── StorageSupervisor ("storage-layer")
	│   └── Badger value-log GC (STORAGE_ENGINE=badger)
	├── GatewaySupervisor ("gateway-layer")
	│   ├── Discord session (bot, combined)
	│   └── Config file watch (log level hot reload)
	└── APISupervisor ("api-layer")
	    └── HTTP server: /api/health, /metrics, bot API, dashboard API

Component initialization order:

 1. Configuration: Koanf v2 (.env, defaults, YAML, environment)
 2. Logging: zerolog
 3. Settings store: JSON document or BadgerDB, cache warm-up, legacy prefix export
 4. Discord: discordgo session, metadata fetcher, gateway handlers (bot modes)
 5. Remote bot client with circuit breaker (dashboard mode with BOT_API_URL)
 6. Router: bot API and/or dashboard API per mode
 7. Supervisor tree

# Modes

	GUILDSYNC_MODE=combined   # one process, one store (default)
	GUILDSYNC_MODE=bot        # gateway + internal bot API, protected by BOT_API_TOKEN
	GUILDSYNC_MODE=dashboard  # dashboard API; BOT_API_URL + REMOTE_TOKEN reach the bot

# Example Usage

	export DISCORD_TOKEN=...
	export BOT_API_TOKEN=$(openssl rand -hex 32)
	./guildsync

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up to
10s, the Discord session is closed and the settings store is closed last.
*/
package main
