// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package config provides centralized configuration management for Guildsync.

# Configuration Sources

Configuration is layered with Koanf v2, later sources overriding earlier ones:

  - Built-in defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, ./config.yaml or /etc/guildsync/config.yaml
  - Environment variables, through an explicit mapping table

A .env file in the working directory is loaded into the environment first.
Variables already present in the environment win over the .env file.

# Modes

GUILDSYNC_MODE selects what the process runs:

  - bot: the Discord gateway session plus the internal bot API
  - dashboard: the dashboard API, reaching the bot through BOT_API_URL
  - combined: both, sharing one settings store (default)

# Environment Variables

Process:
  - GUILDSYNC_MODE: bot, dashboard or combined (default: combined)
  - DISCORD_TOKEN: bot token (required in bot and combined modes)
  - BOT_API_TOKEN: bearer token protecting /api/bot (required in bot mode)

Remote bot API (dashboard mode):
  - BOT_API_URL: base URL of the bot process (empty: local store only)
  - REMOTE_TOKEN: bearer token sent to the bot API
  - BOT_API_TIMEOUT: per-request timeout (default: 10s)

Storage:
  - STORAGE_ENGINE: json or badger (default: json)
  - SETTINGS_PATH: settings document (default: data/settings.json)
  - BADGER_PATH: badger directory (default: data/settings.badger)
  - BADGER_GC_INTERVAL: value log GC interval (default: 10m)
  - LEGACY_EXPORT: write the legacy prefixes document (default: true)
  - LEGACY_PREFIXES_PATH: legacy prefixes document (default: data/prefixes.json)
  - LEGACY_BACKUP_DIR: timestamped backups of it (default: data/backups)

Behaviour:
  - ACTIVITY_MAX_ENTRIES: activity entries kept per guild (default: 50)
  - METADATA_CACHE_TTL: Discord metadata cache lifetime (default: 5m)
  - NOTIFICATIONS_ENABLED: post changes to the guild log channel (default: true)
  - NOTIFICATIONS_PER_MINUTE: per-guild notification budget (default: 5)

HTTP:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT (defaults: 0.0.0.0, 8080, 30s)
  - STATS_TTL: /api/stats cache lifetime (default: 30s)
  - CORS_ORIGINS: comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file:line (default: false)

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.ListenAddr())

# Hot Reload

WatchConfigFile invokes a callback whenever the YAML file changes. The
application uses it to re-apply the log level without a restart.

# Thread Safety

Config values are immutable after Load returns and safe for concurrent reads.
*/
package config
