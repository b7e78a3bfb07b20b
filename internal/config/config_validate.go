// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package config

import (
	"fmt"
	"net/url"
	"time"
)

// Rate limit bounds
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// maxActivityEntries caps ACTIVITY_MAX_ENTRIES; the log lives inside each
// guild's settings record.
const maxActivityEntries = 1000

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateMode(); err != nil {
		return err
	}

	if err := c.validateRemote(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateLimits(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateRateLimits(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateMode checks the process mode and the credentials it needs
func (c *Config) validateMode() error {
	switch c.Mode {
	case ModeBot, ModeDashboard, ModeCombined:
	default:
		return fmt.Errorf("GUILDSYNC_MODE must be one of: bot, dashboard, combined (got %q)", c.Mode)
	}

	if c.RunsBot() && c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required when GUILDSYNC_MODE=%s", c.Mode)
	}
	// A standalone bot exists to serve the dashboard over the bot API.
	if c.Mode == ModeBot && c.BotAPI.Token == "" {
		return fmt.Errorf("BOT_API_TOKEN is required when GUILDSYNC_MODE=bot")
	}
	return nil
}

// validateRemote validates the remote bot API settings (dashboard mode only)
func (c *Config) validateRemote() error {
	if c.Mode != ModeDashboard || c.Remote.URL == "" {
		return nil
	}
	if err := validateHTTPURL(c.Remote.URL, "BOT_API_URL"); err != nil {
		return err
	}
	if c.Remote.Token == "" {
		return fmt.Errorf("REMOTE_TOKEN is required when BOT_API_URL is set")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("BOT_API_TIMEOUT must be positive")
	}
	return nil
}

// validateStorage validates the settings engine and legacy export paths
func (c *Config) validateStorage() error {
	switch c.Storage.Engine {
	case "json":
		if c.Storage.Path == "" {
			return fmt.Errorf("SETTINGS_PATH is required when STORAGE_ENGINE=json")
		}
	case "badger":
		if c.Storage.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when STORAGE_ENGINE=badger")
		}
		if c.Storage.GCInterval <= 0 {
			return fmt.Errorf("BADGER_GC_INTERVAL must be positive")
		}
	default:
		return fmt.Errorf("STORAGE_ENGINE must be one of: json, badger (got %q)", c.Storage.Engine)
	}

	if c.Storage.LegacyExport {
		if c.Storage.LegacyPrefixesPath == "" {
			return fmt.Errorf("LEGACY_PREFIXES_PATH is required when LEGACY_EXPORT=true")
		}
		if c.Storage.LegacyBackupDir == "" {
			return fmt.Errorf("LEGACY_BACKUP_DIR is required when LEGACY_EXPORT=true")
		}
	}
	return nil
}

// validateLimits validates activity, cache and notification bounds
func (c *Config) validateLimits() error {
	if c.Activity.MaxEntries < 1 || c.Activity.MaxEntries > maxActivityEntries {
		return fmt.Errorf("ACTIVITY_MAX_ENTRIES must be between 1 and %d", maxActivityEntries)
	}
	if c.Metadata.CacheTTL <= 0 {
		return fmt.Errorf("METADATA_CACHE_TTL must be positive")
	}
	if c.Notifications.Enabled && c.Notifications.PerMinute < 1 {
		return fmt.Errorf("NOTIFICATIONS_PER_MINUTE must be at least 1")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.StatsTTL < 0 {
		return fmt.Errorf("STATS_TTL must not be negative")
	}
	return nil
}

// validateRateLimits validates rate limiting bounds
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL validates that a URL is an http(s) base URL.
// A path prefix is allowed so the bot API can sit behind a reverse proxy.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
