// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package config

import (
	"fmt"
	"time"
)

// Process modes.
const (
	// ModeBot runs the Discord gateway session and the internal bot API.
	ModeBot = "bot"
	// ModeDashboard runs the dashboard API, reaching the bot over its internal API.
	ModeDashboard = "dashboard"
	// ModeCombined runs both in one process against one store.
	ModeCombined = "combined"
)

// Config holds all application configuration
type Config struct {
	Mode          string              `koanf:"mode"`
	Discord       DiscordConfig       `koanf:"discord"`
	BotAPI        BotAPIConfig        `koanf:"bot_api"`
	Remote        RemoteConfig        `koanf:"remote"`
	Storage       StorageConfig       `koanf:"storage"`
	Activity      ActivityConfig      `koanf:"activity"`
	Metadata      MetadataConfig      `koanf:"metadata"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Server        ServerConfig        `koanf:"server"`
	Security      SecurityConfig      `koanf:"security"`
	Logging       LoggingConfig       `koanf:"logging"`
}

// DiscordConfig holds the bot's gateway credentials
type DiscordConfig struct {
	Token string `koanf:"token"`
}

// BotAPIConfig protects the internal bot API
type BotAPIConfig struct {
	// Token is the shared bearer token. Every bot API request is rejected
	// while it is empty.
	Token string `koanf:"token"`
}

// RemoteConfig locates the bot's internal API from the dashboard process.
// An empty URL leaves the dashboard on its local store only.
type RemoteConfig struct {
	URL     string        `koanf:"url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

// StorageConfig selects the settings engine and the legacy prefix export
type StorageConfig struct {
	Engine             string        `koanf:"engine"`
	Path               string        `koanf:"path"`
	BadgerPath         string        `koanf:"badger_path"`
	LegacyExport       bool          `koanf:"legacy_export"`
	LegacyPrefixesPath string        `koanf:"legacy_prefixes_path"`
	LegacyBackupDir    string        `koanf:"legacy_backup_dir"`
	GCInterval         time.Duration `koanf:"gc_interval"`
}

// ActivityConfig bounds the per-guild activity log
type ActivityConfig struct {
	MaxEntries int `koanf:"max_entries"`
}

// MetadataConfig controls the Discord metadata cache
type MetadataConfig struct {
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// NotificationsConfig controls log-channel change notifications
type NotificationsConfig struct {
	Enabled   bool `koanf:"enabled"`
	PerMinute int  `koanf:"per_minute"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port     int           `koanf:"port"`
	Host     string        `koanf:"host"`
	Timeout  time.Duration `koanf:"timeout"`
	StatsTTL time.Duration `koanf:"stats_ttl"`
}

// SecurityConfig holds CORS and rate limit settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RunsBot reports whether the process owns the Discord session.
func (c *Config) RunsBot() bool {
	return c.Mode == ModeBot || c.Mode == ModeCombined
}

// RunsDashboard reports whether the process serves the dashboard API.
func (c *Config) RunsDashboard() bool {
	return c.Mode == ModeDashboard || c.Mode == ModeCombined
}

// HasRemote reports whether a remote bot API is configured.
func (c *Config) HasRemote() bool {
	return c.Mode == ModeDashboard && c.Remote.URL != ""
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load loads configuration from defaults, an optional config file and
// environment variables.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
