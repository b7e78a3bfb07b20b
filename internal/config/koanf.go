// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/guildsync/config.yaml",
	"/etc/guildsync/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is loaded into the process environment before anything else when present.
const DotEnvFile = ".env"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Mode: ModeCombined,
		Remote: RemoteConfig{
			URL:     "",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Engine:             "json",
			Path:               "data/settings.json",
			BadgerPath:         "data/settings.badger",
			LegacyExport:       true,
			LegacyPrefixesPath: "data/prefixes.json",
			LegacyBackupDir:    "data/backups",
			GCInterval:         10 * time.Minute,
		},
		Activity: ActivityConfig{
			MaxEntries: 50,
		},
		Metadata: MetadataConfig{
			CacheTTL: 5 * time.Minute,
		},
		Notifications: NotificationsConfig{
			Enabled:   true,
			PerMinute: 5,
		},
		Server: ServerConfig{
			Port:     8080,
			Host:     "0.0.0.0",
			Timeout:  30 * time.Second,
			StatsTTL: 30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// A .env file in the working directory is read into the process environment
// first, without overriding variables that are already set.
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads path into the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ConfigFilePath returns the config file LoadWithKoanf would read, or "".
func ConfigFilePath() string {
	return findConfigFile()
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	"guildsync_mode": "mode",

	"discord_token": "discord.token",
	"bot_api_token": "bot_api.token",

	"bot_api_url":     "remote.url",
	"bot_api_timeout": "remote.timeout",
	"remote_token":    "remote.token",

	"storage_engine":       "storage.engine",
	"settings_path":        "storage.path",
	"badger_path":          "storage.badger_path",
	"legacy_export":        "storage.legacy_export",
	"legacy_prefixes_path": "storage.legacy_prefixes_path",
	"legacy_backup_dir":    "storage.legacy_backup_dir",
	"badger_gc_interval":   "storage.gc_interval",

	"activity_max_entries": "activity.max_entries",
	"metadata_cache_ttl":   "metadata.cache_ttl",

	"notifications_enabled":    "notifications.enabled",
	"notifications_per_minute": "notifications.per_minute",

	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"stats_ttl":    "server.stats_ttl",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DISCORD_TOKEN -> discord.token
//   - BOT_API_URL -> remote.url
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	// Unmapped keys are skipped so unrelated variables never leak into config.
	return ""
}

// WatchConfigFile calls callback whenever the file at path changes.
// The caller is responsible for synchronizing access to reloaded values.
func WatchConfigFile(path string, callback func()) (stop func() error, err error) {
	provider := file.Provider(path)
	if err := provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	}); err != nil {
		return nil, err
	}
	return provider.Unwatch, nil
}
