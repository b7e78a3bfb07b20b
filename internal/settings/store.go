// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package settings

import (
	"fmt"
	"time"

	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

// Storage engine names accepted by NewStore.
const (
	EngineJSON   = "json"
	EngineBadger = "badger"
)

// Store persists guild settings.
type Store interface {
	// Read returns the stored settings of guildID, or defaults when none exist.
	Read(guildID string) models.GuildSettings

	// Write merges patch onto the stored record and persists it. It returns
	// false when the patch is invalid or persisting fails.
	Write(guildID string, patch models.SettingsPatch) bool

	// ReadAll returns every stored record keyed by guild ID.
	ReadAll() map[string]models.GuildSettings

	// Engine names the storage engine.
	Engine() string

	Close() error
}

// StoreConfig selects and configures a storage engine.
type StoreConfig struct {
	Engine     string
	Path       string
	BadgerPath string
}

// NewStore opens the configured storage engine.
func NewStore(cfg StoreConfig) (Store, error) {
	switch cfg.Engine {
	case "", EngineJSON:
		return NewFileStore(cfg.Path), nil
	case EngineBadger:
		return OpenBadgerStore(cfg.BadgerPath)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
}

func observe(engine, operation string, start time.Time) {
	metrics.RecordStoreOperation(engine, operation, time.Since(start))
}
