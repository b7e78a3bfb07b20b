// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package settings

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/models"
)

// ErrWriteFailed is returned when the store could not persist an update.
var ErrWriteFailed = errors.New("settings write failed")

// Service is the local settings provider: a Store fronted by a Cache.
//
// Reads go through the cache and fall back to the store on a miss. Every
// successful write refreshes the cache from the store and, when a
// LegacyExporter is configured, re-derives the legacy prefix document.
type Service struct {
	store  Store
	cache  *Cache
	legacy *LegacyExporter

	// counterMu serializes read-increment-write of the usage counters.
	counterMu sync.Mutex
}

// NewService composes store and cache. legacy may be nil.
func NewService(store Store, cache *Cache, legacy *LegacyExporter) *Service {
	if cache == nil {
		cache = NewCache()
	}
	return &Service{store: store, cache: cache, legacy: legacy}
}

// Engine names the underlying storage engine.
func (s *Service) Engine() string { return s.store.Engine() }

// Get returns the settings of guildID, reading through the cache.
func (s *Service) Get(ctx context.Context, guildID string) models.GuildSettings {
	if cached, ok := s.cache.Get(guildID); ok {
		return cached
	}
	loaded := s.store.Read(guildID)
	s.cache.Put(guildID, loaded)
	logging.Ctx(ctx).Debug().Str("guild_id", guildID).Msg("Loaded guild settings from store")
	return loaded.Clone()
}

// Update validates and persists patch. It returns the validation error for
// an invalid patch and ErrWriteFailed when the store could not persist it.
func (s *Service) Update(ctx context.Context, guildID string, patch models.SettingsPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if !s.write(ctx, guildID, patch) {
		return ErrWriteFailed
	}
	return nil
}

// Replace persists a full record, typically one received from the remote bot.
// Stored metadata absent from s is kept.
func (s *Service) Replace(ctx context.Context, guildID string, settings models.GuildSettings) bool {
	return s.write(ctx, guildID, models.PatchFrom(settings))
}

// IncrementCommandCount adds one to the guild's command counter.
func (s *Service) IncrementCommandCount(ctx context.Context, guildID string) bool {
	return s.increment(ctx, guildID, func(cur models.GuildSettings) models.SettingsPatch {
		n := cur.CommandCount + 1
		return models.SettingsPatch{CommandCount: &n}
	})
}

// IncrementModAction adds one to the guild's moderation action counter.
func (s *Service) IncrementModAction(ctx context.Context, guildID string) bool {
	return s.increment(ctx, guildID, func(cur models.GuildSettings) models.SettingsPatch {
		n := cur.ModActionCount + 1
		return models.SettingsPatch{ModActionCount: &n}
	})
}

func (s *Service) increment(ctx context.Context, guildID string, next func(models.GuildSettings) models.SettingsPatch) bool {
	s.counterMu.Lock()
	defer s.counterMu.Unlock()

	// The store, not the cache, holds the latest counter when another
	// process writes the same document.
	return s.write(ctx, guildID, next(s.store.Read(guildID)))
}

// UpdateMetadata merges Discord metadata and, when channels is non-nil, the
// cached channel list into the guild's record.
func (s *Service) UpdateMetadata(ctx context.Context, guildID string, meta models.GuildMetadata, channels []models.ChannelSummary) bool {
	patch := models.MetadataPatch(meta)
	if channels != nil {
		patch.CachedChannels = channels
	}
	return s.write(ctx, guildID, patch)
}

// CachedChannels returns the channel list last stored for guildID.
func (s *Service) CachedChannels(ctx context.Context, guildID string) []models.ChannelSummary {
	return s.Get(ctx, guildID).CachedChannels
}

func (s *Service) write(ctx context.Context, guildID string, patch models.SettingsPatch) bool {
	logger := logging.Ctx(ctx)
	if !s.store.Write(guildID, patch) {
		logger.Warn().Str("guild_id", guildID).Str("engine", s.store.Engine()).Msg("Guild settings write failed")
		return false
	}
	s.cache.Put(guildID, s.store.Read(guildID))

	if s.legacy != nil && patch.Prefix != nil {
		if err := s.legacy.Export(s.store.ReadAll()); err != nil {
			logger.Warn().Err(err).Msg("Failed to export legacy prefixes")
		}
	}
	return true
}

// Invalidate drops the cached copy of guildID.
func (s *Service) Invalidate(guildID string) {
	s.cache.Invalidate(guildID)
}

// Warm loads every stored record into the cache and returns how many were loaded.
func (s *Service) Warm(ctx context.Context) int {
	all := s.store.ReadAll()
	for id, settings := range all {
		s.cache.Put(id, settings)
	}
	logging.Ctx(ctx).Info().Int("guilds", len(all)).Str("engine", s.store.Engine()).Msg("Settings cache warmed")
	return len(all)
}

// ExportLegacy re-derives the legacy prefix document from the store.
func (s *Service) ExportLegacy() error {
	if s.legacy == nil {
		return nil
	}
	return s.legacy.Export(s.store.ReadAll())
}

// Stats aggregates over the cached guilds.
func (s *Service) Stats() models.Stats {
	var stats models.Stats
	for _, settings := range s.cache.GetAll() {
		stats.Add(settings)
	}
	return stats
}

// Summaries lists every stored guild, ordered by ID.
func (s *Service) Summaries() []models.GuildSummary {
	all := s.store.ReadAll()
	out := make([]models.GuildSummary, 0, len(all))
	for id, settings := range all {
		meta := settings.Metadata()
		name := meta.Name
		if name == "" {
			name = models.UnknownGuildName
		}
		out = append(out, models.GuildSummary{
			ID:          id,
			Name:        name,
			Icon:        meta.Icon,
			MemberCount: meta.MemberCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close closes the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}
