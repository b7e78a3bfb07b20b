// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

// Package merger assembles the guild object served to the dashboard from the
// guild's settings and its Discord metadata.
package merger

import (
	"context"
	"fmt"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

// SettingsReader supplies a guild's settings. It never fails; an unknown guild
// yields defaults.
type SettingsReader interface {
	Get(ctx context.Context, guildID string) models.GuildSettings
}

// MetadataSource supplies live Discord metadata for a guild.
type MetadataSource interface {
	GuildMetadata(ctx context.Context, guildID string) (models.GuildMetadata, error)
}

// MetadataWriter persists metadata into the guild's settings record.
type MetadataWriter interface {
	UpdateMetadata(ctx context.Context, guildID string, meta models.GuildMetadata, channels []models.ChannelSummary) bool
}

// Merger combines settings and metadata into a GuildDataView.
type Merger struct {
	settings SettingsReader
	metadata MetadataSource
	writer   MetadataWriter
}

// Option configures a Merger.
type Option func(*Merger)

// WithMetadataSource overlays live metadata on top of the cached fields.
func WithMetadataSource(src MetadataSource) Option {
	return func(m *Merger) { m.metadata = src }
}

// WithMetadataWriter writes changed live metadata back to the settings record.
func WithMetadataWriter(w MetadataWriter) Option {
	return func(m *Merger) { m.writer = w }
}

// New creates a Merger reading settings from reader.
func New(reader SettingsReader, opts ...Option) *Merger {
	m := &Merger{settings: reader}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Combine returns the merged view of guildID. It never fails: when assembly
// panics the view degrades to the unknown-guild placeholder carrying whatever
// settings were read.
func (m *Merger) Combine(ctx context.Context, guildID string) (view models.GuildDataView) {
	settings := models.DefaultGuildSettings()

	defer func() {
		if r := recover(); r != nil {
			logging.CtxErr(ctx, fmt.Errorf("panic: %v", r)).
				Str("guild_id", guildID).
				Msg("Recovered while merging guild data")
			view = models.GuildDataView{
				ID:       guildID,
				Name:     models.UnknownGuildName,
				Settings: settings,
			}
		}
	}()

	settings = m.settings.Get(ctx, guildID)
	meta := m.resolveMetadata(ctx, guildID, settings)

	name := meta.Name
	if name == "" {
		name = models.UnknownGuildName
	}
	members := meta.MemberCount
	if members < 0 {
		members = 0
	}

	return models.GuildDataView{
		ID:          guildID,
		Name:        name,
		Icon:        meta.Icon,
		OwnerID:     meta.OwnerID,
		MemberCount: members,
		Settings:    settings,
	}
}

func (m *Merger) resolveMetadata(ctx context.Context, guildID string, settings models.GuildSettings) models.GuildMetadata {
	cached := settings.Metadata()
	if m.metadata == nil {
		return cached
	}

	live, err := m.metadata.GuildMetadata(ctx, guildID)
	if err != nil {
		metrics.RecordFallback("guild_metadata", "settings")
		logging.Ctx(ctx).Debug().Err(err).Str("guild_id", guildID).Msg("Live guild metadata unavailable, using cached fields")
		return cached
	}

	if m.writer != nil && !sameMetadata(cached, live) {
		if !m.writer.UpdateMetadata(ctx, guildID, live, nil) {
			logging.Ctx(ctx).Warn().Str("guild_id", guildID).Msg("Failed to persist guild metadata")
		}
	}
	return live
}

func sameMetadata(a, b models.GuildMetadata) bool {
	if a.Name != b.Name || a.OwnerID != b.OwnerID || a.MemberCount != b.MemberCount {
		return false
	}
	if a.Icon == nil || b.Icon == nil {
		return a.Icon == nil && b.Icon == nil
	}
	return *a.Icon == *b.Icon
}
