// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

// SettingsStore is the settings surface the gateway handlers write to.
// *settings.Service satisfies it.
type SettingsStore interface {
	Get(ctx context.Context, guildID string) models.GuildSettings
	UpdateMetadata(ctx context.Context, guildID string, meta models.GuildMetadata, channels []models.ChannelSummary) bool
	IncrementCommandCount(ctx context.Context, guildID string) bool
	IncrementModAction(ctx context.Context, guildID string) bool
}

// Handlers reacts to gateway events.
type Handlers struct {
	settings SettingsStore
	fetcher  *MetadataFetcher
	logger   zerolog.Logger
}

// NewHandlers creates the gateway handlers. fetcher may be nil; when set its
// cached answers are dropped whenever Discord reports a guild change.
func NewHandlers(settings SettingsStore, fetcher *MetadataFetcher) *Handlers {
	return &Handlers{
		settings: settings,
		fetcher:  fetcher,
		logger:   logging.WithComponent("discord-handlers"),
	}
}

// Register attaches every handler to the session.
func (h *Handlers) Register(s *discordgo.Session) {
	s.AddHandler(h.GuildCreate)
	s.AddHandler(h.GuildUpdate)
	s.AddHandler(h.MessageCreate)
	s.AddHandler(h.GuildBanAdd)
}

// GuildCreate stores the guild's metadata and text channels when the bot
// joins a guild or the guild becomes available on connect.
func (h *Handlers) GuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	if e == nil || e.Guild == nil || e.Unavailable {
		return
	}
	metrics.RecordDiscordEvent("guild_create")
	h.storeGuild(e.Guild, TextChannels(e.Channels))
}

// GuildUpdate refreshes the guild's metadata. Channels are not part of the
// event, so the cached channel list is left as is.
func (h *Handlers) GuildUpdate(_ *discordgo.Session, e *discordgo.GuildUpdate) {
	if e == nil || e.Guild == nil {
		return
	}
	metrics.RecordDiscordEvent("guild_update")
	h.storeGuild(e.Guild, nil)
}

func (h *Handlers) storeGuild(g *discordgo.Guild, channels []models.ChannelSummary) {
	ctx := logging.ContextWithGuildID(context.Background(), g.ID)
	if h.fetcher != nil {
		h.fetcher.Invalidate(g.ID)
	}
	if !h.settings.UpdateMetadata(ctx, g.ID, MetadataFromGuild(g), channels) {
		h.logger.Warn().Str("guild_id", g.ID).Msg("Failed to store guild metadata")
		return
	}
	h.logger.Debug().Str("guild_id", g.ID).Str("name", g.Name).Int("channels", len(channels)).Msg("Guild metadata stored")
}

// MessageCreate counts messages that start with the guild's prefix as commands.
func (h *Handlers) MessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.GuildID == "" || m.Author == nil || m.Author.Bot {
		return
	}

	ctx := logging.ContextWithGuildID(context.Background(), m.GuildID)
	prefix := h.settings.Get(ctx, m.GuildID).Prefix
	if len(m.Content) <= len(prefix) || !strings.HasPrefix(m.Content, prefix) {
		return
	}

	metrics.RecordDiscordEvent("command")
	if !h.settings.IncrementCommandCount(ctx, m.GuildID) {
		h.logger.Warn().Str("guild_id", m.GuildID).Msg("Failed to increment command count")
	}
}

// GuildBanAdd counts a ban as a moderation action.
func (h *Handlers) GuildBanAdd(_ *discordgo.Session, e *discordgo.GuildBanAdd) {
	if e == nil || e.GuildID == "" {
		return
	}
	metrics.RecordDiscordEvent("guild_ban_add")

	ctx := logging.ContextWithGuildID(context.Background(), e.GuildID)
	if !h.settings.IncrementModAction(ctx, e.GuildID) {
		h.logger.Warn().Str("guild_id", e.GuildID).Msg("Failed to increment moderation action count")
	}
}
