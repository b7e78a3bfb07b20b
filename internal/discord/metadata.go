// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package discord

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/tomtom215/guildsync/internal/cache"
	"github.com/tomtom215/guildsync/internal/models"
)

// DefaultMetadataTTL is how long fetched metadata is served from memory.
const DefaultMetadataTTL = 5 * time.Minute

// RESTClient is the part of *discordgo.Session used to read guild metadata.
type RESTClient interface {
	GuildWithCounts(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
}

// MetadataFetcher reads guild metadata and channels from Discord.
type MetadataFetcher struct {
	rest     RESTClient
	guilds   *cache.Cache[models.GuildMetadata]
	channels *cache.Cache[[]models.ChannelSummary]
}

// NewMetadataFetcher creates a fetcher whose answers are cached for ttl.
func NewMetadataFetcher(rest RESTClient, ttl time.Duration) *MetadataFetcher {
	if ttl <= 0 {
		ttl = DefaultMetadataTTL
	}
	return &MetadataFetcher{
		rest:     rest,
		guilds:   cache.New[models.GuildMetadata]("guild_metadata", ttl),
		channels: cache.New[[]models.ChannelSummary]("guild_channels", ttl),
	}
}

// GuildMetadata returns the guild's name, icon, owner and approximate member count.
func (f *MetadataFetcher) GuildMetadata(ctx context.Context, guildID string) (models.GuildMetadata, error) {
	if meta, ok := f.guilds.Get(guildID); ok {
		return meta, nil
	}

	guild, err := f.rest.GuildWithCounts(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return models.GuildMetadata{}, fmt.Errorf("fetch guild %s: %w", guildID, err)
	}

	meta := MetadataFromGuild(guild)
	f.guilds.Set(guildID, meta)
	return meta, nil
}

// Channels returns the guild's text channels ordered by position.
func (f *MetadataFetcher) Channels(ctx context.Context, guildID string) ([]models.ChannelSummary, error) {
	if channels, ok := f.channels.Get(guildID); ok {
		return append([]models.ChannelSummary(nil), channels...), nil
	}

	raw, err := f.rest.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch channels of guild %s: %w", guildID, err)
	}

	channels := TextChannels(raw)
	f.channels.Set(guildID, channels)
	return append([]models.ChannelSummary(nil), channels...), nil
}

// Invalidate drops cached answers for guildID.
func (f *MetadataFetcher) Invalidate(guildID string) {
	f.guilds.Delete(guildID)
	f.channels.Delete(guildID)
}

// Close stops the cache sweepers.
func (f *MetadataFetcher) Close() {
	f.guilds.Close()
	f.channels.Close()
}

// MetadataFromGuild converts a discordgo guild. The approximate member count
// is preferred because gateway member counts are absent on REST answers.
func MetadataFromGuild(g *discordgo.Guild) models.GuildMetadata {
	meta := models.GuildMetadata{
		Name:        g.Name,
		OwnerID:     g.OwnerID,
		MemberCount: g.MemberCount,
	}
	if g.ApproximateMemberCount > 0 {
		meta.MemberCount = g.ApproximateMemberCount
	}
	if g.Icon != "" {
		icon := g.Icon
		meta.Icon = &icon
	}
	return meta
}

// TextChannels keeps the text channels of raw, ordered by position then ID.
// The result is never nil.
func TextChannels(raw []*discordgo.Channel) []models.ChannelSummary {
	out := make([]models.ChannelSummary, 0, len(raw))
	for _, ch := range raw {
		if ch == nil || ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		out = append(out, models.ChannelSummary{
			ID:       ch.ID,
			Name:     ch.Name,
			Type:     int(ch.Type),
			Position: ch.Position,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// GuildsFromState lists the guilds held in the gateway session state,
// ordered by ID. Unavailable guilds are skipped.
func GuildsFromState(state *discordgo.State) []models.GuildSummary {
	out := []models.GuildSummary{}
	if state == nil {
		return out
	}

	state.RLock()
	defer state.RUnlock()
	for _, g := range state.Guilds {
		if g == nil || g.Unavailable {
			continue
		}
		meta := MetadataFromGuild(g)
		out = append(out, models.GuildSummary{
			ID:          g.ID,
			Name:        meta.Name,
			Icon:        meta.Icon,
			MemberCount: meta.MemberCount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
