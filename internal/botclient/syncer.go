// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package botclient

import (
	"context"
	"errors"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/models"
	"github.com/tomtom215/guildsync/internal/settings"
)

// Source names reported by the fallback chains.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
	SourceCache  = "cached_channels"
	SourceEmpty  = "empty"
)

// ErrNoRemote is returned by FetchSettings when no bot API is configured.
var ErrNoRemote = errors.New("remote bot API not configured")

// Syncer reconciles the remote bot's settings with the local service.
type Syncer struct {
	remote Remote
	local  *settings.Service
}

// NewSyncer creates a syncer. remote may be nil, in which case every chain
// consists of local sources only.
func NewSyncer(remote Remote, local *settings.Service) *Syncer {
	return &Syncer{remote: remote, local: local}
}

// HasRemote reports whether a bot API is configured.
func (s *Syncer) HasRemote() bool { return s.remote != nil }

// FetchSettings asks the bot for guildID's settings and writes a successful
// answer through to the local store.
func (s *Syncer) FetchSettings(ctx context.Context, guildID string) (models.GuildSettings, error) {
	if s.remote == nil {
		return models.GuildSettings{}, ErrNoRemote
	}
	remote, err := s.remote.GetSettings(ctx, guildID)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("guild_id", guildID).Msg("Remote settings fetch failed")
		return models.GuildSettings{}, err
	}
	if !s.local.Replace(ctx, guildID, remote) {
		logging.Ctx(ctx).Warn().Str("guild_id", guildID).Msg("Failed to cache remote settings locally")
	}
	return remote, nil
}

// Get returns guildID's settings from the bot, or from the local service when
// the bot cannot answer.
func (s *Syncer) Get(ctx context.Context, guildID string) models.GuildSettings {
	var sources []Source[models.GuildSettings]
	if s.remote != nil {
		sources = append(sources, Source[models.GuildSettings]{
			Name:  SourceRemote,
			Fetch: func(ctx context.Context) (models.GuildSettings, error) { return s.FetchSettings(ctx, guildID) },
		})
	}
	sources = append(sources, Source[models.GuildSettings]{
		Name:  SourceLocal,
		Fetch: func(ctx context.Context) (models.GuildSettings, error) { return s.local.Get(ctx, guildID), nil },
	})

	result, _, _ := FirstSuccess(ctx, "get_settings", sources...)
	return result
}

// Update validates patch and pushes it to the bot, falling back to the local
// service. It fails only when the patch is invalid or both writes failed.
func (s *Syncer) Update(ctx context.Context, guildID string, patch models.SettingsPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	if s.remote != nil {
		err := s.remote.PostSettings(ctx, guildID, patch)
		if err == nil {
			s.local.Invalidate(guildID)
			return nil
		}
		logging.Ctx(ctx).Warn().Err(err).Str("guild_id", guildID).Msg("Remote settings push failed, writing locally")
	}

	if err := s.local.Update(ctx, guildID, patch); err != nil {
		return err
	}
	if s.remote != nil {
		logging.Ctx(ctx).Debug().Str("guild_id", guildID).Msg("Settings written to local fallback store")
	}
	return nil
}

// PushSettings is Update reporting success as a bool.
func (s *Syncer) PushSettings(ctx context.Context, guildID string, patch models.SettingsPatch) bool {
	return s.Update(ctx, guildID, patch) == nil
}

// FetchChannels lists guildID's channels from the bot, then from the channels
// cached in the settings record, then as an empty list.
func (s *Syncer) FetchChannels(ctx context.Context, guildID string) []models.ChannelSummary {
	var sources []Source[[]models.ChannelSummary]
	if s.remote != nil {
		sources = append(sources, Source[[]models.ChannelSummary]{
			Name: SourceRemote,
			Fetch: func(ctx context.Context) ([]models.ChannelSummary, error) {
				return s.remote.GetChannels(ctx, guildID)
			},
		})
	}
	sources = append(sources,
		Source[[]models.ChannelSummary]{
			Name: SourceCache,
			Fetch: func(ctx context.Context) ([]models.ChannelSummary, error) {
				cached := s.local.CachedChannels(ctx, guildID)
				if len(cached) == 0 {
					return nil, errors.New("no cached channels")
				}
				return cached, nil
			},
		},
		Source[[]models.ChannelSummary]{
			Name: SourceEmpty,
			Fetch: func(context.Context) ([]models.ChannelSummary, error) {
				return []models.ChannelSummary{}, nil
			},
		},
	)

	channels, _, _ := FirstSuccess(ctx, "get_channels", sources...)
	return channels
}

// Guilds lists guilds from the bot, or the locally stored guilds.
func (s *Syncer) Guilds(ctx context.Context) []models.GuildSummary {
	var sources []Source[[]models.GuildSummary]
	if s.remote != nil {
		sources = append(sources, Source[[]models.GuildSummary]{
			Name:  SourceRemote,
			Fetch: s.remote.GetGuilds,
		})
	}
	sources = append(sources, Source[[]models.GuildSummary]{
		Name: SourceLocal,
		Fetch: func(context.Context) ([]models.GuildSummary, error) {
			return s.local.Summaries(), nil
		},
	})

	guilds, _, _ := FirstSuccess(ctx, "get_guilds", sources...)
	return guilds
}
