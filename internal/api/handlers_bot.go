// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/models"
	"github.com/tomtom215/guildsync/internal/validation"
)

// maxBodyBytes bounds request bodies on both APIs.
const maxBodyBytes = 1 << 20

// SettingsProvider reads and writes guild settings.
type SettingsProvider interface {
	Get(ctx context.Context, guildID string) models.GuildSettings
	Update(ctx context.Context, guildID string, patch models.SettingsPatch) error
}

// GuildLister lists the guilds the bot is in.
type GuildLister interface {
	Guilds(ctx context.Context) []models.GuildSummary
}

// GuildListerFunc adapts a function to GuildLister.
type GuildListerFunc func(ctx context.Context) []models.GuildSummary

// Guilds implements GuildLister.
func (f GuildListerFunc) Guilds(ctx context.Context) []models.GuildSummary { return f(ctx) }

// ChannelLister lists a guild's channels.
type ChannelLister interface {
	Channels(ctx context.Context, guildID string) ([]models.ChannelSummary, error)
}

// BotAPI serves the internal bot API consumed by the dashboard's remote client.
// Bodies are bare JSON documents without the dashboard envelope.
type BotAPI struct {
	settings SettingsProvider
	guilds   GuildLister
	channels ChannelLister
}

// NewBotAPI creates the internal bot API handlers. channels may be nil, in
// which case the channels cached in the settings record are served.
func NewBotAPI(settings SettingsProvider, guilds GuildLister, channels ChannelLister) *BotAPI {
	return &BotAPI{settings: settings, guilds: guilds, channels: channels}
}

type successBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// GetSettings handles GET /api/settings/{guildId}.
func (b *BotAPI) GetSettings(w http.ResponseWriter, r *http.Request) {
	guildID, ok := botGuildID(w, r)
	if !ok {
		return
	}
	writeRawJSON(w, http.StatusOK, b.settings.Get(r.Context(), guildID))
}

// PostSettings handles POST /api/settings/{guildId}. The body is a partial
// settings document; absent fields are left unchanged.
func (b *BotAPI) PostSettings(w http.ResponseWriter, r *http.Request) {
	guildID, ok := botGuildID(w, r)
	if !ok {
		return
	}

	var patch models.SettingsPatch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
		writeRawJSON(w, http.StatusBadRequest, successBody{Error: "invalid JSON body"})
		return
	}

	err := b.settings.Update(r.Context(), guildID, patch)
	var verr *validation.RequestValidationError
	switch {
	case err == nil:
		writeRawJSON(w, http.StatusOK, successBody{Success: true})
	case errors.As(err, &verr):
		writeRawJSON(w, http.StatusBadRequest, successBody{Error: verr.Error()})
	default:
		logging.CtxErr(r.Context(), err).Str("guild_id", guildID).Msg("Internal API settings write failed")
		writeRawJSON(w, http.StatusInternalServerError, successBody{Error: "settings could not be saved"})
	}
}

// GetGuilds handles GET /api/guilds.
func (b *BotAPI) GetGuilds(w http.ResponseWriter, r *http.Request) {
	guilds := b.guilds.Guilds(r.Context())
	if guilds == nil {
		guilds = []models.GuildSummary{}
	}
	writeRawJSON(w, http.StatusOK, guilds)
}

// GetChannels handles GET /api/channels/{guildId}.
func (b *BotAPI) GetChannels(w http.ResponseWriter, r *http.Request) {
	guildID, ok := botGuildID(w, r)
	if !ok {
		return
	}

	if b.channels != nil {
		channels, err := b.channels.Channels(r.Context(), guildID)
		if err == nil {
			writeRawJSON(w, http.StatusOK, channels)
			return
		}
		logging.Ctx(r.Context()).Warn().Err(err).Str("guild_id", guildID).Msg("Discord channel fetch failed, serving cached channels")
	}

	cached := b.settings.Get(r.Context(), guildID).CachedChannels
	if cached == nil {
		cached = []models.ChannelSummary{}
	}
	writeRawJSON(w, http.StatusOK, cached)
}

func botGuildID(w http.ResponseWriter, r *http.Request) (string, bool) {
	guildID := chi.URLParam(r, "guildId")
	if err := validation.ValidateVar(guildID, "required,snowflake"); err != nil {
		writeRawJSON(w, http.StatusBadRequest, successBody{Error: "invalid guild id"})
		return "", false
	}
	return guildID, true
}
