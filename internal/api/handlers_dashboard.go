// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/guildsync/internal/cache"
	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/models"
	"github.com/tomtom215/guildsync/internal/validation"
)

// DefaultActivityLimit is the number of entries returned when no limit is given.
const DefaultActivityLimit = 10

// SettingsSyncer is the dashboard's view of guild settings: remote bot first,
// local store as fallback. *botclient.Syncer satisfies it.
type SettingsSyncer interface {
	Update(ctx context.Context, guildID string, patch models.SettingsPatch) error
	FetchChannels(ctx context.Context, guildID string) []models.ChannelSummary
	Guilds(ctx context.Context) []models.GuildSummary
}

// GuildMerger builds the merged guild view.
type GuildMerger interface {
	Combine(ctx context.Context, guildID string) models.GuildDataView
}

// ActivityRecorder appends to and reads the per-guild activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, guildID string, action models.ActivityAction, data interface{}) error
	Recent(ctx context.Context, guildID string, limit int) []models.ActivityEntry
}

// StatsSource aggregates statistics over the known guilds.
type StatsSource interface {
	Stats() models.Stats
}

// Dashboard serves the dashboard API.
type Dashboard struct {
	settings SettingsSyncer
	merger   GuildMerger
	activity ActivityRecorder
	stats    StatsSource

	statsCache *cache.Cache[models.Stats]
}

// NewDashboard creates the dashboard handlers. Aggregate statistics are
// cached for statsTTL.
func NewDashboard(settings SettingsSyncer, merger GuildMerger, activity ActivityRecorder, stats StatsSource, statsTTL time.Duration) *Dashboard {
	if statsTTL <= 0 {
		statsTTL = 30 * time.Second
	}
	return &Dashboard{
		settings:   settings,
		merger:     merger,
		activity:   activity,
		stats:      stats,
		statsCache: cache.New[models.Stats]("stats", statsTTL),
	}
}

// Close stops the stats cache sweeper.
func (d *Dashboard) Close() {
	d.statsCache.Close()
}

// GetGuild handles GET /api/guild/{guildId}.
func (d *Dashboard) GetGuild(w http.ResponseWriter, r *http.Request) {
	guildID, ok := dashboardGuildID(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, d.merger.Combine(r.Context(), guildID))
}

type prefixRequest struct {
	Prefix *string `json:"prefix"`
}

// UpdatePrefix handles POST /api/guild/{guildId}/prefix.
func (d *Dashboard) UpdatePrefix(w http.ResponseWriter, r *http.Request) {
	guildID, ok := dashboardGuildID(w, r)
	if !ok {
		return
	}

	var req prefixRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prefix := models.DefaultPrefix
	if req.Prefix != nil {
		prefix = *req.Prefix
	}

	patch := models.SettingsPatch{Prefix: &prefix}
	if !d.applyUpdate(w, r, guildID, patch) {
		return
	}
	d.record(r.Context(), guildID, models.ActionPrefixUpdate, map[string]string{"prefix": prefix})
	WriteSuccess(w, r, map[string]string{"prefix": prefix})
}

// cogsRequest accepts both the current field name and the older "cogs".
type cogsRequest struct {
	EnabledModules []string `json:"enabledModules"`
	Cogs           []string `json:"cogs"`
}

// UpdateCogs handles POST /api/guild/{guildId}/cogs. The list replaces the
// enabled modules; an absent list disables every module.
func (d *Dashboard) UpdateCogs(w http.ResponseWriter, r *http.Request) {
	guildID, ok := dashboardGuildID(w, r)
	if !ok {
		return
	}

	var req cogsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	modules := req.EnabledModules
	if modules == nil {
		modules = req.Cogs
	}
	if modules == nil {
		modules = []string{}
	}

	if !d.applyUpdate(w, r, guildID, models.SettingsPatch{EnabledModules: modules}) {
		return
	}
	d.record(r.Context(), guildID, models.ActionCogsUpdate, map[string][]string{"enabledModules": modules})
	WriteSuccess(w, r, map[string][]string{"enabledModules": modules})
}

type logChannelRequest struct {
	ChannelID       *string `json:"channelId"`
	LegacyChannelID *string `json:"channel_id"`
}

// UpdateLogChannel handles POST /api/guild/{guildId}/log-channel. An empty or
// absent channel ID clears the log channel.
func (d *Dashboard) UpdateLogChannel(w http.ResponseWriter, r *http.Request) {
	guildID, ok := dashboardGuildID(w, r)
	if !ok {
		return
	}

	var req logChannelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	channelID := ""
	switch {
	case req.ChannelID != nil:
		channelID = *req.ChannelID
	case req.LegacyChannelID != nil:
		channelID = *req.LegacyChannelID
	}

	if !d.applyUpdate(w, r, guildID, models.SettingsPatch{LogChannelID: &channelID}) {
		return
	}

	var data map[string]*string
	if channelID == "" {
		data = map[string]*string{"channelId": nil}
	} else {
		data = map[string]*string{"channelId": &channelID}
	}
	d.record(r.Context(), guildID, models.ActionLogChannelUpdate, data)
	WriteSuccess(w, r, data)
}

// GetActivity handles GET /api/guild/{guildId}/activity?limit=N.
func (d *Dashboard) GetActivity(w http.ResponseWriter, r *http.Request) {
	guildID, ok := dashboardGuildID(w, r)
	if !ok {
		return
	}

	limit := DefaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			NewResponseWriter(w, r).BadRequest("limit must be a positive integer")
			return
		}
		limit = n
	}

	WriteSuccess(w, r, d.activity.Recent(r.Context(), guildID, limit))
}

// GetChannels handles GET /api/guild/{guildId}/channels.
func (d *Dashboard) GetChannels(w http.ResponseWriter, r *http.Request) {
	guildID, ok := dashboardGuildID(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, r, d.settings.FetchChannels(r.Context(), guildID))
}

// GetServers handles GET /api/servers: the bot's guilds, for the server picker.
func (d *Dashboard) GetServers(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, d.settings.Guilds(r.Context()))
}

const statsCacheKey = "all"

// GetStats handles GET /api/stats.
func (d *Dashboard) GetStats(w http.ResponseWriter, r *http.Request) {
	if stats, ok := d.statsCache.Get(statsCacheKey); ok {
		WriteSuccess(w, r, stats)
		return
	}
	stats := d.stats.Stats()
	d.statsCache.Set(statsCacheKey, stats)
	WriteSuccess(w, r, stats)
}

// applyUpdate writes patch and reports failures to the client. It returns
// false when a response has already been written.
func (d *Dashboard) applyUpdate(w http.ResponseWriter, r *http.Request, guildID string, patch models.SettingsPatch) bool {
	err := d.settings.Update(r.Context(), guildID, patch)
	if err == nil {
		d.statsCache.Delete(statsCacheKey)
		return true
	}

	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		apiErr := verr.ToAPIError()
		NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	NewResponseWriter(w, r).StorageError(err)
	return false
}

func (d *Dashboard) record(ctx context.Context, guildID string, action models.ActivityAction, data interface{}) {
	if err := d.activity.Record(ctx, guildID, action, data); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("guild_id", guildID).Str("action", string(action)).Msg("Failed to record activity")
	}
}

func dashboardGuildID(w http.ResponseWriter, r *http.Request) (string, bool) {
	guildID := chi.URLParam(r, "guildId")
	if err := validation.ValidateVar(guildID, "required,snowflake"); err != nil {
		NewResponseWriter(w, r).BadRequest("Invalid guild ID")
		return "", false
	}
	return guildID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		NewResponseWriter(w, r).BadRequest("Invalid JSON body")
		return false
	}
	return true
}
