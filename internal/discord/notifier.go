// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

// embedColor is the accent color of settings change embeds.
const embedColor = 0x5865F2

// MessageSender is the part of *discordgo.Session used to post notifications.
type MessageSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// LogChannelNotifier posts settings changes to the guild's log channel.
// Each guild has its own token bucket.
type LogChannelNotifier struct {
	sender    MessageSender
	perMinute int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLogChannelNotifier creates a notifier allowing perMinute messages per guild.
func NewLogChannelNotifier(sender MessageSender, perMinute int) *LogChannelNotifier {
	if perMinute <= 0 {
		perMinute = 5
	}
	return &LogChannelNotifier{
		sender:    sender,
		perMinute: perMinute,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (n *LogChannelNotifier) limiter(guildID string) *rate.Limiter {
	n.mu.Lock()
	defer n.mu.Unlock()
	l, ok := n.limiters[guildID]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n.perMinute)), n.perMinute)
		n.limiters[guildID] = l
	}
	return l
}

// Notify implements activity.Notifier. Guilds without a log channel or with
// the security module disabled are skipped.
func (n *LogChannelNotifier) Notify(ctx context.Context, guildID string, settings models.GuildSettings, entry models.ActivityEntry) {
	if settings.LogChannelID == nil || *settings.LogChannelID == "" || !settings.HasModule(models.ModuleSecurity) {
		metrics.RecordNotification("skipped")
		return
	}
	if !n.limiter(guildID).Allow() {
		metrics.RecordNotification("rate_limited")
		logging.Ctx(ctx).Debug().Str("guild_id", guildID).Msg("Log channel notification rate limited")
		return
	}

	_, err := n.sender.ChannelMessageSendEmbed(*settings.LogChannelID, buildEmbed(settings, entry), discordgo.WithContext(ctx))
	if err != nil {
		metrics.RecordNotification("failed")
		logging.Ctx(ctx).Warn().Err(err).Str("guild_id", guildID).Msg("Failed to post log channel notification")
		return
	}
	metrics.RecordNotification("sent")
}

func buildEmbed(settings models.GuildSettings, entry models.ActivityEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "Settings updated",
		Color:     embedColor,
		Timestamp: entry.Timestamp.UTC().Format(time.RFC3339),
	}

	switch entry.Action {
	case models.ActionPrefixUpdate:
		embed.Description = fmt.Sprintf("Command prefix is now `%s`", settings.Prefix)
	case models.ActionCogsUpdate:
		embed.Description = "Enabled modules changed"
		embed.Fields = []*discordgo.MessageEmbedField{{
			Name:  "Modules",
			Value: joinOrNone(settings.EnabledModules),
		}}
	case models.ActionLogChannelUpdate:
		embed.Description = "Log channel changed"
	default:
		embed.Description = string(entry.Action)
	}
	return embed
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return "`" + strings.Join(items, "`, `") + "`"
}
