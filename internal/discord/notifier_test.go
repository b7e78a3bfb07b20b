// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package discord

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

func settingsWithLogChannel(channelID string) models.GuildSettings {
	s := models.DefaultGuildSettings()
	s.Prefix = "$"
	s.LogChannelID = &channelID
	return s
}

func TestLogChannelNotifier_Sends(t *testing.T) {
	sender := &fakeSender{}
	n := NewLogChannelNotifier(sender, 10)
	entry := models.ActivityEntry{Timestamp: time.Now(), Action: models.ActionPrefixUpdate}

	n.Notify(context.Background(), "1", settingsWithLogChannel("555"), entry)

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	if sender.sent[0].channelID != "555" {
		t.Errorf("channel = %q, want 555", sender.sent[0].channelID)
	}
	if !strings.Contains(sender.sent[0].embed.Description, "`$`") {
		t.Errorf("Description = %q, want the new prefix", sender.sent[0].embed.Description)
	}
}

func TestLogChannelNotifier_SkipsWithoutChannel(t *testing.T) {
	sender := &fakeSender{}
	n := NewLogChannelNotifier(sender, 10)

	n.Notify(context.Background(), "1", models.DefaultGuildSettings(), models.ActivityEntry{Action: models.ActionCogsUpdate})

	if len(sender.sent) != 0 {
		t.Errorf("sent = %d, want 0", len(sender.sent))
	}
}

func TestLogChannelNotifier_SkipsWithoutSecurityModule(t *testing.T) {
	sender := &fakeSender{}
	n := NewLogChannelNotifier(sender, 10)
	s := settingsWithLogChannel("555")
	s.EnabledModules = []string{"image"}
	before := testutil.ToFloat64(metrics.DiscordNotifications.WithLabelValues("skipped"))

	n.Notify(context.Background(), "1", s, models.ActivityEntry{Action: models.ActionCogsUpdate})

	if len(sender.sent) != 0 {
		t.Errorf("sent = %d, want 0 with the security module disabled", len(sender.sent))
	}
	if got := testutil.ToFloat64(metrics.DiscordNotifications.WithLabelValues("skipped")); got != before+1 {
		t.Errorf("skipped notifications = %v, want %v", got, before+1)
	}
}

func TestLogChannelNotifier_RateLimitedPerGuild(t *testing.T) {
	sender := &fakeSender{}
	n := NewLogChannelNotifier(sender, 2)
	entry := models.ActivityEntry{Action: models.ActionCogsUpdate}
	before := testutil.ToFloat64(metrics.DiscordNotifications.WithLabelValues("rate_limited"))

	for i := 0; i < 5; i++ {
		n.Notify(context.Background(), "1", settingsWithLogChannel("555"), entry)
	}
	n.Notify(context.Background(), "2", settingsWithLogChannel("777"), entry)

	if len(sender.sent) != 3 {
		t.Errorf("sent = %d, want 2 for guild 1 plus 1 for guild 2", len(sender.sent))
	}
	after := testutil.ToFloat64(metrics.DiscordNotifications.WithLabelValues("rate_limited"))
	if after-before != 3 {
		t.Errorf("rate_limited delta = %v, want 3", after-before)
	}
}

func TestLogChannelNotifier_SendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{fail: true}
	n := NewLogChannelNotifier(sender, 10)

	n.Notify(context.Background(), "1", settingsWithLogChannel("555"), models.ActivityEntry{Action: models.ActionLogChannelUpdate})
}

func TestBuildEmbed_ListsModules(t *testing.T) {
	s := models.DefaultGuildSettings()
	embed := buildEmbed(s, models.ActivityEntry{Action: models.ActionCogsUpdate})
	if len(embed.Fields) != 1 || embed.Fields[0].Value != "`image`, `security`" {
		t.Errorf("Fields = %+v", embed.Fields)
	}

	s.EnabledModules = []string{}
	embed = buildEmbed(s, models.ActivityEntry{Action: models.ActionCogsUpdate})
	if embed.Fields[0].Value != "none" {
		t.Errorf("Value = %q, want none", embed.Fields[0].Value)
	}
}
