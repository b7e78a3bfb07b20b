// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package discord

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/tomtom215/guildsync/internal/models"
)

type fakeREST struct {
	mu            sync.Mutex
	guild         *discordgo.Guild
	channels      []*discordgo.Channel
	err           error
	guildCalls    int
	channelsCalls int
}

func (f *fakeREST) GuildWithCounts(string, ...discordgo.RequestOption) (*discordgo.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.guildCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.guild, nil
}

func (f *fakeREST) GuildChannels(string, ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.channels, nil
}

type sentEmbed struct {
	channelID string
	embed     *discordgo.MessageEmbed
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmbed
	fail bool
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("missing access")
	}
	f.sent = append(f.sent, sentEmbed{channelID: channelID, embed: embed})
	return &discordgo.Message{ChannelID: channelID}, nil
}

type metadataWrite struct {
	meta     models.GuildMetadata
	channels []models.ChannelSummary
}

type fakeSettings struct {
	mu         sync.Mutex
	prefix     string
	metadata   map[string]metadataWrite
	commands   map[string]int
	modActions map[string]int
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{
		prefix:     models.DefaultPrefix,
		metadata:   make(map[string]metadataWrite),
		commands:   make(map[string]int),
		modActions: make(map[string]int),
	}
}

func (f *fakeSettings) Get(context.Context, string) models.GuildSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.DefaultGuildSettings()
	s.Prefix = f.prefix
	return s
}

func (f *fakeSettings) UpdateMetadata(_ context.Context, guildID string, meta models.GuildMetadata, channels []models.ChannelSummary) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata[guildID] = metadataWrite{meta: meta, channels: channels}
	return true
}

func (f *fakeSettings) IncrementCommandCount(_ context.Context, guildID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands[guildID]++
	return true
}

func (f *fakeSettings) IncrementModAction(_ context.Context, guildID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modActions[guildID]++
	return true
}
