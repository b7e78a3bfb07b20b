// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package botclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/guildsync/internal/models"
)

var errUnreachable = errors.New("connection refused")

// fakeRemote is an in-memory bot API. When down is set every call fails.
type fakeRemote struct {
	mu       sync.Mutex
	down     bool
	settings map[string]models.GuildSettings
	channels map[string][]models.ChannelSummary
	guilds   []models.GuildSummary
	posts    []models.SettingsPatch
	calls    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		settings: make(map[string]models.GuildSettings),
		channels: make(map[string][]models.ChannelSummary),
	}
}

func (f *fakeRemote) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRemote) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.down {
		return errUnreachable
	}
	return nil
}

func (f *fakeRemote) GetSettings(_ context.Context, guildID string) (models.GuildSettings, error) {
	if err := f.begin(); err != nil {
		return models.GuildSettings{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[guildID]
	if !ok {
		return models.DefaultGuildSettings(), nil
	}
	return s.Clone(), nil
}

func (f *fakeRemote) PostSettings(_ context.Context, guildID string, patch models.SettingsPatch) error {
	if err := f.begin(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	base, ok := f.settings[guildID]
	if !ok {
		base = models.DefaultGuildSettings()
	}
	f.settings[guildID] = patch.ApplyTo(base, time.Now())
	f.posts = append(f.posts, patch)
	return nil
}

func (f *fakeRemote) GetGuilds(context.Context) ([]models.GuildSummary, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	return f.guilds, nil
}

func (f *fakeRemote) GetChannels(_ context.Context, guildID string) ([]models.ChannelSummary, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels[guildID], nil
}
