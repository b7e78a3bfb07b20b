// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package models

import "time"

// Stats aggregates counters over every guild with stored settings.
type Stats struct {
	Servers    int   `json:"servers"`
	Users      int64 `json:"users"`
	Commands   int64 `json:"commands"`
	ModActions int64 `json:"modActions"`
}

// Add folds one guild record into the totals.
func (s *Stats) Add(g GuildSettings) {
	s.Servers++
	if g.MemberCount != nil && *g.MemberCount > 0 {
		s.Users += int64(*g.MemberCount)
	}
	s.Commands += g.CommandCount
	s.ModActions += g.ModActionCount
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	Uptime        float64           `json:"uptime_seconds"`
	StoreEngine   string            `json:"store_engine"`
	RemoteBot     string            `json:"remote_bot"`
	DiscordOnline bool              `json:"discord_online"`
	Checks        map[string]string `json:"checks,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}
