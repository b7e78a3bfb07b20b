// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package models

import (
	"time"
)

// Settings defaults applied to a guild that has never been written.
const (
	DefaultPrefix = "?"

	// UnknownGuildName is reported when nothing at all is known about a guild.
	UnknownGuildName = "Unknown Server"

	// ModuleSecurity owns the guild's log channel alerts.
	ModuleSecurity = "security"
)

// DefaultModules returns the modules enabled for a new guild.
func DefaultModules() []string {
	return []string{"image", ModuleSecurity}
}

// GuildSettings is the persisted configuration record of one guild.
//
// Name, Icon, OwnerID and MemberCount are best-effort copies of Discord guild
// metadata. They are merged on write: a write that does not carry them keeps
// the stored values.
type GuildSettings struct {
	Prefix         string           `json:"prefix"`
	EnabledModules []string         `json:"enabledModules"`
	LogChannelID   *string          `json:"logChannelId"`
	CommandCount   int64            `json:"commandCount"`
	ModActionCount int64            `json:"modActionCount"`
	Activity       []ActivityEntry  `json:"activity"`
	CachedChannels []ChannelSummary `json:"cachedChannels,omitempty"`

	Name        *string `json:"name,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	OwnerID     *string `json:"ownerId,omitempty"`
	MemberCount *int    `json:"memberCount,omitempty"`

	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// DefaultGuildSettings synthesizes the record returned for a guild with no
// stored settings.
func DefaultGuildSettings() GuildSettings {
	return GuildSettings{
		Prefix:         DefaultPrefix,
		EnabledModules: DefaultModules(),
		Activity:       []ActivityEntry{},
	}
}

// Clone returns a deep copy of the settings.
func (s GuildSettings) Clone() GuildSettings {
	out := s
	out.EnabledModules = cloneStrings(s.EnabledModules)
	out.LogChannelID = cloneString(s.LogChannelID)
	out.Name = cloneString(s.Name)
	out.Icon = cloneString(s.Icon)
	out.OwnerID = cloneString(s.OwnerID)
	if s.MemberCount != nil {
		n := *s.MemberCount
		out.MemberCount = &n
	}
	if s.LastUpdated != nil {
		t := *s.LastUpdated
		out.LastUpdated = &t
	}
	if s.Activity != nil {
		out.Activity = make([]ActivityEntry, len(s.Activity))
		for i, e := range s.Activity {
			out.Activity[i] = e.Clone()
		}
	}
	if s.CachedChannels != nil {
		out.CachedChannels = append([]ChannelSummary(nil), s.CachedChannels...)
	}
	return out
}

// Normalize fills nil collections so that the record always serializes to
// arrays rather than null. Missing prefixes fall back to the default.
func (s *GuildSettings) Normalize() {
	if s.Prefix == "" {
		s.Prefix = DefaultPrefix
	}
	if s.EnabledModules == nil {
		s.EnabledModules = DefaultModules()
	}
	if s.Activity == nil {
		s.Activity = []ActivityEntry{}
	}
}

// HasModule reports whether the named module is enabled.
func (s GuildSettings) HasModule(name string) bool {
	for _, m := range s.EnabledModules {
		if m == name {
			return true
		}
	}
	return false
}

// Metadata returns the cached Discord metadata held by the record.
func (s GuildSettings) Metadata() GuildMetadata {
	var meta GuildMetadata
	if s.Name != nil {
		meta.Name = *s.Name
	}
	meta.Icon = cloneString(s.Icon)
	if s.OwnerID != nil {
		meta.OwnerID = *s.OwnerID
	}
	if s.MemberCount != nil {
		meta.MemberCount = *s.MemberCount
	}
	return meta
}

// ChannelSummary describes one channel of a guild.
type ChannelSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	Position int    `json:"position"`
}

// GuildMetadata is the Discord-side description of a guild.
type GuildMetadata struct {
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	OwnerID     string  `json:"ownerId"`
	MemberCount int     `json:"memberCount"`
}

// GuildSummary is one entry of the bot's guild listing.
type GuildSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	MemberCount int     `json:"memberCount"`
}

// GuildDataView is the merged guild object served to the dashboard.
// MemberCount is always present.
type GuildDataView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Icon        *string       `json:"icon"`
	OwnerID     string        `json:"ownerId,omitempty"`
	MemberCount int           `json:"memberCount"`
	Settings    GuildSettings `json:"settings"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
