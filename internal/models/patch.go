// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package models

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guildsync/internal/validation"
)

// SettingsPatch is a partial GuildSettings. A nil field was not supplied and
// leaves the stored value untouched. An empty LogChannelID clears the channel.
//
// On the wire an absent key decodes to nil and [] decodes to an empty slice.
// MarshalJSON keeps that distinction for the slice fields.
type SettingsPatch struct {
	Prefix         *string          `json:"prefix,omitempty" validate:"omitempty,min=1,max=3"`
	EnabledModules []string         `json:"enabledModules,omitempty" validate:"omitempty,unique,dive,module"`
	LogChannelID   *string          `json:"logChannelId,omitempty" validate:"omitempty,snowflake"`
	CommandCount   *int64           `json:"commandCount,omitempty" validate:"omitempty,min=0"`
	ModActionCount *int64           `json:"modActionCount,omitempty" validate:"omitempty,min=0"`
	Activity       []ActivityEntry  `json:"activity,omitempty"`
	CachedChannels []ChannelSummary `json:"cachedChannels,omitempty"`

	Name        *string `json:"name,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	OwnerID     *string `json:"ownerId,omitempty" validate:"omitempty,snowflake"`
	MemberCount *int    `json:"memberCount,omitempty" validate:"omitempty,min=0"`
}

// patchWire is the encoded form of SettingsPatch. Slice fields are pointers
// so an empty list is sent as [] and a nil one is left out.
type patchWire struct {
	Prefix         *string           `json:"prefix,omitempty"`
	EnabledModules *[]string         `json:"enabledModules,omitempty"`
	LogChannelID   *string           `json:"logChannelId,omitempty"`
	CommandCount   *int64            `json:"commandCount,omitempty"`
	ModActionCount *int64            `json:"modActionCount,omitempty"`
	Activity       *[]ActivityEntry  `json:"activity,omitempty"`
	CachedChannels *[]ChannelSummary `json:"cachedChannels,omitempty"`

	Name        *string `json:"name,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	OwnerID     *string `json:"ownerId,omitempty"`
	MemberCount *int    `json:"memberCount,omitempty"`
}

// MarshalJSON encodes supplied slices, including empty ones, and omits nil
// ones.
func (p SettingsPatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(patchWire{
		Prefix:         p.Prefix,
		EnabledModules: supplied(p.EnabledModules),
		LogChannelID:   p.LogChannelID,
		CommandCount:   p.CommandCount,
		ModActionCount: p.ModActionCount,
		Activity:       supplied(p.Activity),
		CachedChannels: supplied(p.CachedChannels),
		Name:           p.Name,
		Icon:           p.Icon,
		OwnerID:        p.OwnerID,
		MemberCount:    p.MemberCount,
	})
}

func supplied[T any](s []T) *[]T {
	if s == nil {
		return nil
	}
	return &s
}

// Validate checks the patch at the write boundary. Invalid values are
// rejected, never truncated.
func (p *SettingsPatch) Validate() error {
	if err := validation.ValidateStruct(p); err != nil {
		return err
	}
	return nil
}

// ApplyTo merges the patch onto base and stamps LastUpdated with now.
// base is not modified.
//
// Counters never move backwards: an older full record written back (for
// example by a remote bot that has not yet seen the latest command) keeps the
// higher stored count.
func (p SettingsPatch) ApplyTo(base GuildSettings, now time.Time) GuildSettings {
	out := base.Clone()

	if p.Prefix != nil {
		out.Prefix = *p.Prefix
	}
	if p.EnabledModules != nil {
		out.EnabledModules = cloneStrings(p.EnabledModules)
	}
	if p.LogChannelID != nil {
		if *p.LogChannelID == "" {
			out.LogChannelID = nil
		} else {
			out.LogChannelID = cloneString(p.LogChannelID)
		}
	}
	if p.CommandCount != nil && *p.CommandCount > out.CommandCount {
		out.CommandCount = *p.CommandCount
	}
	if p.ModActionCount != nil && *p.ModActionCount > out.ModActionCount {
		out.ModActionCount = *p.ModActionCount
	}
	if p.Activity != nil {
		out.Activity = make([]ActivityEntry, len(p.Activity))
		for i, e := range p.Activity {
			out.Activity[i] = e.Clone()
		}
	}
	if p.CachedChannels != nil {
		out.CachedChannels = append([]ChannelSummary(nil), p.CachedChannels...)
	}

	if p.Name != nil {
		out.Name = cloneString(p.Name)
	}
	if p.Icon != nil {
		out.Icon = cloneString(p.Icon)
	}
	if p.OwnerID != nil {
		out.OwnerID = cloneString(p.OwnerID)
	}
	if p.MemberCount != nil {
		n := *p.MemberCount
		out.MemberCount = &n
	}

	out.Normalize()
	stamp := now.UTC()
	out.LastUpdated = &stamp
	return out
}

// PatchFrom converts a full record into a patch that carries every field.
// Metadata fields that are nil in s stay nil, so writing the patch keeps the
// stored metadata.
func PatchFrom(s GuildSettings) SettingsPatch {
	c := s.Clone()
	logChannel := ""
	if c.LogChannelID != nil {
		logChannel = *c.LogChannelID
	}
	prefix := c.Prefix
	commands := c.CommandCount
	modActions := c.ModActionCount

	return SettingsPatch{
		Prefix:         &prefix,
		EnabledModules: c.EnabledModules,
		LogChannelID:   &logChannel,
		CommandCount:   &commands,
		ModActionCount: &modActions,
		Activity:       c.Activity,
		CachedChannels: c.CachedChannels,
		Name:           c.Name,
		Icon:           c.Icon,
		OwnerID:        c.OwnerID,
		MemberCount:    c.MemberCount,
	}
}

// MetadataPatch builds a patch carrying only Discord metadata.
func MetadataPatch(meta GuildMetadata) SettingsPatch {
	name := meta.Name
	owner := meta.OwnerID
	count := meta.MemberCount
	patch := SettingsPatch{
		Name:        &name,
		Icon:        cloneString(meta.Icon),
		MemberCount: &count,
	}
	if owner != "" {
		patch.OwnerID = &owner
	}
	return patch
}
