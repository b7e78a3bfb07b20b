// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package models defines the data structures shared by the bot, the internal bot
API and the dashboard API.

Key Components:

  - GuildSettings: the persisted per-guild record (prefix, modules, log channel,
    counters, activity, cached channels and cached guild metadata)
  - SettingsPatch: a partial update; nil fields were not supplied by the caller
  - ActivityEntry: one configuration change, newest first in GuildSettings.Activity
  - GuildDataView: the merged, externally visible guild object
  - GuildSummary, GuildMetadata, ChannelSummary: Discord-side descriptions
  - Stats: aggregate statistics over every known guild

JSON field names are camelCase because they are shared with the dashboard
frontend and with the on-disk settings document.

Usage Example:

	s := models.DefaultGuildSettings()
	prefix := "!!"
	patch := models.SettingsPatch{Prefix: &prefix}
	merged := patch.ApplyTo(s, time.Now())

Thread Safety:

Values in this package are plain data. GuildSettings contains slices and
pointers, so use Clone before handing a record to another goroutine.
*/
package models
