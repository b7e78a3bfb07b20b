// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package discord connects the settings layer to Discord through discordgo.

Key Components:

  - MetadataFetcher: live guild metadata and text channels over the REST API,
    cached with a TTL so dashboard views do not hit Discord on every request
  - Handlers: gateway event handlers that keep cached guild metadata current
    and maintain the command and moderation-action counters
  - LogChannelNotifier: posts an embed to the guild's log channel when a
    setting changes, rate limited per guild
  - NewSession: builds a gateway session with the intents the handlers need

The REST and message-sending surfaces are narrow interfaces satisfied by
*discordgo.Session, so tests substitute in-memory fakes.
*/
package discord
