// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package settings is the local, authoritative-on-disk side of guild settings.

# Overview

  - Store: persistence of the guild-id -> GuildSettings mapping. FileStore keeps
    one JSON document; BadgerStore keeps one key per guild.
  - Cache: process-local copy of the last known settings of each guild.
  - Service: Store + Cache with read-through and write-through, counters,
    metadata upserts, aggregate statistics and the legacy prefix export.
  - LegacyExporter: derives the legacy {guildId: prefix} document.

# Failure Semantics

Store reads never fail. A missing document is created empty, an unparsable one
is reset to empty (the previous content is lost) and an unknown guild yields
synthesized defaults that are not persisted until the next write. Store writes
report failure as false and leave the previous document intact.

# Thread Safety

All types are safe for concurrent use. Writes to different guilds in the same
process never lose each other. Across processes the last writer wins.
*/
package settings
