// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

/*
Package api provides the HTTP surfaces of guildsync, routed with chi.

Internal bot API (served by the bot process, bearer token required):

	GET  /api/settings/{guildId}   guild settings document
	POST /api/settings/{guildId}   partial settings update, answers {"success": bool}
	GET  /api/guilds               guilds the bot is in
	GET  /api/channels/{guildId}   text channels of a guild

These endpoints speak bare JSON so the remote client in internal/botclient
decodes them directly.

Dashboard API (served by the dashboard process):

	GET  /api/guild/{guildId}              merged guild view
	POST /api/guild/{guildId}/prefix       {"prefix": "!"}
	POST /api/guild/{guildId}/cogs         {"enabledModules": ["image"]}
	POST /api/guild/{guildId}/log-channel  {"channelId": "123"}, "" clears
	GET  /api/guild/{guildId}/activity     ?limit=N, newest first
	GET  /api/guild/{guildId}/channels     remote, then cached, then empty
	GET  /api/stats                        aggregate counters

Dashboard responses use the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}}

Both processes also serve GET /api/health and the Prometheus /metrics endpoint.
*/
package api
