// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Intents requested by the gateway handlers: guild lifecycle, messages with
// content for prefix detection, and moderation for ban events.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent |
	discordgo.IntentsGuildBans

// NewSession creates an unopened bot session with the handlers registered.
func NewSession(token string, handlers *Handlers) (*discordgo.Session, error) {
	if token == "" {
		return nil, errors.New("discord token is required")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	if handlers != nil {
		handlers.Register(s)
	}
	return s, nil
}
