// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/guildsync/internal/logging"
)

// GatewaySession is the part of *discordgo.Session the service drives.
type GatewaySession interface {
	Open() error
	Close() error
}

// DiscordSessionService keeps the Discord gateway connection open.
//
// Reconnects after a dropped websocket are handled by discordgo itself. A
// failed Open returns an error so suture retries with backoff.
type DiscordSessionService struct {
	session GatewaySession
	name    string
	logger  zerolog.Logger
}

// NewDiscordSessionService wraps session for supervision.
func NewDiscordSessionService(session GatewaySession) *DiscordSessionService {
	return &DiscordSessionService{
		session: session,
		name:    "discord-session",
		logger:  logging.WithComponent("discord_session"),
	}
}

// Serve implements suture.Service.
func (d *DiscordSessionService) Serve(ctx context.Context) error {
	if err := d.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	d.logger.Info().Msg("Discord gateway session opened")

	<-ctx.Done()

	if err := d.session.Close(); err != nil {
		d.logger.Warn().Err(err).Msg("Failed to close Discord session cleanly")
	} else {
		d.logger.Info().Msg("Discord gateway session closed")
	}
	return ctx.Err()
}

func (d *DiscordSessionService) String() string {
	return d.name
}
