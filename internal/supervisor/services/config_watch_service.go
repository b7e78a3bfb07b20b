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

// WatchFunc starts watching path and returns a function that stops the watch.
// config.WatchConfigFile satisfies it.
type WatchFunc func(path string, onChange func()) (stop func() error, err error)

// ConfigWatchService invokes a reload callback whenever the config file changes.
type ConfigWatchService struct {
	path   string
	watch  WatchFunc
	reload func()
	name   string
	logger zerolog.Logger
}

// NewConfigWatchService creates the watch service for path.
func NewConfigWatchService(path string, watch WatchFunc, reload func()) *ConfigWatchService {
	return &ConfigWatchService{
		path:   path,
		watch:  watch,
		reload: reload,
		name:   "config-watch",
		logger: logging.WithComponent("config_watch"),
	}
}

// Serve implements suture.Service.
func (c *ConfigWatchService) Serve(ctx context.Context) error {
	stop, err := c.watch(c.path, func() {
		c.logger.Info().Str("path", c.path).Msg("Config file changed, reloading")
		c.reload()
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", c.path, err)
	}

	<-ctx.Done()

	if err := stop(); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to stop config watcher")
	}
	return ctx.Err()
}

func (c *ConfigWatchService) String() string {
	return c.name
}
