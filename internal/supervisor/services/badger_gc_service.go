// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/guildsync/internal/logging"
)

const defaultGCInterval = 10 * time.Minute

// GarbageCollector is satisfied by *settings.BadgerStore.
type GarbageCollector interface {
	RunGC() error
}

// BadgerGCService runs value-log garbage collection on a fixed interval.
// A failed run is logged and retried on the next tick.
type BadgerGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
	logger   zerolog.Logger
}

// NewBadgerGCService creates the GC service. A non-positive interval selects 10m.
func NewBadgerGCService(gc GarbageCollector, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	return &BadgerGCService{
		gc:       gc,
		interval: interval,
		name:     "badger-gc",
		logger:   logging.WithComponent("badger_gc"),
	}
}

// Serve implements suture.Service.
func (b *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := b.gc.RunGC(); err != nil {
				b.logger.Warn().Err(err).Msg("Value log GC failed")
				continue
			}
			b.logger.Debug().Dur("duration", time.Since(start)).Msg("Value log GC completed")
		}
	}
}

func (b *BadgerGCService) String() string {
	return b.name
}
