// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

// Package activity records configuration changes in each guild's settings.
//
// Entries live inside GuildSettings.Activity, newest first and bounded to a
// configurable number of entries. Appending writes the activity list through
// the same settings path as any other change.
package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

// DefaultMaxEntries is the number of entries kept per guild.
const DefaultMaxEntries = 50

// Settings is the settings provider the log reads and writes through. Both
// the local settings service and the remote syncer satisfy it.
type Settings interface {
	Get(ctx context.Context, guildID string) models.GuildSettings
	Update(ctx context.Context, guildID string, patch models.SettingsPatch) error
}

// Notifier is told about every successfully appended entry.
type Notifier interface {
	Notify(ctx context.Context, guildID string, settings models.GuildSettings, entry models.ActivityEntry)
}

// Log appends and lists activity entries.
type Log struct {
	settings   Settings
	notifier   Notifier
	maxEntries int
	now        func() time.Time

	// mu serializes appends so that two concurrent entries for one guild
	// are both kept.
	mu sync.Mutex
}

// Option configures a Log.
type Option func(*Log)

// WithMaxEntries overrides DefaultMaxEntries. Values below one are ignored.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.maxEntries = n
		}
	}
}

// WithNotifier sets the notifier called after each append.
func WithNotifier(n Notifier) Option {
	return func(l *Log) { l.notifier = n }
}

// New creates a log writing through settings.
func New(settings Settings, opts ...Option) *Log {
	l := &Log{
		settings:   settings,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxEntries returns the per-guild cap.
func (l *Log) MaxEntries() int { return l.maxEntries }

// Append stamps entry (when its timestamp is zero), puts it in front of the
// guild's activity and persists the trimmed list.
func (l *Log) Append(ctx context.Context, guildID string, entry models.ActivityEntry) error {
	entry = entry.Clone()
	entry.Action = entry.Action.Normalize()
	if !entry.Action.Valid() {
		err := fmt.Errorf("unknown activity action %q", entry.Action)
		metrics.RecordActivityAppend(string(entry.Action), err)
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now().UTC()
	}

	l.mu.Lock()
	current := l.settings.Get(ctx, guildID)
	list := Prepend(current.Activity, entry, l.maxEntries)
	err := l.settings.Update(ctx, guildID, models.SettingsPatch{Activity: list})
	l.mu.Unlock()

	metrics.RecordActivityAppend(string(entry.Action), err)
	if err != nil {
		logging.CtxErr(ctx, err).Str("guild_id", guildID).Str("action", string(entry.Action)).Msg("Failed to append activity entry")
		return fmt.Errorf("append activity: %w", err)
	}

	if l.notifier != nil {
		current.Activity = list
		l.notifier.Notify(ctx, guildID, current, entry)
	}
	return nil
}

// Record builds an entry from action and data and appends it.
func (l *Log) Record(ctx context.Context, guildID string, action models.ActivityAction, data interface{}) error {
	entry, err := models.NewActivityEntry(action, data)
	if err != nil {
		return fmt.Errorf("encode activity data: %w", err)
	}
	return l.Append(ctx, guildID, entry)
}

// Recent returns at most limit entries, newest first. A limit below one or
// above the cap returns up to the cap.
func (l *Log) Recent(ctx context.Context, guildID string, limit int) []models.ActivityEntry {
	if limit < 1 || limit > l.maxEntries {
		limit = l.maxEntries
	}
	list := l.settings.Get(ctx, guildID).Activity
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]models.ActivityEntry, len(list))
	copy(out, list)
	return out
}

// Prepend returns a new list with entry in front of list, truncated to max
// entries. list is not modified.
func Prepend(list []models.ActivityEntry, entry models.ActivityEntry, max int) []models.ActivityEntry {
	n := len(list) + 1
	if max > 0 && n > max {
		n = max
	}
	out := make([]models.ActivityEntry, 0, n)
	out = append(out, entry)
	for _, e := range list {
		if len(out) == n {
			break
		}
		out = append(out, e)
	}
	return out
}
