// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

const (
	guildKeyPrefix = "guild:"

	// maxConflictRetries bounds how often a write is retried after a
	// concurrent transaction touched the same guild.
	maxConflictRetries = 5

	// gcDiscardRatio is the value log discard ratio passed to badger GC.
	gcDiscardRatio = 0.5
)

// BadgerStore keeps one key per guild in BadgerDB. Each write is a single
// read-modify-write transaction over that guild's key.
type BadgerStore struct {
	db     *badger.DB
	now    func() time.Time
	logger zerolog.Logger
}

// OpenBadgerStore opens (or creates) the database directory at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	if path == "" {
		return nil, errors.New("badger path is required")
	}
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = true
	// Badger's own logger is noisy; errors surface through returned values.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{
		db:     db,
		now:    time.Now,
		logger: logging.WithComponent("settings_store").With().Str("engine", EngineBadger).Logger(),
	}
}

func guildKey(guildID string) []byte {
	return []byte(guildKeyPrefix + guildID)
}

// Engine implements Store.
func (s *BadgerStore) Engine() string { return EngineBadger }

// Read implements Store.
func (s *BadgerStore) Read(guildID string) models.GuildSettings {
	start := time.Now()
	defer observe(EngineBadger, "read", start)

	var (
		stored  models.GuildSettings
		found   bool
		corrupt error
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(guildKey(guildID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &stored); err != nil {
				corrupt = err
				return nil
			}
			found = true
			return nil
		})
	})
	if err != nil {
		s.logger.Error().Str("guild_id", guildID).Err(err).Msg("Failed to read guild settings")
		return models.DefaultGuildSettings()
	}
	if corrupt != nil {
		s.resetGuild(guildID, corrupt)
		return models.DefaultGuildSettings()
	}
	if !found {
		return models.DefaultGuildSettings()
	}
	stored.Normalize()
	return stored
}

// ReadAll implements Store. Corrupt records are skipped and reset.
func (s *BadgerStore) ReadAll() map[string]models.GuildSettings {
	start := time.Now()
	defer observe(EngineBadger, "read_all", start)

	out := make(map[string]models.GuildSettings)
	var corrupt []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(guildKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			guildID := string(item.Key()[len(prefix):])

			var stored models.GuildSettings
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			})
			if err != nil {
				corrupt = append(corrupt, guildID)
				continue
			}
			stored.Normalize()
			out[guildID] = stored
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to iterate guild settings")
	}
	for _, guildID := range corrupt {
		s.resetGuild(guildID, errors.New("undecodable record"))
	}

	metrics.StoreGuilds.Set(float64(len(out)))
	return out
}

// Write implements Store.
func (s *BadgerStore) Write(guildID string, patch models.SettingsPatch) bool {
	start := time.Now()
	defer observe(EngineBadger, "write", start)

	if guildID == "" {
		metrics.RecordStoreWriteFailure(EngineBadger, "validation")
		return false
	}
	if err := patch.Validate(); err != nil {
		s.logger.Warn().Str("guild_id", guildID).Err(err).Msg("Rejected invalid settings write")
		metrics.RecordStoreWriteFailure(EngineBadger, "validation")
		return false
	}

	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			return s.merge(txn, guildID, patch)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
		s.logger.Debug().Str("guild_id", guildID).Int("attempt", attempt).Msg("Settings write conflicted, retrying")
	}

	if err != nil {
		reason := "io"
		if errors.Is(err, badger.ErrConflict) {
			reason = "conflict"
		}
		s.logger.Error().Str("guild_id", guildID).Err(err).Msg("Failed to persist guild settings")
		metrics.RecordStoreWriteFailure(EngineBadger, reason)
		return false
	}
	return true
}

func (s *BadgerStore) merge(txn *badger.Txn, guildID string, patch models.SettingsPatch) error {
	key := guildKey(guildID)
	base := models.DefaultGuildSettings()

	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return err
	default:
		err = item.Value(func(val []byte) error {
			var stored models.GuildSettings
			if err := json.Unmarshal(val, &stored); err != nil {
				s.logger.Warn().Str("guild_id", guildID).Err(err).Msg("Stored guild settings are corrupt, replacing")
				metrics.RecordStoreReset(EngineBadger)
				return nil
			}
			base = stored
			return nil
		})
		if err != nil {
			return err
		}
	}

	data, err := json.Marshal(patch.ApplyTo(base, s.now()))
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return txn.Set(key, data)
}

// resetGuild removes an undecodable record so that later reads return defaults.
func (s *BadgerStore) resetGuild(guildID string, cause error) {
	s.logger.Warn().Str("guild_id", guildID).Err(cause).Msg("Stored guild settings are corrupt, resetting")
	metrics.RecordStoreReset(EngineBadger)
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(guildKey(guildID))
	})
	if err != nil {
		s.logger.Error().Str("guild_id", guildID).Err(err).Msg("Failed to reset guild settings")
	}
}

// RunGC reclaims value log space until badger reports nothing to rewrite.
func (s *BadgerStore) RunGC() error {
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
