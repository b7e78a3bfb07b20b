// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/guildsync/internal/logging"
	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

// document is the on-disk layout: guild ID -> settings.
type document map[string]models.GuildSettings

var emptyDocument = []byte("{}")

// FileStore keeps every guild's settings in a single JSON document.
//
// Every write re-reads the whole document, merges one guild's patch and
// replaces the file atomically. A process-wide mutex serializes writers so
// that two guilds written concurrently both persist.
type FileStore struct {
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger zerolog.Logger
}

// NewFileStore creates a store backed by the JSON document at path. The file
// is created lazily on first access.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		now:    time.Now,
		logger: logging.WithComponent("settings_store").With().Str("engine", EngineJSON).Str("path", path).Logger(),
	}
}

// Engine implements Store.
func (s *FileStore) Engine() string { return EngineJSON }

// Path returns the location of the settings document.
func (s *FileStore) Path() string { return s.path }

// Read implements Store.
func (s *FileStore) Read(guildID string) models.GuildSettings {
	start := time.Now()
	defer observe(EngineJSON, "read", start)

	s.mu.Lock()
	doc, _ := s.load()
	s.mu.Unlock()

	stored, ok := doc[guildID]
	if !ok {
		return models.DefaultGuildSettings()
	}
	stored.Normalize()
	return stored
}

// ReadAll implements Store.
func (s *FileStore) ReadAll() map[string]models.GuildSettings {
	start := time.Now()
	defer observe(EngineJSON, "read_all", start)

	s.mu.Lock()
	doc, _ := s.load()
	s.mu.Unlock()

	out := make(map[string]models.GuildSettings, len(doc))
	for id, stored := range doc {
		stored.Normalize()
		out[id] = stored
	}
	metrics.StoreGuilds.Set(float64(len(out)))
	return out
}

// Write implements Store.
func (s *FileStore) Write(guildID string, patch models.SettingsPatch) bool {
	start := time.Now()
	defer observe(EngineJSON, "write", start)

	if guildID == "" {
		metrics.RecordStoreWriteFailure(EngineJSON, "validation")
		return false
	}
	if err := patch.Validate(); err != nil {
		s.logger.Warn().Str("guild_id", guildID).Err(err).Msg("Rejected invalid settings write")
		metrics.RecordStoreWriteFailure(EngineJSON, "validation")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		metrics.RecordStoreWriteFailure(EngineJSON, "io")
		return false
	}
	base, ok := doc[guildID]
	if !ok {
		base = models.DefaultGuildSettings()
	}
	doc[guildID] = patch.ApplyTo(base, s.now())

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.logger.Error().Str("guild_id", guildID).Err(err).Msg("Failed to encode settings document")
		metrics.RecordStoreWriteFailure(EngineJSON, "encode")
		return false
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		s.logger.Error().Str("guild_id", guildID).Err(err).Msg("Failed to persist settings document")
		metrics.RecordStoreWriteFailure(EngineJSON, "io")
		return false
	}
	return true
}

// Close implements Store. The file store holds no open handles.
func (s *FileStore) Close() error { return nil }

// load reads and decodes the document. It creates a missing document and
// resets an unparsable one. The error is non-nil only when the file exists
// but cannot be read, in which case the returned document is empty and must
// not be written back. Callers must hold s.mu.
func (s *FileStore) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeFileAtomic(s.path, emptyDocument, 0o644); err != nil {
			s.logger.Error().Err(err).Msg("Failed to create settings document")
		} else {
			s.logger.Info().Msg("Created empty settings document")
		}
		return document{}, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read settings document")
		return document{}, err
	}

	doc := document{}
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		s.reset(err)
		return document{}, nil
	}
	return doc, nil
}

// reset replaces a corrupt document with an empty one.
func (s *FileStore) reset(cause error) {
	s.logger.Warn().Err(cause).Msg("Settings document is corrupt, resetting to empty")
	metrics.RecordStoreReset(EngineJSON)
	if err := writeFileAtomic(s.path, emptyDocument, 0o644); err != nil {
		s.logger.Error().Err(err).Msg("Failed to reset settings document")
	}
}

// writeFileAtomic writes data to a temporary file in the target directory and
// renames it over path, so readers never observe a partial document.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
