// Guildsync - Discord Guild Settings Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guildsync

package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guildsync/internal/metrics"
	"github.com/tomtom215/guildsync/internal/models"
)

// legacyBackupLayout names backup files, e.g. prefixes_20260301_120000.json.
const legacyBackupLayout = "20060102_150405"

// LegacyExporter keeps the legacy {guildId: prefix} document in step with the
// settings store for tools that still read it.
type LegacyExporter struct {
	path      string
	backupDir string
	now       func() time.Time
	mu        sync.Mutex
}

// NewLegacyExporter writes the prefix document to path and backups of the
// previous version into backupDir. An empty backupDir disables backups.
func NewLegacyExporter(path, backupDir string) *LegacyExporter {
	return &LegacyExporter{path: path, backupDir: backupDir, now: time.Now}
}

// Export derives the prefix document from all and replaces the legacy file.
// Nothing is written when the derived content is unchanged. Otherwise the
// previous file is first copied into the backup directory.
func (e *LegacyExporter) Export(all map[string]models.GuildSettings) (err error) {
	defer func() {
		if err != nil {
			metrics.LegacyExports.WithLabelValues("failure").Inc()
		}
	}()

	prefixes := make(map[string]string, len(all))
	for id, s := range all {
		prefix := s.Prefix
		if prefix == "" {
			prefix = models.DefaultPrefix
		}
		prefixes[id] = prefix
	}
	data, err := json.MarshalIndent(prefixes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prefixes: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	previous, err := os.ReadFile(e.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		previous = nil
	case err != nil:
		return fmt.Errorf("read legacy prefixes: %w", err)
	case bytes.Equal(previous, data):
		return nil
	}

	if previous != nil && e.backupDir != "" {
		name := fmt.Sprintf("prefixes_%s.json", e.now().Format(legacyBackupLayout))
		if err := writeFileAtomic(filepath.Join(e.backupDir, name), previous, 0o644); err != nil {
			return fmt.Errorf("back up legacy prefixes: %w", err)
		}
	}
	if err := writeFileAtomic(e.path, data, 0o644); err != nil {
		return fmt.Errorf("write legacy prefixes: %w", err)
	}

	metrics.LegacyExports.WithLabelValues("success").Inc()
	return nil
}
